package cli

import (
	"fmt"

	"habitdash/internal/docs"
	"habitdash/internal/publish"

	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		out       string
		overwrite bool
		completed bool
		render    bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown report of goals and today's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := app.controller(cmd)
			if err := ctrl.Mount(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			st := ctrl.State()
			md := publish.RenderReport(st.Goals, st.Tasks, publish.RenderOptions{IncludeCompleted: completed})

			if out != "" {
				res, err := publish.WriteReport(out, md, overwrite)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}
			if render {
				md = docs.Render(md, 80, styles.DarkStyle)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing --out file")
	cmd.Flags().BoolVar(&completed, "include-completed", false, "Include completed goals and tasks")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")

	return cmd
}
