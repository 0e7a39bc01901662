package cli

import (
	"fmt"

	"habitdash/internal/docs"

	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw    bool
		render bool
		light  bool
		width  int
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `habitdash docs` to list topics)", topic))
			}

			switch {
			case render:
				style := styles.DarkStyle
				if light {
					style = styles.LightStyle
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), docs.Render(body, width, style))
				return err
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")
	cmd.Flags().BoolVar(&light, "light", false, "Use the light palette with --render")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width with --render")

	return cmd
}
