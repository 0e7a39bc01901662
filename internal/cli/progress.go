package cli

import (
	"habitdash/internal/model"

	"github.com/spf13/cobra"
)

type categoryProgress struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Goals    int    `json:"goals" yaml:"goals"`
	Progress int    `json:"progress" yaml:"progress"`
}

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show overall and per-category goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			goals, err := app.client(cmd).FetchGoals(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			var rows []categoryProgress
			for _, c := range model.Categories() {
				in := model.GoalsInCategory(goals, c.ID)
				if len(in) == 0 {
					continue
				}
				rows = append(rows, categoryProgress{
					ID:       c.ID,
					Name:     c.Name,
					Goals:    len(in),
					Progress: model.OverallProgress(in),
				})
			}
			if rows == nil {
				rows = []categoryProgress{}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"overall":    model.OverallProgress(goals),
				"goals":      len(goals),
				"categories": rows,
			}})
		},
	}
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the fixed goal categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": model.Categories()})
		},
	}
}
