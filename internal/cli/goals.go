package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"habitdash/internal/dash"
	"habitdash/internal/model"

	"github.com/spf13/cobra"
)

func newGoalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List, add and update goals",
	}
	cmd.AddCommand(newGoalsListCmd(app))
	cmd.AddCommand(newGoalsAddCmd(app))
	cmd.AddCommand(newGoalsToggleCmd(app))
	cmd.AddCommand(newGoalsProgressCmd(app))
	return cmd
}

func newGoalsListCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category = strings.TrimSpace(category)
			if category != "" && !model.ValidCategory(category) {
				return writeErr(cmd, invalidArgError{name: "category", value: category, want: categoryIDs()})
			}

			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			goals, err := app.client(cmd).FetchGoals(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			if category != "" {
				goals = model.GoalsInCategory(goals, category)
				if goals == nil {
					goals = []model.Goal{}
				}
			}
			return writeOut(cmd, app, map[string]any{"data": goals})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only goals in this category")
	return cmd
}

func newGoalsAddCmd(app *App) *cobra.Command {
	var title, category string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a goal and print the refreshed goal list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := app.controller(cmd)
			st := ctrl.State()
			st.OpenGoalForm()
			st.GoalForm.Title = title
			if strings.TrimSpace(category) != "" {
				st.GoalForm.Category = category
			}
			if err := ctrl.SubmitGoal(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Goals})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Goal title (required)")
	cmd.Flags().StringVar(&category, "category", "", "Category ("+categoryIDs()+"; default goals)")
	return cmd
}

func newGoalsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <goal-id>",
		Short: "Flip a goal's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("goal", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl := app.controller(cmd)
			if err := ctrl.Mount(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			outcome, err := ctrl.ToggleGoal(cmd.Context(), id)
			if errors.Is(err, dash.ErrNotLoaded) {
				return writeErr(cmd, errNotFound("goal", id))
			}
			g, _ := ctrl.State().FindGoal(id)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("toggle goal %d %s: %w", id, outcome, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"goal":    g,
				"outcome": outcome.String(),
			}})
		},
	}
}

func newGoalsProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <goal-id> <percent>",
		Short: "Set a goal's progress (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("goal", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			pct, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil || pct < model.MinProgress || pct > model.MaxProgress {
				return writeErr(cmd, invalidArgError{name: "progress", value: args[1], want: "an integer between 0 and 100"})
			}
			ctrl := app.controller(cmd)
			if err := ctrl.Mount(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			outcome, err := ctrl.SetGoalProgress(cmd.Context(), id, pct)
			if errors.Is(err, dash.ErrNotLoaded) {
				return writeErr(cmd, errNotFound("goal", id))
			}
			g, _ := ctrl.State().FindGoal(id)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("set goal %d progress %s: %w", id, outcome, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"goal":    g,
				"outcome": outcome.String(),
			}})
		},
	}
}

func categoryIDs() string {
	var ids []string
	for _, c := range model.Categories() {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, "|")
}
