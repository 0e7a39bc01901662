package cli

import (
	"errors"
	"fmt"

	"habitdash/internal/dash"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, add and toggle today's tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List today's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			tasks, err := app.client(cmd).FetchTasks(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tasks})
		},
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	var title, at string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task for today and print the refreshed task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := app.controller(cmd)
			st := ctrl.State()
			st.OpenTaskForm()
			st.TaskForm.Title = title
			st.TaskForm.Time = at
			if err := ctrl.SubmitTask(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Tasks})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&at, "time", "", "Time of day as HH:MM (default 12:00)")
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl := app.controller(cmd)
			if err := ctrl.Mount(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			outcome, err := ctrl.ToggleTask(cmd.Context(), id)
			if errors.Is(err, dash.ErrNotLoaded) {
				return writeErr(cmd, errNotFound("task", id))
			}
			t, _ := ctrl.State().FindTask(id)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("toggle task %d %s: %w", id, outcome, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"task":    t,
				"outcome": outcome.String(),
			}})
		},
	}
}
