package store

import (
	"context"
	"fmt"
	"strings"

	"habitdash/internal/model"
)

func (s *Store) ListGoals(ctx context.Context) ([]model.Goal, error) {
	const q = `SELECT id, title, category, progress, completed FROM goals ORDER BY id`

	out := []model.Goal{}
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return out, nil
}

// ListTasks returns today's tasks.
func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	q := s.db.Rebind(`SELECT id, title, time, completed FROM tasks WHERE task_date = ? ORDER BY id`)

	out := []model.Task{}
	if err := s.db.SelectContext(ctx, &out, q, s.today()); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *Store) AddGoal(ctx context.Context, title, category string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: empty title", ErrInvalid)
	}
	q := s.db.Rebind(`INSERT INTO goals (title, category, progress, completed) VALUES (?, ?, 0, FALSE) RETURNING id`)

	var id int64
	if err := s.db.QueryRowxContext(ctx, q, title, model.NormalizeCategory(category)).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return id, nil
}

func (s *Store) AddTask(ctx context.Context, title, at string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: empty title", ErrInvalid)
	}
	at = strings.TrimSpace(at)
	if at == "" {
		at = model.DefaultTaskTime
	}
	if !model.ValidTime(at) {
		return 0, fmt.Errorf("%w: time must be HH:MM", ErrInvalid)
	}
	q := s.db.Rebind(`INSERT INTO tasks (title, time, completed, task_date) VALUES (?, ?, FALSE, ?) RETURNING id`)

	var id int64
	if err := s.db.QueryRowxContext(ctx, q, title, at, s.today()).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

// GoalUpdate carries the optional fields of a goal update; nil means unchanged.
type GoalUpdate struct {
	Completed *bool
	Progress  *int
}

func (s *Store) UpdateGoal(ctx context.Context, id int64, u GoalUpdate) error {
	if u.Completed == nil && u.Progress == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalid)
	}
	var sets []string
	var args []any
	if u.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *u.Completed)
	}
	if u.Progress != nil {
		if *u.Progress < model.MinProgress || *u.Progress > model.MaxProgress {
			return fmt.Errorf("%w: progress out of range", ErrInvalid)
		}
		sets = append(sets, "progress = ?")
		args = append(args, *u.Progress)
	}
	args = append(args, id)
	q := s.db.Rebind(`UPDATE goals SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	return s.execOne(ctx, "update goal", q, args...)
}

func (s *Store) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	q := s.db.Rebind(`UPDATE tasks SET completed = ? WHERE id = ?`)
	return s.execOne(ctx, "update task", q, completed, id)
}

func (s *Store) execOne(ctx context.Context, op, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
