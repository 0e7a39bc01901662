package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitdash.sqlite")
	s, err := Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	s.SetClock(func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) })
	return s
}

func TestOpen_SQLiteDialect(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if s.Dialect() != dialectSQLite {
		t.Fatalf("expected sqlite dialect, got %q", s.Dialect())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "  ", nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestIsPostgresDSN(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"postgres://u@h/db":    true,
		"POSTGRESQL://u@h/db":  true,
		"habitdash.sqlite":     false,
		"file:test.db?mode=rw": false,
	}
	for dsn, want := range cases {
		if got := IsPostgresDSN(dsn); got != want {
			t.Fatalf("IsPostgresDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestGoals_AddListUpdate(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.AddGoal(ctx, "Read two books a month", "study")
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	id2, err := s.AddGoal(ctx, "Something", "not-a-category")
	if err != nil {
		t.Fatalf("add goal 2: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("ids must increase: %d then %d", id1, id2)
	}

	goals, err := s.ListGoals(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(goals) != 2 || goals[0].ID != id1 || goals[1].ID != id2 {
		t.Fatalf("unexpected goals order: %+v", goals)
	}
	if goals[0].Category != "study" || goals[1].Category != "goals" {
		t.Fatalf("unexpected categories: %+v", goals)
	}
	if goals[0].Progress != 0 || goals[0].Completed {
		t.Fatalf("new goals start at 0%% and incomplete: %+v", goals[0])
	}

	done := true
	progress := 65
	if err := s.UpdateGoal(ctx, id1, GoalUpdate{Completed: &done, Progress: &progress}); err != nil {
		t.Fatalf("update goal: %v", err)
	}
	goals, _ = s.ListGoals(ctx)
	if !goals[0].Completed || goals[0].Progress != 65 {
		t.Fatalf("update not applied: %+v", goals[0])
	}

	if err := s.UpdateGoal(ctx, 9999, GoalUpdate{Completed: &done}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateGoal(ctx, id1, GoalUpdate{}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty update, got %v", err)
	}
	bad := 101
	if err := s.UpdateGoal(ctx, id1, GoalUpdate{Progress: &bad}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for progress 101, got %v", err)
	}
	if _, err := s.AddGoal(ctx, "  ", "study"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty title, got %v", err)
	}
}

func TestTasks_OnlyToday(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	yesterday := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	s.SetClock(func() time.Time { return yesterday })
	if _, err := s.AddTask(ctx, "Old task", "08:00"); err != nil {
		t.Fatalf("add old task: %v", err)
	}

	s.SetClock(func() time.Time { return today })
	id, err := s.AddTask(ctx, "Call client", "09:30")
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := s.AddTask(ctx, "Lunch", ""); err != nil {
		t.Fatalf("add task default time: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected only today's tasks, got %+v", tasks)
	}
	if tasks[0].ID != id || tasks[0].Title != "Call client" || tasks[0].Time != "09:30" || tasks[0].Completed {
		t.Fatalf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].Time != "12:00" {
		t.Fatalf("expected default time 12:00, got %q", tasks[1].Time)
	}

	if err := s.SetTaskCompleted(ctx, id, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	tasks, _ = s.ListTasks(ctx)
	if !tasks[0].Completed {
		t.Fatalf("completion not persisted")
	}
	if err := s.SetTaskCompleted(ctx, 424242, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.AddTask(ctx, "Bad", "99:99"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestReopen_KeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "db.sqlite")
	ctx := context.Background()

	s, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.AddGoal(ctx, "Persist me", "health"); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = s.Close()

	s2, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	goals, err := s2.ListGoals(ctx)
	if err != nil || len(goals) != 1 || goals[0].Title != "Persist me" {
		t.Fatalf("expected persisted goal; goals=%+v err=%v", goals, err)
	}
}

// TestPostgres runs only when HABITDASH_TEST_POSTGRES points at a scratch database.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("HABITDASH_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("HABITDASH_TEST_POSTGRES not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer s.Close()
	if s.Dialect() != dialectPostgres {
		t.Fatalf("expected postgres dialect")
	}
	id, err := s.AddTask(ctx, "pg task", "10:00")
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if err := s.SetTaskCompleted(ctx, id, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
}
