package dash

import (
	"context"
	"sync"

	"habitdash/internal/model"
)

type fakeRemote struct {
	mu sync.Mutex

	goals []model.Goal
	tasks []model.Task

	nextID int64
	// fail maps an operation name to the error it should return.
	fail  map[string]error
	calls map[string]int
	// block, when set for an op, makes the call wait for ctx cancellation.
	block map[string]bool
}

func newFakeRemote(goals []model.Goal, tasks []model.Task) *fakeRemote {
	return &fakeRemote{
		goals:  append([]model.Goal(nil), goals...),
		tasks:  append([]model.Task(nil), tasks...),
		nextID: 100,
		fail:   map[string]error{},
		calls:  map[string]int{},
		block:  map[string]bool{},
	}
}

func (f *fakeRemote) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	err := f.fail[op]
	block := f.block[op]
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRemote) setFail(op string, err error) {
	f.mu.Lock()
	f.fail[op] = err
	f.mu.Unlock()
}

func (f *fakeRemote) FetchGoals(ctx context.Context) ([]model.Goal, error) {
	if err := f.enter(ctx, "FetchGoals"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Goal{}, f.goals...), nil
}

func (f *fakeRemote) FetchTasks(ctx context.Context) ([]model.Task, error) {
	if err := f.enter(ctx, "FetchTasks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task{}, f.tasks...), nil
}

func (f *fakeRemote) SetGoalCompletion(ctx context.Context, id int64, completed bool) error {
	if err := f.enter(ctx, "SetGoalCompletion"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals[i].Completed = completed
		}
	}
	return nil
}

func (f *fakeRemote) SetTaskCompletion(ctx context.Context, id int64, completed bool) error {
	if err := f.enter(ctx, "SetTaskCompletion"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = completed
		}
	}
	return nil
}

func (f *fakeRemote) SetGoalProgress(ctx context.Context, id int64, progress int) error {
	if err := f.enter(ctx, "SetGoalProgress"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals[i].Progress = progress
		}
	}
	return nil
}

func (f *fakeRemote) AddGoal(ctx context.Context, title, category string) error {
	if err := f.enter(ctx, "AddGoal"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.goals = append(f.goals, model.Goal{ID: f.nextID, Title: title, Category: category})
	return nil
}

func (f *fakeRemote) AddTask(ctx context.Context, title, at string) error {
	if err := f.enter(ctx, "AddTask"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.tasks = append(f.tasks, model.Task{ID: f.nextID, Title: title, Time: at})
	return nil
}
