package dash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"habitdash/internal/model"
	"habitdash/internal/mutate"
	"habitdash/internal/remote"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds every remote call so no mutation stays applied-locally forever.
const DefaultTimeout = 10 * time.Second

// Remote is the subset of the remote store client the controller needs.
type Remote interface {
	FetchGoals(ctx context.Context) ([]model.Goal, error)
	FetchTasks(ctx context.Context) ([]model.Task, error)
	SetGoalCompletion(ctx context.Context, id int64, completed bool) error
	SetTaskCompletion(ctx context.Context, id int64, completed bool) error
	SetGoalProgress(ctx context.Context, id int64, progress int) error
	AddGoal(ctx context.Context, title, category string) error
	AddTask(ctx context.Context, title, at string) error
}

type EntityKind string

const (
	EntityGoal EntityKind = "goal"
	EntityTask EntityKind = "task"
)

// Key identifies one entity across both collections.
type Key struct {
	Kind EntityKind
	ID   int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// Controller owns the view state and drives every mutation through the
// optimistic apply/confirm/rollback cycle.
type Controller struct {
	remote  Remote
	state   *State
	log     *slog.Logger
	timeout time.Duration

	mounted bool
}

func NewController(r Remote, log *slog.Logger, timeout time.Duration) *Controller {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		remote:  r,
		state:   NewState(),
		log:     log,
		timeout: timeout,
	}
}

func (c *Controller) State() *State { return c.state }

func (c *Controller) Timeout() time.Duration { return c.timeout }

// Pending is a mutation that has been applied locally and awaits its remote call.
type Pending struct {
	attempt *mutate.Attempt[Key]
	call    func(ctx context.Context) error
	timeout time.Duration
	what    string
}

func (p *Pending) Key() Key { return p.attempt.Key }

func (p *Pending) State() mutate.State { return p.attempt.State() }

// Call performs the remote half of the mutation. It does not touch view state
// and may run on any goroutine.
func (p *Pending) Call(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.call(ctx)
}

// Settle applies the remote outcome on the interaction goroutine.
func (c *Controller) Settle(p *Pending, err error) mutate.State {
	if p == nil {
		return mutate.Confirmed
	}
	st := p.attempt.Settle(err)
	if st == mutate.RolledBack {
		c.log.Warn("optimistic update rolled back",
			"entity", string(p.attempt.Key.Kind),
			"id", p.attempt.Key.ID,
			"change", p.what,
			"error", err,
		)
	} else {
		c.log.Debug("optimistic update confirmed", "entity", string(p.attempt.Key.Kind), "id", p.attempt.Key.ID, "change", p.what)
	}
	return st
}

func (c *Controller) runPending(ctx context.Context, p *Pending, ok bool) (mutate.State, error) {
	if !ok {
		return mutate.RolledBack, ErrNotLoaded
	}
	err := p.Call(ctx)
	return c.Settle(p, err), err
}

// ErrNotLoaded reports that a mutation targeted an id missing from local state.
var ErrNotLoaded = errors.New("entity not loaded")

// BeginToggleGoal flips the goal's completion locally. ok is false when the id is unknown.
func (c *Controller) BeginToggleGoal(id int64) (*Pending, bool) {
	g := c.state.goal(id)
	if g == nil {
		return nil, false
	}
	prev := g.Completed
	next := !prev
	key := Key{Kind: EntityGoal, ID: id}
	a := mutate.Begin(key,
		func() { c.setGoalCompleted(id, next) },
		func() { c.setGoalCompleted(id, prev) },
	)
	r := c.remote
	return &Pending{
		attempt: a,
		timeout: c.timeout,
		what:    fmt.Sprintf("completed=%t", next),
		call: func(ctx context.Context) error {
			return r.SetGoalCompletion(ctx, id, next)
		},
	}, true
}

// BeginToggleTask flips the task's completion locally. ok is false when the id is unknown.
func (c *Controller) BeginToggleTask(id int64) (*Pending, bool) {
	t := c.state.task(id)
	if t == nil {
		return nil, false
	}
	prev := t.Completed
	next := !prev
	key := Key{Kind: EntityTask, ID: id}
	a := mutate.Begin(key,
		func() { c.setTaskCompleted(id, next) },
		func() { c.setTaskCompleted(id, prev) },
	)
	r := c.remote
	return &Pending{
		attempt: a,
		timeout: c.timeout,
		what:    fmt.Sprintf("completed=%t", next),
		call: func(ctx context.Context) error {
			return r.SetTaskCompletion(ctx, id, next)
		},
	}, true
}

// BeginSetGoalProgress sets the goal's progress (clamped to 0..100) locally.
// ok is false when the id is unknown or the value would not change.
func (c *Controller) BeginSetGoalProgress(id int64, progress int) (*Pending, bool) {
	g := c.state.goal(id)
	if g == nil {
		return nil, false
	}
	prev := g.Progress
	next := model.ClampProgress(progress)
	if next == prev {
		return nil, false
	}
	key := Key{Kind: EntityGoal, ID: id}
	a := mutate.Begin(key,
		func() { c.setGoalProgress(id, next) },
		func() { c.setGoalProgress(id, prev) },
	)
	r := c.remote
	return &Pending{
		attempt: a,
		timeout: c.timeout,
		what:    fmt.Sprintf("progress=%d", next),
		call: func(ctx context.Context) error {
			return r.SetGoalProgress(ctx, id, next)
		},
	}, true
}

func (c *Controller) ToggleGoal(ctx context.Context, id int64) (mutate.State, error) {
	p, ok := c.BeginToggleGoal(id)
	return c.runPending(ctx, p, ok)
}

func (c *Controller) ToggleTask(ctx context.Context, id int64) (mutate.State, error) {
	p, ok := c.BeginToggleTask(id)
	return c.runPending(ctx, p, ok)
}

func (c *Controller) SetGoalProgress(ctx context.Context, id int64, progress int) (mutate.State, error) {
	p, ok := c.BeginSetGoalProgress(id, progress)
	if !ok {
		if _, found := c.state.FindGoal(id); found {
			// Unchanged value: nothing to send.
			return mutate.Confirmed, nil
		}
	}
	return c.runPending(ctx, p, ok)
}

// Rollback targets are looked up by id so a reload between apply and settle
// still restores the right row.
func (c *Controller) setGoalCompleted(id int64, v bool) {
	if g := c.state.goal(id); g != nil {
		g.Completed = v
	}
}

func (c *Controller) setGoalProgress(id int64, v int) {
	if g := c.state.goal(id); g != nil {
		g.Progress = v
	}
}

func (c *Controller) setTaskCompleted(id int64, v bool) {
	if t := c.state.task(id); t != nil {
		t.Completed = v
	}
}

// Load fetches both collections. Run does I/O only; apply the result with CompleteLoad.
type Load struct {
	remote  Remote
	timeout time.Duration

	goals    []model.Goal
	tasks    []model.Task
	goalsErr error
	tasksErr error
}

func (l *Load) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		l.goals, l.goalsErr = l.remote.FetchGoals(ctx)
		return l.goalsErr
	})
	g.Go(func() error {
		l.tasks, l.tasksErr = l.remote.FetchTasks(ctx)
		return l.tasksErr
	})
	_ = g.Wait()
	return errors.Join(l.goalsErr, l.tasksErr)
}

// BeginMount returns the initial load, or ok=false if the view was already mounted.
func (c *Controller) BeginMount() (*Load, bool) {
	if c.mounted {
		return nil, false
	}
	c.mounted = true
	return c.newLoad(), true
}

// BeginReload returns an explicit user-requested refresh of both collections.
func (c *Controller) BeginReload() *Load {
	return c.newLoad()
}

func (c *Controller) newLoad() *Load {
	return &Load{remote: c.remote, timeout: c.timeout}
}

// CompleteLoad applies whatever part of the load succeeded.
func (c *Controller) CompleteLoad(l *Load, err error) error {
	if l == nil {
		return err
	}
	if l.goalsErr == nil {
		c.state.Goals = nonNilGoals(l.goals)
	}
	if l.tasksErr == nil {
		c.state.Tasks = nonNilTasks(l.tasks)
	}
	if err != nil {
		c.log.Error("load failed", "error", err)
		c.state.SetNotice("Could not load dashboard: "+firstLine(err), true)
		return err
	}
	c.state.Loaded = true
	return nil
}

// Mount performs the initial load once; later calls are no-ops.
func (c *Controller) Mount(ctx context.Context) error {
	l, ok := c.BeginMount()
	if !ok {
		return nil
	}
	return c.CompleteLoad(l, l.Run(ctx))
}

func (c *Controller) Reload(ctx context.Context) error {
	l := c.BeginReload()
	return c.CompleteLoad(l, l.Run(ctx))
}

// Submission is an add-goal/add-task request followed by a re-fetch of the
// affected list. Run does I/O only; apply the result with CompleteSubmission.
type Submission struct {
	kind    EntityKind
	timeout time.Duration
	add     func(ctx context.Context) error
	fetch   func(ctx context.Context) error

	added bool
	goals []model.Goal
	tasks []model.Task
}

func (s *Submission) Kind() EntityKind { return s.kind }

func (s *Submission) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.add(ctx); err != nil {
		return err
	}
	s.added = true
	return s.fetch(ctx)
}

// BeginAddGoal validates the add-goal form. Validation failures set a notice,
// leave the form open and return a remote.ValidationError.
func (c *Controller) BeginAddGoal() (*Submission, error) {
	f := c.state.GoalForm
	title := strings.TrimSpace(f.Title)
	if title == "" {
		err := remote.ValidationError{Field: "title", Reason: "must not be empty"}
		c.state.SetNotice("Goal title is required", true)
		return nil, err
	}
	category := model.NormalizeCategory(f.Category)
	r := c.remote
	s := &Submission{kind: EntityGoal, timeout: c.timeout}
	s.add = func(ctx context.Context) error { return r.AddGoal(ctx, title, category) }
	s.fetch = func(ctx context.Context) error {
		goals, err := r.FetchGoals(ctx)
		if err != nil {
			return err
		}
		s.goals = goals
		return nil
	}
	return s, nil
}

// BeginAddTask validates the add-task form; see BeginAddGoal.
func (c *Controller) BeginAddTask() (*Submission, error) {
	f := c.state.TaskForm
	title := strings.TrimSpace(f.Title)
	if title == "" {
		err := remote.ValidationError{Field: "title", Reason: "must not be empty"}
		c.state.SetNotice("Task title is required", true)
		return nil, err
	}
	at := strings.TrimSpace(f.Time)
	if at == "" {
		at = model.DefaultTaskTime
	}
	if !model.ValidTime(at) {
		err := remote.ValidationError{Field: "time", Reason: "expected HH:MM"}
		c.state.SetNotice("Task time must be HH:MM", true)
		return nil, err
	}
	r := c.remote
	s := &Submission{kind: EntityTask, timeout: c.timeout}
	s.add = func(ctx context.Context) error { return r.AddTask(ctx, title, at) }
	s.fetch = func(ctx context.Context) error {
		tasks, err := r.FetchTasks(ctx)
		if err != nil {
			return err
		}
		s.tasks = tasks
		return nil
	}
	return s, nil
}

// CompleteSubmission applies the outcome of a submission. On success the
// re-fetched list replaces local state and the form closes. If the add
// itself failed the form stays open with the typed values.
func (c *Controller) CompleteSubmission(s *Submission, err error) error {
	if s == nil {
		return err
	}
	label := "Goal"
	if s.kind == EntityTask {
		label = "Task"
	}

	if err != nil && !s.added {
		c.log.Error("add failed", "entity", string(s.kind), "error", err)
		c.state.SetNotice(fmt.Sprintf("Could not add %s: %s", strings.ToLower(label), firstLine(err)), true)
		return err
	}

	switch s.kind {
	case EntityGoal:
		c.state.CloseGoalForm()
		if err == nil {
			c.state.Goals = nonNilGoals(s.goals)
		}
	case EntityTask:
		c.state.CloseTaskForm()
		if err == nil {
			c.state.Tasks = nonNilTasks(s.tasks)
		}
	}

	if err != nil {
		c.log.Error("refresh after add failed", "entity", string(s.kind), "error", err)
		c.state.SetNotice(fmt.Sprintf("%s added, but refresh failed: %s", label, firstLine(err)), true)
		return err
	}
	c.state.SetNotice(label+" added", false)
	return nil
}

func (c *Controller) SubmitGoal(ctx context.Context) error {
	s, err := c.BeginAddGoal()
	if err != nil {
		return err
	}
	return c.CompleteSubmission(s, s.Run(ctx))
}

func (c *Controller) SubmitTask(ctx context.Context) error {
	s, err := c.BeginAddTask()
	if err != nil {
		return err
	}
	return c.CompleteSubmission(s, s.Run(ctx))
}

func firstLine(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

func nonNilGoals(gs []model.Goal) []model.Goal {
	if gs == nil {
		return []model.Goal{}
	}
	return gs
}

func nonNilTasks(ts []model.Task) []model.Task {
	if ts == nil {
		return []model.Task{}
	}
	return ts
}
