package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"habitdash/internal/dash"
	"habitdash/internal/model"
)

type stubRemote struct {
	mu      sync.Mutex
	goals   []model.Goal
	tasks   []model.Task
	failPut error
	failAdd error
	nextID  int64
}

func (r *stubRemote) FetchGoals(context.Context) ([]model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Goal{}, r.goals...), nil
}

func (r *stubRemote) FetchTasks(context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Task{}, r.tasks...), nil
}

func (r *stubRemote) SetGoalCompletion(_ context.Context, id int64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPut != nil {
		return r.failPut
	}
	for i := range r.goals {
		if r.goals[i].ID == id {
			r.goals[i].Completed = completed
		}
	}
	return nil
}

func (r *stubRemote) SetTaskCompletion(_ context.Context, id int64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPut != nil {
		return r.failPut
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Completed = completed
		}
	}
	return nil
}

func (r *stubRemote) SetGoalProgress(_ context.Context, id int64, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPut != nil {
		return r.failPut
	}
	for i := range r.goals {
		if r.goals[i].ID == id {
			r.goals[i].Progress = progress
		}
	}
	return nil
}

func (r *stubRemote) AddGoal(_ context.Context, title, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return r.failAdd
	}
	r.nextID++
	r.goals = append(r.goals, model.Goal{ID: r.nextID, Title: title, Category: category})
	return nil
}

func (r *stubRemote) AddTask(_ context.Context, title, at string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return r.failAdd
	}
	r.nextID++
	r.tasks = append(r.tasks, model.Task{ID: r.nextID, Title: title, Time: at})
	return nil
}

func seededRemote() *stubRemote {
	return &stubRemote{
		goals: []model.Goal{
			{ID: 1, Title: "Read 2 books a month", Category: "study", Progress: 65},
			{ID: 2, Title: "Train 4 times a week", Category: "health", Progress: 80},
			{ID: 3, Title: "Skin care", Category: "appearance", Progress: 45},
			{ID: 4, Title: "Meditate 15 minutes", Category: "health", Progress: 30},
		},
		tasks: []model.Task{
			{ID: 10, Title: "Morning workout", Time: "07:00"},
			{ID: 11, Title: "Team standup", Time: "10:00"},
		},
		nextID: 100,
	}
}

// mounted returns a model whose initial load already ran.
func mounted(t *testing.T, r *stubRemote, tab string) appModel {
	t.Helper()
	ctrl := dash.NewController(r, nil, time.Second)
	m := newAppModel(ctrl, tab)
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected mount command")
	}
	return step(t, m, cmd())
}

func step(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(appModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out
}

// press sends a key and returns the model plus the command it produced.
func press(t *testing.T, m appModel, k tea.KeyMsg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(appModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

func TestInit_MountsOnce(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "")
	st := m.ctrl.State()
	if !st.Loaded || len(st.Goals) != 4 || len(st.Tasks) != 2 {
		t.Fatalf("expected loaded state, got %+v", st)
	}
	if m.Init() != nil {
		t.Fatalf("second Init must not fetch again")
	}
	if st.OverallProgress() != 55 {
		t.Fatalf("expected overall 55, got %d", st.OverallProgress())
	}
}

func TestTabs_NumberAndCycle(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "")
	m, _ = press(t, m, runes("3"))
	if m.ctrl.State().Tab != model.CategoryHealth {
		t.Fatalf("expected health tab, got %q", m.ctrl.State().Tab)
	}
	if got := len(m.rows()); got != 2 {
		t.Fatalf("expected 2 health goals, got %d", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.ctrl.State().Tab != model.CategoryAppearance {
		t.Fatalf("expected appearance after tab, got %q", m.ctrl.State().Tab)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.ctrl.State().Tab != dash.TabOverview {
		t.Fatalf("expected overview, got %q", m.ctrl.State().Tab)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.ctrl.State().Tab != model.CategoryPlanner {
		t.Fatalf("shift+tab should wrap to planner, got %q", m.ctrl.State().Tab)
	}
}

func TestNewAppModel_StartTab(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "planner")
	if m.ctrl.State().Tab != model.CategoryPlanner {
		t.Fatalf("expected planner start tab")
	}
	rows := m.rows()
	if len(rows) != 2 || rows[0].kind != dash.EntityTask {
		t.Fatalf("planner shows tasks only, got %+v", rows)
	}
}

func TestToggle_OptimisticThenConfirmed(t *testing.T) {
	t.Parallel()

	r := seededRemote()
	m := mounted(t, r, "")

	m, cmd := press(t, m, runes(" "))
	if cmd == nil {
		t.Fatalf("expected remote command")
	}
	if g, _ := m.ctrl.State().FindGoal(1); !g.Completed {
		t.Fatalf("toggle must apply before the remote call returns")
	}
	if m.inflight != 1 {
		t.Fatalf("expected one in-flight mutation")
	}

	m = step(t, m, cmd())
	if g, _ := m.ctrl.State().FindGoal(1); !g.Completed {
		t.Fatalf("confirmed toggle must stick")
	}
	if m.inflight != 0 {
		t.Fatalf("in-flight counter not settled")
	}
}

func TestToggle_TaskFailureRollsBack(t *testing.T) {
	t.Parallel()

	r := seededRemote()
	r.failPut = errors.New("boom")
	m := mounted(t, r, "")

	// Overview lists 4 goals then tasks; move onto the first task.
	for i := 0; i < 4; i++ {
		m, _ = press(t, m, runes("j"))
	}
	m, cmd := press(t, m, runes("x"))
	if tk, _ := m.ctrl.State().FindTask(10); !tk.Completed {
		t.Fatalf("expected optimistic completion")
	}
	m = step(t, m, cmd())
	if tk, _ := m.ctrl.State().FindTask(10); tk.Completed {
		t.Fatalf("failed toggle must roll back")
	}
	if m.ctrl.State().Notice != "" {
		t.Fatalf("toggle rollback is silent, got notice %q", m.ctrl.State().Notice)
	}
}

func TestProgressKeys(t *testing.T) {
	t.Parallel()

	r := seededRemote()
	m := mounted(t, r, "")

	m, cmd := press(t, m, runes("+"))
	if g, _ := m.ctrl.State().FindGoal(1); g.Progress != 75 {
		t.Fatalf("expected 75, got %d", g.Progress)
	}
	m = step(t, m, cmd())
	if r.goals[0].Progress != 75 {
		t.Fatalf("remote not updated: %d", r.goals[0].Progress)
	}

	m, cmd = press(t, m, runes("-"))
	m = step(t, m, cmd())
	if g, _ := m.ctrl.State().FindGoal(1); g.Progress != 65 {
		t.Fatalf("expected 65, got %d", g.Progress)
	}
}

func TestAddGoal_ValidationKeepsFormOpen(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "study")
	m, _ = press(t, m, runes("a"))
	if m.modal != modalAddGoal || !m.ctrl.State().GoalForm.Open {
		t.Fatalf("expected goal form open")
	}
	if m.ctrl.State().GoalForm.Category != model.CategoryStudy {
		t.Fatalf("form should default to the tab's category")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("empty title must not reach the network")
	}
	if m.modal != modalAddGoal || m.ctrl.State().Notice == "" {
		t.Fatalf("expected form open with a notice")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != modalNone || m.ctrl.State().GoalForm.Open {
		t.Fatalf("esc should close the form")
	}
}

func TestAddGoal_SubmitRefetches(t *testing.T) {
	t.Parallel()

	r := seededRemote()
	m := mounted(t, r, "")
	m, _ = press(t, m, runes("a"))
	m = typeText(t, m, "Learn Go")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.ctrl.State().GoalForm.Title != "Learn Go" {
		t.Fatalf("typed title not synced: %q", m.ctrl.State().GoalForm.Title)
	}
	if m.ctrl.State().GoalForm.Category != model.CategoryStudy {
		t.Fatalf("ctrl+n should wrap from goals to study, got %q", m.ctrl.State().GoalForm.Category)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.submitting {
		t.Fatalf("expected submission command")
	}
	m = step(t, m, cmd())
	st := m.ctrl.State()
	if m.modal != modalNone || st.GoalForm.Open {
		t.Fatalf("form should close after success")
	}
	if len(st.Goals) != 5 || st.Goals[4].ID != 101 || st.Goals[4].Category != model.CategoryStudy {
		t.Fatalf("expected refetched goals with server id, got %+v", st.Goals)
	}
}

func TestAddTask_ServerFailureKeepsTypedValues(t *testing.T) {
	t.Parallel()

	r := seededRemote()
	r.failAdd = errors.New("500")
	m := mounted(t, r, "planner")

	m, _ = press(t, m, runes("n"))
	if m.modal != modalAddTask {
		t.Fatalf("planner add opens the task form")
	}
	m = typeText(t, m, "Call client")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "09:30")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, cmd())
	st := m.ctrl.State()
	if m.modal != modalAddTask || !st.TaskForm.Open {
		t.Fatalf("failed submission keeps the form open")
	}
	if st.TaskForm.Title != "Call client" || st.TaskForm.Time != "09:30" {
		t.Fatalf("typed values lost: %+v", st.TaskForm)
	}
	if !st.NoticeError || !strings.Contains(st.Notice, "Could not add task") {
		t.Fatalf("expected error notice, got %q", st.Notice)
	}

	r.mu.Lock()
	r.failAdd = nil
	r.mu.Unlock()
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, cmd())
	if m.modal != modalNone || len(m.ctrl.State().Tasks) != 3 {
		t.Fatalf("retry should succeed and close the form")
	}
}

func TestAddTask_InvalidTime(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "planner")
	m, _ = press(t, m, runes("a"))
	m = typeText(t, m, "Lunch")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "9:3")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("invalid time must not reach the network")
	}
	if !strings.Contains(m.ctrl.State().Notice, "HH:MM") {
		t.Fatalf("expected time notice, got %q", m.ctrl.State().Notice)
	}
}

func TestReloadAndQuit(t *testing.T) {
	t.Parallel()

	r := seededRemote()
	m := mounted(t, r, "")
	r.mu.Lock()
	r.goals = r.goals[:1]
	r.mu.Unlock()

	m, cmd := press(t, m, runes("r"))
	if cmd == nil || !m.loading {
		t.Fatalf("expected reload command")
	}
	m = step(t, m, cmd())
	if len(m.ctrl.State().Goals) != 1 || m.loading {
		t.Fatalf("reload not applied")
	}

	_, cmd = press(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestHelpOverlay(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "")
	m, _ = press(t, m, runes("?"))
	if m.modal != modalHelp {
		t.Fatalf("expected help modal")
	}
	if !strings.Contains(m.View(), "Keys") {
		t.Fatalf("help should render the keys doc")
	}
	// Keys other than close are swallowed.
	m, cmd := press(t, m, runes("a"))
	if cmd != nil || m.modal != modalHelp {
		t.Fatalf("help should swallow keys")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != modalNone {
		t.Fatalf("esc closes help")
	}
}

func TestView_RendersDashboard(t *testing.T) {
	t.Parallel()

	m := mounted(t, seededRemote(), "")
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	out := m.View()
	for _, want := range []string{"HABITDASH", "Overview", "Read 2 books a month", "Team standup", "55%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	m, _ = press(t, m, runes("5"))
	out = m.View()
	if !strings.Contains(out, "Track your growth") || !strings.Contains(out, "Looks") {
		t.Fatalf("progress tab should show tagline and categories:\n%s", out)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	bar := progressBar(50, 10, "#3b82f6")
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Fatalf("unexpected bar %q", bar)
	}
	if strings.Count(progressBar(150, 10, "#000000"), "█") != 10 {
		t.Fatalf("bar should clamp at 100%%")
	}
}
