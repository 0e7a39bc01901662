package dash

import (
	"strings"

	"habitdash/internal/model"
)

// TabOverview is the implicit default tab shown before any category is picked.
const TabOverview = "overview"

// Tabs returns the overview tab followed by the category tabs, in display order.
func Tabs() []string {
	out := []string{TabOverview}
	for _, c := range model.Categories() {
		out = append(out, c.ID)
	}
	return out
}

func ValidTab(tab string) bool {
	tab = strings.TrimSpace(tab)
	return tab == TabOverview || model.ValidCategory(tab)
}

type GoalForm struct {
	Open     bool
	Title    string
	Category string
}

type TaskForm struct {
	Open  bool
	Title string
	Time  string
}

// State is the dashboard's view state. It is owned by a Controller and must
// only be mutated from the interaction goroutine.
type State struct {
	Tab   string
	Goals []model.Goal
	Tasks []model.Task

	GoalForm GoalForm
	TaskForm TaskForm

	// Notice is the user-visible notification line (empty when nothing to say).
	Notice      string
	NoticeError bool

	Loaded bool
}

func NewState() *State {
	return &State{
		Tab:   TabOverview,
		Goals: []model.Goal{},
		Tasks: []model.Task{},
	}
}

// SetTab switches the active tab. Unknown tabs are ignored.
func (s *State) SetTab(tab string) bool {
	tab = strings.TrimSpace(tab)
	if !ValidTab(tab) {
		return false
	}
	s.Tab = tab
	return true
}

func (s *State) OverallProgress() int {
	return model.OverallProgress(s.Goals)
}

// VisibleGoals returns the goals shown on the active tab.
func (s *State) VisibleGoals() []model.Goal {
	switch s.Tab {
	case model.CategoryStudy, model.CategoryHealth, model.CategoryAppearance:
		return model.GoalsInCategory(s.Goals, s.Tab)
	case model.CategoryPlanner:
		return nil
	default:
		return s.Goals
	}
}

// VisibleTasks returns the tasks shown on the active tab.
func (s *State) VisibleTasks() []model.Task {
	switch s.Tab {
	case TabOverview, model.CategoryPlanner:
		return s.Tasks
	default:
		return nil
	}
}

func (s *State) goal(id int64) *model.Goal {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return &s.Goals[i]
		}
	}
	return nil
}

func (s *State) task(id int64) *model.Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

func (s *State) FindGoal(id int64) (model.Goal, bool) {
	if g := s.goal(id); g != nil {
		return *g, true
	}
	return model.Goal{}, false
}

func (s *State) FindTask(id int64) (model.Task, bool) {
	if t := s.task(id); t != nil {
		return *t, true
	}
	return model.Task{}, false
}

func (s *State) OpenGoalForm() {
	if !s.GoalForm.Open {
		s.GoalForm = GoalForm{Open: true, Category: defaultFormCategory(s.Tab)}
	}
}

func (s *State) CloseGoalForm() {
	s.GoalForm = GoalForm{}
}

func (s *State) OpenTaskForm() {
	if !s.TaskForm.Open {
		s.TaskForm = TaskForm{Open: true}
	}
}

func (s *State) CloseTaskForm() {
	s.TaskForm = TaskForm{}
}

func (s *State) SetNotice(msg string, isErr bool) {
	s.Notice = strings.TrimSpace(msg)
	s.NoticeError = isErr && s.Notice != ""
}

func (s *State) ClearNotice() {
	s.Notice = ""
	s.NoticeError = false
}

// defaultFormCategory pre-selects the category of the tab the user is on.
func defaultFormCategory(tab string) string {
	switch tab {
	case model.CategoryStudy, model.CategoryHealth, model.CategoryAppearance:
		return tab
	default:
		return model.DefaultCategory
	}
}
