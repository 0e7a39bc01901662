package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"habitdash/internal/dash"
	"habitdash/internal/model"
)

// goalFormCategories are the categories a goal can be filed under from the form.
var goalFormCategories = []string{
	model.CategoryStudy,
	model.CategoryHealth,
	model.CategoryAppearance,
	model.CategoryGoals,
}

const (
	fieldTitle = iota
	fieldTime
)

// addForm is the input side of the add-goal/add-task modal. The controller's
// form buffers stay the source of truth; sync copies the inputs into them.
type addForm struct {
	kind     dash.EntityKind
	title    textinput.Model
	at       textinput.Model
	category int
	focus    int
}

func newTitleInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Width = 40
	in.Prompt = "› "
	return in
}

func newGoalForm(category string) addForm {
	f := addForm{kind: dash.EntityGoal, title: newTitleInput("Goal title")}
	for i, c := range goalFormCategories {
		if c == category {
			f.category = i
		}
	}
	if goalFormCategories[f.category] != category {
		f.category = len(goalFormCategories) - 1
	}
	return f
}

func newTaskForm() addForm {
	f := addForm{kind: dash.EntityTask, title: newTitleInput("Task title")}
	f.at = textinput.New()
	f.at.Placeholder = model.DefaultTaskTime
	f.at.CharLimit = 5
	f.at.Width = 6
	f.at.Prompt = "› "
	return f
}

func (f *addForm) focusCmd() tea.Cmd {
	if f.focus == fieldTime && f.kind == dash.EntityTask {
		f.title.Blur()
		return f.at.Focus()
	}
	f.at.Blur()
	return f.title.Focus()
}

func (f *addForm) cycleField(delta int) tea.Cmd {
	if f.kind != dash.EntityTask {
		return nil
	}
	f.focus = (f.focus + delta + 2) % 2
	return f.focusCmd()
}

func (f *addForm) cycleCategory(delta int) {
	n := len(goalFormCategories)
	f.category = (f.category + delta + n) % n
}

func (f addForm) categoryID() string {
	return goalFormCategories[f.category]
}

func (f *addForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.kind == dash.EntityTask && f.focus == fieldTime {
		f.at, cmd = f.at.Update(msg)
		return cmd
	}
	f.title, cmd = f.title.Update(msg)
	return cmd
}

// sync copies the typed values into the controller's form buffer.
func (f addForm) sync(st *dash.State) {
	switch f.kind {
	case dash.EntityGoal:
		st.GoalForm.Title = f.title.Value()
		st.GoalForm.Category = f.categoryID()
	case dash.EntityTask:
		st.TaskForm.Title = f.title.Value()
		st.TaskForm.Time = f.at.Value()
	}
}
