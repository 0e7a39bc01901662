package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"habitdash/internal/dash"
	"habitdash/internal/model"
)

const progressStep = 10

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadDoneMsg:
		m.loading = false
		_ = m.ctrl.CompleteLoad(msg.load, msg.err)
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		m.ctrl.Settle(msg.pending, msg.err)
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		_ = m.ctrl.CompleteSubmission(msg.sub, msg.err)
		st := m.ctrl.State()
		if (m.modal == modalAddGoal && !st.GoalForm.Open) || (m.modal == modalAddTask && !st.TaskForm.Open) {
			m.modal = modalNone
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.modal {
		case modalHelp:
			return m.updateHelp(msg)
		case modalAddGoal, modalAddTask:
			return m.updateForm(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()

	if n, err := strconv.Atoi(msg.String()); err == nil {
		tabs := dash.Tabs()
		if n >= 1 && n <= len(tabs) {
			m.switchTab(tabs[n-1])
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(shiftTab(st.Tab, 1))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(shiftTab(st.Tab, -1))
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.ProgressUp):
		return m.nudgeProgress(progressStep)
	case key.Matches(msg, m.keys.ProgressDown):
		return m.nudgeProgress(-progressStep)
	case key.Matches(msg, m.keys.Add):
		return m.openForm()
	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		st.ClearNotice()
		m.loading = true
		return m, runLoad(m.ctrl.BeginReload())
	}
	return m, nil
}

func shiftTab(cur string, delta int) string {
	tabs := dash.Tabs()
	idx := 0
	for i, t := range tabs {
		if t == cur {
			idx = i
		}
	}
	return tabs[(idx+delta+len(tabs))%len(tabs)]
}

func (m *appModel) switchTab(tab string) {
	if m.ctrl.State().SetTab(tab) {
		m.cursor = 0
	}
}

func (m appModel) toggleSelected() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	var p *dash.Pending
	switch r.kind {
	case dash.EntityGoal:
		p, ok = m.ctrl.BeginToggleGoal(r.id)
	case dash.EntityTask:
		p, ok = m.ctrl.BeginToggleTask(r.id)
	}
	if !ok {
		return m, nil
	}
	m.inflight++
	return m, runMutation(p)
}

func (m appModel) nudgeProgress(delta int) (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok || r.kind != dash.EntityGoal {
		return m, nil
	}
	g, ok := m.ctrl.State().FindGoal(r.id)
	if !ok {
		return m, nil
	}
	p, ok := m.ctrl.BeginSetGoalProgress(r.id, g.Progress+delta)
	if !ok {
		return m, nil
	}
	m.inflight++
	return m, runMutation(p)
}

func (m appModel) openForm() (tea.Model, tea.Cmd) {
	st := m.ctrl.State()
	st.ClearNotice()
	if st.Tab == model.CategoryPlanner {
		st.OpenTaskForm()
		m.form = newTaskForm()
		m.form.title.SetValue(st.TaskForm.Title)
		m.form.at.SetValue(st.TaskForm.Time)
		m.modal = modalAddTask
	} else {
		st.OpenGoalForm()
		m.form = newGoalForm(st.GoalForm.Category)
		m.form.title.SetValue(st.GoalForm.Title)
		m.modal = modalAddGoal
	}
	cmd := m.form.focusCmd()
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.modal == modalAddGoal {
			st.CloseGoalForm()
		} else {
			st.CloseTaskForm()
		}
		st.ClearNotice()
		m.modal = modalNone
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		if m.submitting {
			return m, nil
		}
		m.form.sync(st)
		var (
			sub *dash.Submission
			err error
		)
		if m.modal == modalAddGoal {
			sub, err = m.ctrl.BeginAddGoal()
		} else {
			sub, err = m.ctrl.BeginAddTask()
		}
		if err != nil {
			return m, nil
		}
		m.submitting = true
		return m, runSubmission(sub)
	case key.Matches(msg, m.keys.NextCategory) && m.modal == modalAddGoal:
		m.form.cycleCategory(1)
		m.form.sync(st)
		return m, nil
	case key.Matches(msg, m.keys.PrevCategory) && m.modal == modalAddGoal:
		m.form.cycleCategory(-1)
		m.form.sync(st)
		return m, nil
	case key.Matches(msg, m.keys.NextField) && m.modal == modalAddTask:
		cmd := m.form.cycleField(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField) && m.modal == modalAddTask:
		cmd := m.form.cycleField(-1)
		return m, cmd
	}

	cmd := m.form.update(msg)
	m.form.sync(st)
	return m, cmd
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Help), msg.String() == "q":
		m.modal = modalNone
	}
	return m, nil
}
