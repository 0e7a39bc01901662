package tui

import (
	"context"
	"math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"

	"habitdash/internal/dash"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddGoal
	modalAddTask
	modalHelp
)

var quotes = []string{
	"DISCIPLINE. Small steps every day.",
	"FOCUS. Only action leads to results.",
	"YOU VS YOU. Compete only with who you were yesterday.",
	"OBSESSION BEATS TALENT.",
}

// Messages carrying remote outcomes back to Update.
type (
	loadDoneMsg struct {
		load *dash.Load
		err  error
	}
	mutationDoneMsg struct {
		pending *dash.Pending
		err     error
	}
	submitDoneMsg struct {
		sub *dash.Submission
		err error
	}
)

type row struct {
	kind dash.EntityKind
	id   int64
}

type appModel struct {
	ctrl *dash.Controller
	keys keyMap

	width  int
	height int
	darkBG bool

	quote  string
	cursor int

	modal      modalKind
	form       addForm
	submitting bool

	loading  bool
	inflight int
}

func newAppModel(ctrl *dash.Controller, tab string) appModel {
	if tab != "" {
		ctrl.State().SetTab(tab)
	}
	return appModel{
		ctrl:   ctrl,
		keys:   defaultKeyMap(),
		width:  80,
		height: 24,
		darkBG: true,
		quote:  quotes[rand.IntN(len(quotes))],
	}
}

func (m appModel) Init() tea.Cmd {
	l, ok := m.ctrl.BeginMount()
	if !ok {
		return nil
	}
	return runLoad(l)
}

func runLoad(l *dash.Load) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{load: l, err: l.Run(context.Background())}
	}
}

func runMutation(p *dash.Pending) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{pending: p, err: p.Call(context.Background())}
	}
}

func runSubmission(s *dash.Submission) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{sub: s, err: s.Run(context.Background())}
	}
}

// rows lists the selectable entries of the active tab, goals first.
func (m appModel) rows() []row {
	st := m.ctrl.State()
	var out []row
	for _, g := range st.VisibleGoals() {
		out = append(out, row{kind: dash.EntityGoal, id: g.ID})
	}
	for _, t := range st.VisibleTasks() {
		out = append(out, row{kind: dash.EntityTask, id: t.ID})
	}
	return out
}

func (m appModel) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *appModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
