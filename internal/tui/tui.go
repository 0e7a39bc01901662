package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"habitdash/internal/dash"
)

// Run starts the interactive dashboard on tab (empty means overview) and
// blocks until the user quits.
func Run(ctrl *dash.Controller, tab string) error {
	applyColorProfilePreference()
	dark := applyThemePreference()

	m := newAppModel(ctrl, tab)
	m.darkBG = dark
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
