package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	ProgressUp   key.Binding
	ProgressDown key.Binding
	Add          key.Binding
	Reload       key.Binding

	// Form keys.
	Cancel       key.Binding
	Submit       key.Binding
	NextField    key.Binding
	PrevField    key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:      key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space", "toggle")),
		ProgressUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "progress +10")),
		ProgressDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "progress -10")),
		Add:          key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		NextField:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		NextCategory: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prev category")),
	}
}

// mainHints is the footer shown under the dashboard.
func (k keyMap) mainHints() []key.Binding {
	return []key.Binding{k.Toggle, k.ProgressUp, k.ProgressDown, k.Add, k.Reload, k.NextTab, k.Help, k.Quit}
}

func (k keyMap) formHints(goal bool) []key.Binding {
	if goal {
		return []key.Binding{k.Submit, k.NextCategory, k.Cancel}
	}
	return []key.Binding{k.Submit, k.NextField, k.Cancel}
}
