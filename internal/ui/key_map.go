package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding

	present   key.Binding
	absent    key.Binding
	late      key.Binding
	partic    key.Binding
	delivered key.Binding
	grade     key.Binding
	notes     key.Binding
	confirm   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		present:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "present")),
		absent:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "absent")),
		late:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "late")),
		partic:    key.NewBinding(key.WithKeys("h", "m", "l", "x"), key.WithHelp("h/m/l/x", "participation")),
		delivered: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "delivered")),
		grade:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grade")),
		notes:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "notes")),
		confirm:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "commit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.present, k.absent, k.late, k.partic},
		{k.delivered, k.grade, k.notes},
		{k.back, k.confirm, k.quit},
	}
}
