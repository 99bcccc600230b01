package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	login  key.Binding
	add    key.Binding
	toggle key.Binding
	delete key.Binding
	logout key.Binding
	reload key.Binding
	submit key.Binding
	cancel key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		login:  key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "sign in with GitHub")),
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		logout: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.add, k.delete, k.reload},
		{k.logout, k.quit},
	}
}
