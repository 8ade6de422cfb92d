package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Open    key.Binding
	Filter  key.Binding
	Refresh key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "actions")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// helpLine renders the footer hints for the current tab.
func (a *App) helpLine() string {
	var bindings []key.Binding
	switch a.state {
	case viewBooks, viewReaders:
		bindings = []key.Binding{a.keys.Up, a.keys.Down, a.keys.Open, a.keys.Add, a.keys.Filter, a.keys.Refresh, a.keys.NextTab, a.keys.Quit}
	default:
		bindings = []key.Binding{a.keys.NextTab, a.keys.Refresh, a.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}
