package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Indent   key.Binding
	Outdent  key.Binding
	Grab     key.Binding
	Release  key.Binding
	Collapse key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Indent:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "indent")),
		Outdent:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/shift+tab", "outdent")),
		Grab:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		Release:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "drop")),
		Collapse: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fold")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Grab, k.Indent, k.Outdent, k.Collapse, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Release}}
}
