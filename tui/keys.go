package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Pane   key.Binding
	Select key.Binding
	Pin    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Prev:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "previous option")),
		Next:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next option")),
		Pane:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show on map")),
		Pin:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "open marker")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pane, k.Select, k.Pin, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Pin},
		{k.Pane, k.Prev, k.Next},
		{k.Help, k.Quit},
	}
}
