package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	All      key.Binding
	Visible  key.Binding
	Patterns key.Binding
	Delete   key.Binding
	Rename   key.Binding
	Copy     key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		All:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Visible:  key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "check exactly the shown rows")),
		Patterns: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "select pattern")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Rename:   key.NewBinding(key.WithKeys("R", "m"), key.WithHelp("R/m", "rename")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy name")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Patterns, k.Delete, k.Rename, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.All, k.Patterns},
		{k.Visible, k.Delete, k.Rename, k.Copy},
		{k.Filter, k.Refresh, k.Help, k.Quit},
	}
}
