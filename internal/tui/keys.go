package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the dashboard key bindings.
type KeyMap struct {
	NextFacet key.Binding
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Clear     key.Binding
	SelectAll key.Binding
	ClearAll  key.Binding
	Mode      key.Binding
	PrevYear  key.Binding
	NextYear  key.Binding
	Focus     key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextFacet: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "facet")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear facet")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		ClearAll:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		PrevYear:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev year")),
		NextYear:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next year")),
		Focus:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus year")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFacet, k.Toggle, k.Focus, k.Mode, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextFacet, k.Up, k.Down, k.Toggle},
		{k.Clear, k.SelectAll, k.ClearAll, k.Search},
		{k.PrevYear, k.NextYear, k.Focus, k.Mode},
		{k.Help, k.Quit},
	}
}
