package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the task list view. Bindings other
// than Quit, ForceQuit and ToggleTheme only apply while no input has
// focus.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Inputs.
	Search key.Binding
	Add    key.Binding
	Submit key.Binding // Enter inside an input.
	Cancel key.Binding // Leave the focused input.

	// Row actions.
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Filter tabs.
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	FilterNext      key.Binding

	ToggleStats key.Binding
	ToggleTheme key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Add: key.NewBinding(
		key.WithKeys("a", "n"),
		key.WithHelp("a", "add"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	FilterAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	FilterActive: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "active"),
	),
	FilterCompleted: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "completed"),
	),
	FilterNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next filter"),
	),
	ToggleStats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	ToggleTheme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("C-t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Search, k.Toggle, k.Edit, k.Delete, k.FilterNext, k.ToggleTheme, k.Help, k.Quit}
}

// FullHelp returns the bindings shown on the help screen, grouped in
// columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Add},
		{k.Toggle, k.Edit, k.Delete, k.Submit, k.Cancel},
		{k.FilterAll, k.FilterActive, k.FilterCompleted, k.FilterNext},
		{k.ToggleStats, k.ToggleTheme, k.Help, k.Quit},
	}
}

// inputHelp returns the bindings that work while an input has focus.
func (k KeyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.ToggleTheme, k.ForceQuit}
}
