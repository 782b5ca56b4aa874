package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the views react to
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Enter  key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Filter key.Binding

	ShowCompleted key.Binding
	ShowArchived  key.Binding
	Status        key.Binding
	Archive       key.Binding
	Duplicate     key.Binding
	Timer         key.Binding
	Tags          key.Binding
	Note          key.Binding
	Subtask       key.Binding

	Grocery key.Binding
	Stats   key.Binding
	Theme   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "done"),
		),
		ShowArchived: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "archived"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "duplicate"),
		),
		Timer: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "timer"),
		),
		Tags: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tags"),
		),
		Note: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "note"),
		),
		Subtask: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "subtask"),
		),
		Grocery: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "groceries"),
		),
		Stats: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stats"),
		),
		Theme: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "theme"),
		),
	}
}
