package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the Normal-mode bindings. Edit mode reads raw keys instead,
// so none of these fire while text is being typed.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	FocusNext key.Binding
	FocusPrev key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Previous   key.Binding
	Next       key.Binding
	ScrollDown key.Binding
	ScrollUp   key.Binding

	Command  key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Consumer key.Binding
	Producer key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Toggle help"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next pane"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "First entry"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "Last entry"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Previous message"),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Next message"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Scroll message down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Scroll message up"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Seek (offset!N, ts!MS)"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter pane"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh metadata"),
		),
		Consumer: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Consumer mode"),
		),
		Producer: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Producer mode"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusNext, k.Previous, k.Next, k.Command, k.Filter, k.Help, k.Quit}
}

// FullHelp returns the bindings listed by the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Previous, k.Next, k.ScrollDown, k.ScrollUp, k.Command},
		{k.Filter, k.Refresh, k.Consumer, k.Producer, k.Help, k.Quit},
	}
}
