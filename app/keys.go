package app

import "charm.land/bubbles/v2/key"

// KeyMap defines all global keybindings.
type KeyMap struct {
	Quit key.Binding

	// Navigation
	LineBack    key.Binding // k
	LineForward key.Binding // j
	PageBack    key.Binding
	PageForward key.Binding
	ScrollInit  key.Binding
	ScrollEnd   key.Binding
	Middle      key.Binding

	// List
	Repaint key.Binding
	Reload  key.Binding

	// Toggles
	ToggleMetrics key.Binding
	CycleTheme    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		LineBack: key.NewBinding(
			key.WithKeys("k", "up", "left", "h"),
			key.WithHelp("k", "back"),
		),
		LineForward: key.NewBinding(
			key.WithKeys("j", "down", "right", "l"),
			key.WithHelp("j", "forward"),
		),
		PageBack: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page back"),
		),
		PageForward: key.NewBinding(
			key.WithKeys("pgdown", "space", "f"),
			key.WithHelp("pgdn", "page forward"),
		),
		ScrollInit: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "first"),
		),
		ScrollEnd: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "last"),
		),
		Middle: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "middle item"),
		),
		Repaint: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "repaint"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		ToggleMetrics: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "metrics"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
	}
}

// ShortHelp lists the bindings shown in the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.LineForward, k.PageForward, k.ScrollInit, k.ScrollEnd, k.Middle, k.ToggleMetrics, k.CycleTheme, k.Quit}
}
