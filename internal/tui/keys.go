package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all board key bindings with built-in help text.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Pause     key.Binding
	Tiles     key.Binding
	Back      key.Binding
	PrevGroup key.Binding
	NextGroup key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause/resume"),
		),
		Tiles: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tile inspector"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "t", "q"),
			key.WithHelp("esc", "back to board"),
		),
		PrevGroup: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←", "previous digit"),
		),
		NextGroup: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→", "next digit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Pause, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Tiles},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// inspectorHelp is the help view of the tile inspector page.
type inspectorHelp KeyMap

func (k inspectorHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevGroup, k.NextGroup, k.Back, k.ForceQuit}
}

func (k inspectorHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
