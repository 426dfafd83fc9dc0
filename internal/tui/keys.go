package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the editor key bindings.
type keyMap struct {
	NextLanguage key.Binding
	PrevLanguage key.Binding
	Run          key.Binding
	Clear        key.Binding
	Theme        key.Binding
	Preview      key.Binding
	Dismiss      key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextLanguage: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next language")),
		PrevLanguage: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev language")),
		Run:          key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run")),
		Clear:        key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear output")),
		Theme:        key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Preview:      key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		Dismiss:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss notice")),
		Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.NextLanguage, k.Clear, k.Theme, k.Preview, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Clear},
		{k.NextLanguage, k.PrevLanguage},
		{k.Theme, k.Preview, k.Dismiss, k.Quit},
	}
}
