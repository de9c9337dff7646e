package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Options  [4]key.Binding
	Submit   key.Binding
	Previous key.Binding
	Restart  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Options: [4]key.Binding{
			key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1-4", "select")),
			key.NewBinding(key.WithKeys("2", "b")),
			key.NewBinding(key.WithKeys("3", "c")),
			key.NewBinding(key.WithKeys("4", "d")),
		},
		Submit:   key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "next")),
		Previous: key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "previous")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Options[0], k.Submit, k.Previous, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
