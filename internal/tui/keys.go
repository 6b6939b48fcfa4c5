package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Submit    key.Binding
	Example   key.Binding
	Back      key.Binding
	Start     key.Binding
	Prev      key.Binding
	Next      key.Binding
	PrevStage key.Binding
	NextStage key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Example:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "example topic")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Start:     key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start learning")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
		Next:      key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→", "next / complete")),
		PrevStage: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous stage")),
		NextStage: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next stage")),
	}
}
