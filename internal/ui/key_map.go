package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle     key.Binding
	volumeUp   key.Binding
	volumeDown key.Binding
	favorite   key.Binding
	enqueue    key.Binding
	next       key.Binding
	previous   key.Binding
	open       key.Binding
	focus      key.Binding
	enter      key.Binding
	back       key.Binding
	help       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		volumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		volumeDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "vol down")),
		favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		enqueue:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "queue")),
		next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.previous, k.open, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.volumeUp, k.volumeDown},
		{k.favorite, k.enqueue, k.next, k.previous},
		{k.open, k.focus, k.enter},
		{k.help, k.quit},
	}
}
