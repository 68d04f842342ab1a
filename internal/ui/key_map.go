package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	tab     key.Binding
	addAll  key.Binding
	pause   key.Binding
	stop    key.Binding
	next    key.Binding
	prev    key.Binding
	clear   key.Binding
	volUp   key.Binding
	volDown key.Binding
	search  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "browser/playlist")),
		addAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "queue all")),
		pause:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "pause")),
		stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		next:    key.NewBinding(key.WithKeys(">", "n"), key.WithHelp(">/n", "next")),
		prev:    key.NewBinding(key.WithKeys("<", "b"), key.WithHelp("</b", "previous")),
		clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear playlist")),
		volUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.addAll, k.tab},
		{k.pause, k.stop, k.next, k.prev},
		{k.volUp, k.volDown, k.clear},
		{k.quit},
	}
}
