package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	home     key.Binding
	profile  key.Binding
	feed     key.Binding
	rate     key.Binding
	remove   key.Binding
	like     key.Binding
	wishlist key.Binding
	follow   key.Binding
	users    key.Binding
	logout   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		home:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		feed:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "community")),
		rate:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rate")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove rating")),
		like:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		wishlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wishlist")),
		follow:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		users:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "find readers")),
		logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
