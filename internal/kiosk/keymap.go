// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kiosk

import "github.com/charmbracelet/bubbles/key"

// keymap binds terminal keys to player input.
type keymap struct {
	next, prev, quit key.Binding
}

func newKeymap() keymap {
	return keymap{
		next: key.NewBinding(
			key.WithKeys("right", " ", "l"),
			key.WithHelp("→/space", "next page"),
		),
		prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous page"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
