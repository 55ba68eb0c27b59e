package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	More   key.Binding
	Less   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Missed key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Left:   key.NewBinding(key.WithKeys("left", "h")),
	Right:  key.NewBinding(key.WithKeys("right", "l")),
	More:   key.NewBinding(key.WithKeys("pgup")),
	Less:   key.NewBinding(key.WithKeys("pgdown")),
	Enter:  key.NewBinding(key.WithKeys("enter", " ")),
	Back:   key.NewBinding(key.WithKeys("esc")),
	Missed: key.NewBinding(key.WithKeys("m")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q")),
}
