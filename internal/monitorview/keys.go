package monitorview

import "github.com/charmbracelet/bubbles/key"

// keyMap is the dev-viewer's keyboard bindings.
type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
