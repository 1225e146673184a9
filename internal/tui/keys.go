package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send      key.Binding
	Listen    key.Binding
	Speak     key.Binding
	Translate key.Binding
	Copy      key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Listen:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "mic")),
		Speak:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "speak")),
		Translate: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "translate")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "copy")),
		Dismiss:   key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "dismiss")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		ScrollUp:  key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll")),
		ScrollDn:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
	}
}

// shortcuts returns the bindings shown in the status bar
func (k keyMap) shortcuts(speech, listen bool) []key.Binding {
	out := []key.Binding{k.Send, k.Translate}
	if speech {
		out = append(out, k.Speak)
	}
	if listen {
		out = append(out, k.Listen)
	}
	return append(out, k.Copy, k.ScrollUp, k.Quit)
}
