package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap lists the always-available form keys for the bottom help bar.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Step   key.Binding
	Page   key.Binding
	Enter  key.Binding
	Thumb  key.Binding
	Leader key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the form's navigation keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev")),
		Step:   key.NewBinding(key.WithKeys("up", "down", "left", "right", "k", "j", "h", "l"), key.WithHelp("↑↓←→", "step")),
		Page:   key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "step ×10")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/commit")),
		Thumb:  key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "thumb")),
		Leader: key.NewBinding(key.WithKeys(" "), key.WithHelp("SPC", "menu")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Step, k.Page, k.Enter, k.Thumb, k.Leader, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Step, k.Page, k.Thumb}, {k.Enter, k.Leader, k.Quit}}
}

func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted
	return h
}

// RenderKeybindHelp produces the transient help box shown after SPC, with
// the hints reachable from the sequence typed so far.
func RenderKeybindHelp(keyHandler *KeyHandler, mode Mode) string {
	if keyHandler == nil {
		return ""
	}
	currentSeq := keyHandler.CurrentSeq()
	hints := keyHandler.Registry.LeaderHints(currentSeq, mode)
	if len(hints) == 0 {
		return ""
	}

	bindings := Bindings(hints)
	bindings = append(bindings, key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	))
	helpModel := newHelpModel()

	prefix := "SPC"
	if currentSeq != "" {
		prefix = currentSeq
	}
	content := Styles.Muted.Render(prefix) + " " + helpModel.ShortHelpView(bindings)
	return Styles.HelpBox.Render(content)
}
