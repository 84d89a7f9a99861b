package ui

// Mode is the form's input mode. Keybinding hints are filtered by it.
type Mode int

const (
	// ModeNavigate routes keys to the keybind registry, then to the
	// focused control.
	ModeNavigate Mode = iota
	// ModeEntry routes every key to the focused stepper's text entry.
	ModeEntry
)

func (m Mode) String() string {
	switch m {
	case ModeNavigate:
		return "Navigate"
	case ModeEntry:
		return "Entry"
	default:
		return "Unknown"
	}
}
