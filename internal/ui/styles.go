package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - titles, tracks
	ColorHighlight = "205" // Magenta - focus, thumbs
	ColorDanger    = "196" // Red - errors
	ColorMuted     = "241" // Gray - hints, disabled
	ColorText      = "252" // Light gray - normal text
	ColorDim       = "243" // Darker gray - read-only thumbs
	ColorReadOnly  = "236" // Background for read-only fields
	ColorWarning   = "208" // Orange - notifications
)

// Styles contains the shared style definitions of the form.
var Styles = struct {
	Title   lipgloss.Style // Form title
	Label   lipgloss.Style // Widget labels
	Box     lipgloss.Style // Widget frame
	HelpBox lipgloss.Style // Leader hint box

	Field         lipgloss.Style // Editable stepper value
	Focused       lipgloss.Style // Focused stepper or scale
	ReadOnly      lipgloss.Style // Stepper value that refuses edits
	Disabled      lipgloss.Style // Controls of a disabled widget
	Track         lipgloss.Style // Slider track
	Thumb         lipgloss.Style // Editable slider thumb
	ThumbReadOnly lipgloss.Style // Read-only slider thumb

	Muted   lipgloss.Style
	Error   lipgloss.Style
	LogLine lipgloss.Style // Notification log entries
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	HelpBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1),
	Field: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Focused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Underline(true),
	ReadOnly: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color(ColorReadOnly)),
	Disabled: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Faint(true),
	Track: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Thumb: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	ThumbReadOnly: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	LogLine: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}
