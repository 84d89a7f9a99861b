package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// MaxLogLines bounds the notification history.
const MaxLogLines = 200

// FormatFunc renders one notified value of a widget for the log.
type FormatFunc func(widget string, v numeric.Number) string

// NotificationLog is a scrolling panel listing delivered notifications,
// newest last.
type NotificationLog struct {
	viewport viewport.Model
	lines    []string
	format   FormatFunc
}

// NewNotificationLog creates a log panel. format renders values; nil uses
// each number's own string form.
func NewNotificationLog(width, height int, format FormatFunc) *NotificationLog {
	return &NotificationLog{viewport: viewport.New(width, height), format: format}
}

// Append adds a notification and scrolls to it.
func (l *NotificationLog) Append(n notify.Notification) {
	ids := make([]string, 0, len(n.Values))
	for id := range n.Values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		text := n.Values[id].String()
		if l.format != nil {
			text = l.format(n.Widget, n.Values[id])
		}
		parts[i] = id + "=" + text
	}
	line := n.Timestamp.Format("15:04:05.000") + " " + n.Widget + " " + strings.Join(parts, " ")

	l.lines = append(l.lines, line)
	if len(l.lines) > MaxLogLines {
		l.lines = l.lines[len(l.lines)-MaxLogLines:]
	}
	l.refresh()
}

// Lines returns the log entries, oldest first.
func (l *NotificationLog) Lines() []string { return l.lines }

// Clear drops every entry.
func (l *NotificationLog) Clear() {
	l.lines = nil
	l.refresh()
}

// SetSize resizes the panel.
func (l *NotificationLog) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.refresh()
}

// Update forwards scroll keys and wheel events to the viewport.
func (l *NotificationLog) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd
}

// View renders the visible part of the log.
func (l *NotificationLog) View() string {
	if len(l.lines) == 0 {
		return Styles.Muted.Render("no notifications yet")
	}
	return l.viewport.View()
}

func (l *NotificationLog) refresh() {
	styled := make([]string, len(l.lines))
	for i, line := range l.lines {
		styled[i] = Styles.LogLine.Render(line)
	}
	l.viewport.SetContent(strings.Join(styled, "\n"))
	l.viewport.GotoBottom()
}
