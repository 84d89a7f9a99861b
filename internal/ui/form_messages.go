package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"megawidget/internal/notify"
)

// notificationMsg carries one listener notification into the update loop.
type notificationMsg notify.Notification

// settleMsg fires SettleDelay after the last rapid key on a widget. A
// newer key on the same widget makes it stale.
type settleMsg struct {
	widget string
	seq    int
}

// focusMsg moves focus by delta positions in tab order.
type focusMsg struct{ delta int }

type widgetAction int

const (
	actionToggleEnabled widgetAction = iota
	actionToggleEditable
	actionToggleLocked
	actionToggleIDEditable
	actionClearLog
)

// widgetActionMsg applies a leader-key action to the focused widget.
type widgetActionMsg struct{ action widgetAction }

func sendMsg(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// waitForNotification blocks until a widget listener delivers.
func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

// settleCmd schedules the end of a keyboard gesture on widget.
func settleCmd(widget string, seq int) tea.Cmd {
	return tea.Tick(SettleDelay, func(time.Time) tea.Msg {
		return settleMsg{widget: widget, seq: seq}
	})
}
