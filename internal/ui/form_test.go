package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megawidget/internal/config"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

const testForm = `
title: Test form
widgets:
  - name: band
    type: range
    kind: int64
    min: 0
    max: 100
    lower: 20
    upper: 80
    minimumInterval: 5
  - name: count
    type: spinner
    kind: int32
    min: 0
    max: 10
    value: 3
`

func newTestForm(t *testing.T) *Form {
	t.Helper()
	cfg, err := config.Parse([]byte(testForm))
	require.NoError(t, err)
	f, err := NewForm(cfg, FormOptions{})
	require.NoError(t, err)
	return f
}

func drain(f *Form) []notify.Notification {
	var out []notify.Notification
	for {
		select {
		case n := <-f.notes:
			out = append(out, n)
		default:
			return out
		}
	}
}

func press(f *Form, keys ...string) {
	for _, k := range keys {
		f.Update(keyMsg(k))
	}
}

// run delivers msg and feeds back the message of a single returned command.
func run(f *Form, msg tea.Msg) {
	_, cmd := f.Update(msg)
	if cmd == nil {
		return
	}
	switch next := cmd().(type) {
	case focusMsg, widgetActionMsg:
		f.Update(next)
	}
}

func state(f *Form, widget, id string) numeric.Number {
	w, _ := f.Widget(widget)
	return w.Engine().State(id)
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestForm_FocusOrder(t *testing.T) {
	f := newTestForm(t)
	assert.Equal(t, []string{"w/band/lower", "w/band/upper", "w/band/~scale", "w/count/value"}, f.focus.Order)
	assert.Equal(t, "w/band/lower", f.Focused())

	run(f, keyMsg("shift+tab"))
	assert.Equal(t, "w/count/value", f.Focused())
	run(f, keyMsg("tab"))
	assert.Equal(t, "w/band/lower", f.Focused())
}

func TestForm_RapidKeysSettleIntoOneNotification(t *testing.T) {
	f := newTestForm(t)

	press(f, "up", "up", "up")
	assert.Equal(t, numeric.Int64(23), state(f, "band", "lower"))
	assert.Empty(t, drain(f), "rapid steps are silent")

	r := f.byName["band"]
	f.Update(settleMsg{widget: "band", seq: r.settle - 1})
	assert.Empty(t, drain(f), "stale settle ignored")

	f.Update(settleMsg{widget: "band", seq: r.settle})
	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, "band", got[0].Widget)
	assert.Equal(t, map[string]numeric.Number{"lower": numeric.Int64(23)}, got[0].Values)
}

func TestForm_EnterCompletesGestureThenEdits(t *testing.T) {
	f := newTestForm(t)

	press(f, "up", "enter")
	require.Len(t, drain(f), 1)
	assert.Equal(t, ModeNavigate, f.Mode())

	press(f, "enter")
	assert.Equal(t, ModeEntry, f.Mode())
	press(f, "ctrl+u", "5", "0", "enter")
	assert.Equal(t, ModeNavigate, f.Mode())
	assert.Equal(t, numeric.Int64(50), state(f, "band", "lower"))
	require.Len(t, drain(f), 1)

	press(f, "enter", "ctrl+u", "abc", "enter")
	assert.Equal(t, ModeEntry, f.Mode(), "bad input keeps entry open")
	assert.NotEmpty(t, f.Status())
	press(f, "esc")
	assert.Equal(t, ModeNavigate, f.Mode())
}

func TestForm_FocusLossCompletesGesture(t *testing.T) {
	f := newTestForm(t)

	press(f, "up", "up")
	assert.Empty(t, drain(f))
	run(f, keyMsg("tab"))
	assert.Equal(t, "w/band/upper", f.Focused())

	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, numeric.Int64(22), got[0].Values["lower"])
}

func TestForm_SliderDragReportsOnce(t *testing.T) {
	f := newTestForm(t)
	trackX := LabelWidth + 2
	scaleY := headerLines + 1

	f.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, trackX+10, scaleY))
	assert.Equal(t, "w/band/~scale", f.Focused())
	assert.Equal(t, numeric.Int64(26), state(f, "band", "lower"))

	f.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, trackX+30, scaleY+5))
	assert.Equal(t, numeric.Int64(77), state(f, "band", "lower"))
	assert.Equal(t, numeric.Int64(82), state(f, "band", "upper"), "upper pushed by the interval")
	assert.Empty(t, drain(f))

	f.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, trackX+30, scaleY))
	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]numeric.Number{"lower": numeric.Int64(77), "upper": numeric.Int64(82)}, got[0].Values)
	assert.Nil(t, f.dragging)
}

func TestForm_DisableDuringDrag(t *testing.T) {
	f := newTestForm(t)
	trackX := LabelWidth + 2
	scaleY := headerLines + 1

	f.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, trackX+10, scaleY))
	f.Update(widgetActionMsg{actionToggleEnabled})
	w, _ := f.Widget("band")
	assert.False(t, w.Enabled())
	require.Len(t, drain(f), 1, "open gesture reported when disabled")

	f.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, trackX+35, scaleY))
	assert.Equal(t, numeric.Int64(26), state(f, "band", "lower"), "disabled widget ignores the release")
	assert.Empty(t, drain(f))
}

func TestForm_ReadOnlyIdentifier(t *testing.T) {
	f := newTestForm(t)

	run(f, keyMsg(" "))
	run(f, keyMsg("w"))
	run(f, keyMsg("r"))
	w, _ := f.Widget("band")
	assert.False(t, w.Engine().IDEditable("lower"))
	assert.True(t, f.byName["band"].steppers[0].ReadOnly())

	press(f, "up", "+")
	assert.Equal(t, numeric.Int64(20), state(f, "band", "lower"))
	assert.Empty(t, drain(f))

	f.Update(widgetActionMsg{actionToggleIDEditable})
	assert.True(t, w.Engine().IDEditable("lower"))
}

func TestForm_LockTogglesOnMultiValueWidgets(t *testing.T) {
	f := newTestForm(t)
	f.Update(widgetActionMsg{actionToggleLocked})
	w, _ := f.Widget("band")
	assert.True(t, w.Engine().Locked())
	assert.Contains(t, f.View(), "locked")

	f.focus.SetFocus("w/count/value")
	f.Update(widgetActionMsg{actionToggleLocked})
	assert.Contains(t, f.Status(), "single value")
}

func TestForm_NotificationLog(t *testing.T) {
	f := newTestForm(t)
	f.Update(notificationMsg{Widget: "count", Values: map[string]numeric.Number{"value": numeric.Int32(4)}})
	lines := f.Log().Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "count value=4"), lines[0])

	run(f, keyMsg(" "))
	assert.Contains(t, f.View(), "Log")
	run(f, keyMsg("l"))
	run(f, keyMsg("c"))
	assert.Empty(t, f.Log().Lines())
}

func TestForm_ViewShowsWidgets(t *testing.T) {
	f := newTestForm(t)
	f.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	v := f.View()
	assert.Contains(t, v, "Test form")
	assert.Contains(t, v, "band")
	assert.Contains(t, v, "count")
	assert.Contains(t, v, "●")
}

const fineForm = `
title: Fine values
widgets:
  - name: gain
    type: spinner
    kind: float64
    min: 0
    max: 10
    value: 1.25
    precision: 1
  - name: grace
    type: timedelta
    min: 0s
    max: 1h
    value: 90s
    unit: minutes
`

// requireStepperShowsState checks that the stepper of id holds exactly the
// engine's value.
func requireStepperShowsState(t *testing.T, f *Form, widget, id string) {
	t.Helper()
	r := f.byName[widget]
	var st *StepperControl
	for _, s := range r.steppers {
		if s.ID() == id {
			st = s
		}
	}
	require.NotNil(t, st)
	conv := r.w.Engine().Converter()
	assert.Equal(t, state(f, widget, id), conv.FromStepper(st.Value()))
}

func TestForm_SteppersMatchBinnedState(t *testing.T) {
	cfg, err := config.Parse([]byte(fineForm))
	require.NoError(t, err)
	f, err := NewForm(cfg, FormOptions{})
	require.NoError(t, err)

	assert.Equal(t, numeric.Float64(1.3), state(f, "gain", "value"))
	requireStepperShowsState(t, f, "gain", "value")

	press(f, "+")
	assert.Equal(t, numeric.Float64(1.4), state(f, "gain", "value"))
	requireStepperShowsState(t, f, "gain", "value")

	press(f, "enter", "ctrl+u", "3", ".", "1", "4", "1", "5", "9", "enter")
	assert.Equal(t, ModeNavigate, f.Mode())
	assert.Equal(t, numeric.Float64(3.1), state(f, "gain", "value"))
	requireStepperShowsState(t, f, "gain", "value")

	grace, _ := f.Widget("grace")
	assert.Equal(t, numeric.Int64(2*60_000), state(f, "grace", "delta"))
	requireStepperShowsState(t, f, "grace", "delta")

	run(f, keyMsg("tab"))
	assert.Equal(t, "w/grace/delta", f.Focused())
	press(f, "+")
	assert.Equal(t, numeric.Int64(3*60_000), state(f, "grace", "delta"))
	assert.Equal(t, "3", grace.Format("delta"))
	requireStepperShowsState(t, f, "grace", "delta")
}
