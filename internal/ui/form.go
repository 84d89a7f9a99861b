package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"megawidget/internal/config"
	"megawidget/internal/display"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
	"megawidget/internal/ui/textutil"
	"megawidget/internal/widget"
)

const (
	// SettleDelay is how long after the last arrow key a keyboard gesture
	// is considered finished. Terminals report no key release.
	SettleDelay = 400 * time.Millisecond
	// NotificationBuffer is the capacity of the notification channel.
	NotificationBuffer = 256
	// LabelWidth is the column reserved for widget labels.
	LabelWidth = 16
	// FieldWidth is the text width of a stepper field.
	FieldWidth = 20
	// DefaultSliderWidth is the track width used when none is configured.
	DefaultSliderWidth = 40

	headerLines = 2
	scaleKey    = "~scale"
)

// FormOptions configures NewForm.
type FormOptions struct {
	// Wrap decorates each widget's listener, e.g. with tracing.
	Wrap func(widget string, next notify.Listener) notify.Listener
	// Observer returns an extra listener for a widget; nil skips it.
	Observer    func(widget string) notify.Listener
	SliderWidth int
}

// row is one widget on screen: a stepper per identifier and an optional
// shared slider.
type row struct {
	w        widget.Widget
	steppers []*StepperControl
	slider   *SliderControl
	settle   int
}

// target is a focusable control.
type target struct {
	row     *row
	stepper *StepperControl // nil when the row's slider is focused
}

// Form is the root Bubble Tea model: a column of widgets, a notification
// log and a help bar.
type Form struct {
	title  string
	rows   []*row
	byName map[string]*row

	targets  map[string]target
	focus    *FocusManager
	keys     *KeyHandler
	keyMap   KeyMap
	help     help.Model
	log      *NotificationLog
	notes    chan notify.Notification
	dragging *SliderControl

	sliderWidth   int
	status        string
	width, height int
}

var _ tea.Model = (*Form)(nil)

// NewForm builds every widget of cfg and binds its controls.
func NewForm(cfg *config.Form, opts FormOptions) (*Form, error) {
	f := &Form{
		title:       cfg.Title,
		byName:      make(map[string]*row),
		targets:     make(map[string]target),
		keyMap:      DefaultKeyMap(),
		help:        newHelpModel(),
		notes:       make(chan notify.Notification, NotificationBuffer),
		sliderWidth: opts.SliderWidth,
	}
	if f.sliderWidth <= 0 {
		f.sliderWidth = DefaultSliderWidth
	}
	f.focus = &FocusManager{OnChange: f.focusChanged}
	f.log = NewNotificationLog(60, 6, f.formatValue)
	f.keys = NewKeyHandler(f.registry())

	for _, spec := range cfg.Widgets {
		var l notify.Listener = &notify.ChanListener{Widget: spec.Name, Ch: f.notes}
		if opts.Observer != nil {
			l = notify.NewMultiListener(l, opts.Observer(spec.Name))
		}
		if opts.Wrap != nil {
			l = opts.Wrap(spec.Name, l)
		}
		w, err := widget.FromSpec(spec, cfg.SendEveryChange, l)
		if err != nil {
			return nil, err
		}
		if err := f.add(w); err != nil {
			return nil, fmt.Errorf("widget %q: %w", w.Name(), err)
		}
	}
	if len(f.focus.Order) > 0 {
		f.focus.SetFocus(f.focus.Order[0])
	}
	return f, nil
}

func focusKey(widget, id string) string { return "w/" + widget + "/" + id }

func (f *Form) add(w widget.Widget) error {
	r := &row{w: w}
	eng := w.Engine()
	ids := eng.IDs()
	if w.HasScale() {
		r.slider = NewSliderControl(w, len(ids), f.sliderWidth)
	}
	for i, id := range ids {
		st := NewStepperControl(w, id)
		r.steppers = append(r.steppers, st)
		b := display.Binding{ID: id, Stepper: st, Thumb: i}
		if r.slider != nil {
			b.Slider = r.slider
		}
		if err := eng.Bind(b); err != nil {
			return err
		}
		key := focusKey(w.Name(), id)
		f.focus.Order = append(f.focus.Order, key)
		f.targets[key] = target{row: r, stepper: st}
	}
	if r.slider != nil {
		key := focusKey(w.Name(), scaleKey)
		f.focus.Order = append(f.focus.Order, key)
		f.targets[key] = target{row: r}
	}
	f.rows = append(f.rows, r)
	f.byName[w.Name()] = r
	return nil
}

func (f *Form) registry() *KeybindRegistry {
	nav := []Mode{ModeNavigate}
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("ctrl+c", tea.Quit)
	reg.Bind("tab", sendMsg(focusMsg{delta: 1}))
	reg.Bind("shift+tab", sendMsg(focusMsg{delta: -1}))
	reg.BindWithDesc("SPC q", tea.Quit, "quit")
	reg.Group("SPC w", "Widget")
	reg.BindWithDescForMode("SPC w d", sendMsg(widgetActionMsg{actionToggleEnabled}), "enable/disable", nav)
	reg.BindWithDescForMode("SPC w e", sendMsg(widgetActionMsg{actionToggleEditable}), "read-only", nav)
	reg.BindWithDescForMode("SPC w l", sendMsg(widgetActionMsg{actionToggleLocked}), "lock", nav)
	reg.BindWithDescForMode("SPC w r", sendMsg(widgetActionMsg{actionToggleIDEditable}), "value read-only", nav)
	reg.Group("SPC l", "Log")
	reg.BindWithDescForMode("SPC l c", sendMsg(widgetActionMsg{actionClearLog}), "clear", nav)
	return reg
}

// Widget returns the widget called name.
func (f *Form) Widget(name string) (widget.Widget, bool) {
	r, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return r.w, true
}

// Focused returns the focus key of the focused control.
func (f *Form) Focused() string { return f.focus.Current }

// Status returns the last error shown in the status line, or "".
func (f *Form) Status() string { return f.status }

// Log returns the notification panel.
func (f *Form) Log() *NotificationLog { return f.log }

// Mode reports whether typed entry is active.
func (f *Form) Mode() Mode {
	if t, ok := f.targets[f.focus.Current]; ok && t.stepper != nil && t.stepper.Editing() {
		return ModeEntry
	}
	return ModeNavigate
}

// Init implements tea.Model.
func (f *Form) Init() tea.Cmd {
	return waitForNotification(f.notes)
}

// Update implements tea.Model.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.resize(msg.Width, msg.Height)
		return f, nil
	case notificationMsg:
		f.log.Append(notify.Notification(msg))
		return f, waitForNotification(f.notes)
	case settleMsg:
		if r, ok := f.byName[msg.widget]; ok && r.settle == msg.seq {
			f.report(r.w.Engine().OnGestureComplete())
		}
		return f, nil
	case focusMsg:
		if msg.delta < 0 {
			f.focus.Prev()
		} else {
			f.focus.Next()
		}
		return f, nil
	case widgetActionMsg:
		f.report(f.runAction(msg.action))
		return f, nil
	case tea.KeyMsg:
		return f, f.handleKey(msg)
	case tea.MouseMsg:
		return f, f.handleMouse(msg)
	}
	return f, nil
}

func (f *Form) handleKey(msg tea.KeyMsg) tea.Cmd {
	t, ok := f.targets[f.focus.Current]
	if ok && t.stepper != nil && t.stepper.Editing() {
		out, cmd := t.stepper.HandleKey(msg)
		f.report(out.err)
		return cmd
	}
	if consumed, cmd := f.keys.Handle(msg); consumed {
		return cmd
	}
	if !ok {
		return nil
	}

	var (
		out outcome
		cmd tea.Cmd
	)
	if t.stepper != nil {
		out, cmd = t.stepper.HandleKey(msg)
	} else {
		out, cmd = t.row.slider.HandleKey(msg)
	}
	if !out.handled {
		return f.log.Update(msg)
	}
	f.report(out.err)
	if out.rapid && t.row.w.Engine().InGesture() {
		t.row.settle++
		return tea.Batch(cmd, settleCmd(t.row.w.Name(), t.row.settle))
	}
	return cmd
}

func (f *Form) handleMouse(msg tea.MouseMsg) tea.Cmd {
	trackX := LabelWidth + 2

	// A drag owns the mouse until release, wherever the pointer goes.
	if f.dragging != nil {
		s := f.dragging
		out := s.HandleMouse(msg, msg.X-trackX)
		if !s.Dragging() {
			f.dragging = nil
		}
		f.report(out.err)
		return nil
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		return f.log.Update(msg)
	}
	r, onScale := f.hit(msg.Y)
	if r == nil {
		return nil
	}
	if onScale {
		f.focus.SetFocus(focusKey(r.w.Name(), scaleKey))
		out := r.slider.HandleMouse(msg, msg.X-trackX)
		if r.slider.Dragging() {
			f.dragging = r.slider
		}
		f.report(out.err)
		return nil
	}
	if i := (msg.X - trackX) / (FieldWidth + 3); msg.X >= trackX && i < len(r.steppers) {
		f.focus.SetFocus(focusKey(r.w.Name(), r.steppers[i].ID()))
	}
	return nil
}

// hit maps a screen line to the widget drawn there.
func (f *Form) hit(y int) (*row, bool) {
	line := headerLines
	for _, r := range f.rows {
		if y == line {
			return r, false
		}
		line++
		if r.slider != nil {
			if y == line {
				return r, true
			}
			line++
		}
		line++
	}
	return nil, false
}

// focusChanged ends whatever the control losing focus had in progress.
func (f *Form) focusChanged(from, _ string) {
	t, ok := f.targets[from]
	if !ok {
		return
	}
	if t.stepper != nil {
		t.stepper.StopEditing()
	} else if t.row.slider != nil {
		t.row.slider.CancelDrag()
	}
	if t.row.w.Engine().InGesture() {
		t.row.settle++
		f.report(t.row.w.Engine().OnGestureComplete())
	}
}

func (f *Form) runAction(a widgetAction) error {
	if a == actionClearLog {
		f.log.Clear()
		return nil
	}
	t, ok := f.targets[f.focus.Current]
	if !ok {
		return nil
	}
	w := t.row.w
	eng := w.Engine()
	switch a {
	case actionToggleEnabled:
		return w.SetEnabled(!w.Enabled())
	case actionToggleEditable:
		return w.SetEditable(!w.Editable())
	case actionToggleLocked:
		if len(eng.IDs()) < 2 {
			return fmt.Errorf("%s holds a single value", w.Name())
		}
		eng.SetLocked(!eng.Locked())
	case actionToggleIDEditable:
		id := ""
		if t.stepper != nil {
			id = t.stepper.ID()
		} else if got, ok := eng.IDForThumb(t.row.slider.Selected()); ok {
			id = got
		}
		m := eng.Editability()
		cur, set := m[id]
		m[id] = set && !cur
		return eng.SetEditability(m)
	}
	return nil
}

// report shows err in the status line. A nil error clears it.
func (f *Form) report(err error) {
	if err == nil {
		f.status = ""
		return
	}
	log.Printf("ui: %v", err)
	f.status = err.Error()
}

func (f *Form) formatValue(name string, v numeric.Number) string {
	if r, ok := f.byName[name]; ok {
		return r.w.FormatValue(v)
	}
	return v.String()
}

func (f *Form) resize(width, height int) {
	f.width, f.height = width, height
	f.help.Width = width
	if w := width - LabelWidth - 4; w < f.sliderWidth {
		for _, r := range f.rows {
			if r.slider != nil {
				r.slider.SetWidth(w)
			}
		}
	}
	logHeight := height - f.formLines() - 6
	if logHeight < 3 {
		logHeight = 3
	}
	f.log.SetSize(width-4, logHeight)
}

func (f *Form) formLines() int {
	n := headerLines
	for _, r := range f.rows {
		n += 2
		if r.slider != nil {
			n++
		}
	}
	return n
}

// View implements tea.Model.
func (f *Form) View() string {
	var b strings.Builder
	title := f.title
	if title == "" {
		title = "megawidget"
	}
	b.WriteString(Styles.Title.Render(title) + "\n\n")

	indent := strings.Repeat(" ", LabelWidth+2)
	for _, r := range f.rows {
		label := Styles.Label
		if !r.w.Enabled() {
			label = Styles.Disabled
		}
		fields := make([]string, len(r.steppers))
		for i, st := range r.steppers {
			fields[i] = st.View(f.focus.Current == focusKey(r.w.Name(), st.ID()))
		}
		b.WriteString(label.Render(textutil.PadRight(r.w.Label(), LabelWidth)) + "  " + strings.Join(fields, " "))
		if r.w.Engine().Locked() {
			b.WriteString(Styles.Muted.Render(" locked"))
		}
		b.WriteString("\n")
		if r.slider != nil {
			b.WriteString(indent + r.slider.View(f.focus.Current == focusKey(r.w.Name(), scaleKey)) + "\n")
		}
		b.WriteString("\n")
	}

	if f.width > 0 {
		b.WriteString(Styles.Muted.Render(textutil.Ruler("─", f.width)) + "\n")
	}
	if f.status != "" {
		b.WriteString(Styles.Error.Render(textutil.Truncate(f.status, max(f.width, 20))) + "\n")
	}
	b.WriteString(Styles.Box.Render(f.log.View()) + "\n")

	if f.keys.LeaderWaiting {
		b.WriteString(RenderKeybindHelp(f.keys, f.Mode()))
	} else {
		b.WriteString(f.help.View(f.keyMap))
	}
	return b.String()
}
