package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"megawidget/internal/display"
	"megawidget/internal/notify"
	"megawidget/internal/ui/textutil"
	"megawidget/internal/widget"
)

// PageFactor is how many increments pgup/pgdown and shifted arrows move.
const PageFactor = 10

// outcome reports what a control did with an input event.
type outcome struct {
	handled bool
	rapid   bool // a gesture is open and should be settled later
	err     error
}

// StepperControl is the discrete incarnation of one identifier: a value
// field with increment keys and typed entry.
type StepperControl struct {
	w  widget.Widget
	id string

	value    int64
	min, max int64
	ranged   bool
	enabled  bool
	editable bool

	input   textinput.Model
	editing bool
}

var (
	_ display.Stepper = (*StepperControl)(nil)
	_ display.Ranged  = (*StepperControl)(nil)
)

// NewStepperControl creates an unbound stepper for id of w.
func NewStepperControl(w widget.Widget, id string) *StepperControl {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 32
	return &StepperControl{w: w, id: id, enabled: true, editable: true, input: ti}
}

// ID returns the identifier the stepper shows.
func (c *StepperControl) ID() string { return c.id }

// Value returns the stepper-domain integer last rendered.
func (c *StepperControl) Value() int64 { return c.value }

// Range returns the accepted stepper-domain interval.
func (c *StepperControl) Range() (int64, int64) { return c.min, c.max }

// Editing reports whether typed entry is active.
func (c *StepperControl) Editing() bool { return c.editing }

func (c *StepperControl) SetEnabled(enabled bool)   { c.enabled = enabled }
func (c *StepperControl) SetEditable(editable bool) { c.editable = editable }

// Enabled reports whether the stepper accepts interaction.
func (c *StepperControl) Enabled() bool { return c.enabled }

// ReadOnly reports whether the stepper refuses value changes.
func (c *StepperControl) ReadOnly() bool { return !c.editable }

// SetValue implements display.Stepper. Values outside the range are
// refused once a range is set.
func (c *StepperControl) SetValue(n int64) error {
	if c.ranged && (n < c.min || n > c.max) {
		return fmt.Errorf("%d outside [%d, %d]", n, c.min, c.max)
	}
	c.value = n
	return nil
}

// SetRange implements display.Ranged.
func (c *StepperControl) SetRange(min, max int64) {
	c.min, c.max, c.ranged = min, max, true
}

func (c *StepperControl) step() int64 {
	eng := c.w.Engine()
	if n := eng.Converter().ToStepper(eng.IncrementDelta()); n > 1 {
		return n
	}
	return 1
}

func (c *StepperControl) clamp(n int64) int64 {
	if !c.ranged {
		return n
	}
	if n < c.min {
		return c.min
	}
	if n > c.max {
		return c.max
	}
	return n
}

// Step moves the value by k increments.
func (c *StepperControl) Step(k int64, phase notify.Phase) error {
	return c.send(c.value+k*c.step(), phase)
}

func (c *StepperControl) send(n int64, phase notify.Phase) error {
	return c.w.Engine().OnStepperChanged(c.id, c.clamp(n), phase)
}

// StartEditing opens typed entry prefilled with the current value.
func (c *StepperControl) StartEditing() tea.Cmd {
	if !c.enabled || !c.editable {
		return nil
	}
	c.editing = true
	c.input.SetValue(c.w.Format(c.id))
	c.input.CursorEnd()
	return c.input.Focus()
}

// StopEditing leaves typed entry without committing.
func (c *StepperControl) StopEditing() {
	c.editing = false
	c.input.Blur()
}

// commitInput parses the typed text and applies it as a programmatic value.
// Entry stays open when the text does not parse.
func (c *StepperControl) commitInput() error {
	raw, err := c.w.ParseInput(c.id, c.input.Value())
	if err != nil {
		return err
	}
	c.StopEditing()
	_, err = c.w.Engine().SetState(c.id, raw)
	return err
}

// HandleKey handles a key while the stepper has focus.
func (c *StepperControl) HandleKey(msg tea.KeyMsg) (outcome, tea.Cmd) {
	if c.editing {
		switch msg.String() {
		case "enter":
			return outcome{handled: true, err: c.commitInput()}, nil
		case "esc":
			c.StopEditing()
			return outcome{handled: true}, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return outcome{handled: true}, cmd
	}

	switch msg.String() {
	case "up", "k":
		return outcome{handled: true, rapid: true, err: c.Step(1, notify.PhaseRapid)}, nil
	case "down", "j":
		return outcome{handled: true, rapid: true, err: c.Step(-1, notify.PhaseRapid)}, nil
	case "pgup":
		return outcome{handled: true, rapid: true, err: c.Step(PageFactor, notify.PhaseRapid)}, nil
	case "pgdown":
		return outcome{handled: true, rapid: true, err: c.Step(-PageFactor, notify.PhaseRapid)}, nil
	case "+", "=":
		return outcome{handled: true, err: c.Step(1, notify.PhaseEnding)}, nil
	case "-":
		return outcome{handled: true, err: c.Step(-1, notify.PhaseEnding)}, nil
	case "home":
		return outcome{handled: true, err: c.send(c.min, notify.PhaseEnding)}, nil
	case "end":
		return outcome{handled: true, err: c.send(c.max, notify.PhaseEnding)}, nil
	case "enter":
		if c.w.Engine().InGesture() {
			return outcome{handled: true, err: c.w.Engine().OnGestureComplete()}, nil
		}
		return outcome{handled: true}, c.StartEditing()
	}
	return outcome{}, nil
}

// View renders the stepper field.
func (c *StepperControl) View(focused bool) string {
	if c.editing {
		return "[" + c.input.View() + "]"
	}
	text := c.w.Format(c.id)
	if unit := c.w.Unit(); unit != "" {
		text += " " + unit
	}
	field := "[" + textutil.PadLeft(text, FieldWidth) + "]"
	switch {
	case !c.enabled:
		return Styles.Disabled.Render(field)
	case focused:
		return Styles.Focused.Render(field)
	case !c.editable:
		return Styles.ReadOnly.Render(field)
	}
	return Styles.Field.Render(field)
}

// SliderControl is the continuous incarnation of a widget: one track with a
// thumb per identifier, driven by arrow keys or the mouse.
type SliderControl struct {
	w widget.Widget

	thumbs        []int64
	thumbEditable []bool
	min, max      int64
	ranged        bool
	enabled       bool
	editable      bool

	width    int
	selected int
	dragging int
}

var (
	_ display.Slider = (*SliderControl)(nil)
	_ display.Ranged = (*SliderControl)(nil)
)

// NewSliderControl creates a slider for w with n thumbs and a track of
// width cells.
func NewSliderControl(w widget.Widget, n, width int) *SliderControl {
	s := &SliderControl{
		w:             w,
		thumbs:        make([]int64, n),
		thumbEditable: make([]bool, n),
		enabled:       true,
		editable:      true,
		dragging:      -1,
	}
	for i := range s.thumbEditable {
		s.thumbEditable[i] = true
	}
	s.SetWidth(width)
	return s
}

func (s *SliderControl) SetEnabled(enabled bool)   { s.enabled = enabled }
func (s *SliderControl) SetEditable(editable bool) { s.editable = editable }

// SetThumbEditable implements display.Slider.
func (s *SliderControl) SetThumbEditable(thumb int, editable bool) {
	if thumb >= 0 && thumb < len(s.thumbEditable) {
		s.thumbEditable[thumb] = editable
	}
}

// SetThumbValue implements display.Slider.
func (s *SliderControl) SetThumbValue(thumb int, n int64) error {
	if thumb < 0 || thumb >= len(s.thumbs) {
		return fmt.Errorf("no thumb %d", thumb)
	}
	if s.ranged && (n < s.min || n > s.max) {
		return fmt.Errorf("%d outside [%d, %d]", n, s.min, s.max)
	}
	s.thumbs[thumb] = n
	return nil
}

// SetRange implements display.Ranged.
func (s *SliderControl) SetRange(min, max int64) {
	s.min, s.max, s.ranged = min, max, true
}

// SetWidth sets the track width in cells. Tracks are at least two cells.
func (s *SliderControl) SetWidth(width int) {
	if width < 2 {
		width = 2
	}
	s.width = width
}

// Width returns the track width in cells.
func (s *SliderControl) Width() int { return s.width }

// Thumb returns the slider-domain position of thumb i.
func (s *SliderControl) Thumb(i int) int64 { return s.thumbs[i] }

// Selected returns the thumb moved by the keyboard.
func (s *SliderControl) Selected() int { return s.selected }

// Dragging reports whether a mouse drag is in progress.
func (s *SliderControl) Dragging() bool { return s.dragging >= 0 }

func (s *SliderControl) thumbUsable(i int) bool {
	return s.enabled && s.editable && s.thumbEditable[i]
}

// Select makes the next (delta > 0) or previous thumb the keyboard target.
func (s *SliderControl) Select(delta int) {
	if n := len(s.thumbs); n > 0 {
		s.selected = ((s.selected+delta)%n + n) % n
	}
}

// step is one increment, widened so that a key press always moves the
// thumb by at least one cell.
func (s *SliderControl) step() int64 {
	eng := s.w.Engine()
	conv := eng.Converter()
	inc := conv.ToSlider(eng.IncrementDelta())
	if inc < 1 {
		inc = 1
	}
	if cell := (s.max - s.min) / int64(s.width-1); cell > inc {
		inc = int64(math.Ceil(float64(cell)/float64(inc))) * inc
	}
	return inc
}

func (s *SliderControl) clamp(n int64) int64 {
	if n < s.min {
		return s.min
	}
	if n > s.max {
		return s.max
	}
	return n
}

// Move shifts the selected thumb by k steps.
func (s *SliderControl) Move(k int64, phase notify.Phase) error {
	return s.send(s.selected, s.thumbs[s.selected]+k*s.step(), phase)
}

func (s *SliderControl) send(thumb int, n int64, phase notify.Phase) error {
	id, ok := s.w.Engine().IDForThumb(thumb)
	if !ok {
		return fmt.Errorf("no identifier bound to thumb %d", thumb)
	}
	return s.w.Engine().OnSliderChanged(map[string]int64{id: s.clamp(n)}, phase)
}

// HandleKey handles a key while the slider has focus.
func (s *SliderControl) HandleKey(msg tea.KeyMsg) (outcome, tea.Cmd) {
	if len(s.thumbs) == 0 {
		return outcome{}, nil
	}
	switch msg.String() {
	case "left", "h":
		return outcome{handled: true, rapid: true, err: s.Move(-1, notify.PhaseRapid)}, nil
	case "right", "l":
		return outcome{handled: true, rapid: true, err: s.Move(1, notify.PhaseRapid)}, nil
	case "shift+left", "H":
		return outcome{handled: true, rapid: true, err: s.Move(-PageFactor, notify.PhaseRapid)}, nil
	case "shift+right", "L":
		return outcome{handled: true, rapid: true, err: s.Move(PageFactor, notify.PhaseRapid)}, nil
	case "[":
		s.Select(-1)
		return outcome{handled: true}, nil
	case "]":
		s.Select(1)
		return outcome{handled: true}, nil
	case "enter":
		return outcome{handled: true, err: s.w.Engine().OnGestureComplete()}, nil
	}
	return outcome{}, nil
}

// HandleMouse handles a mouse event at track cell x. A press grabs the
// nearest usable thumb and opens a gesture, motion drags it, and release
// commits the final position and completes the gesture.
func (s *SliderControl) HandleMouse(msg tea.MouseMsg, x int) outcome {
	eng := s.w.Engine()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return outcome{}
		}
		thumb := s.nearest(x)
		if thumb < 0 {
			return outcome{handled: true}
		}
		s.dragging, s.selected = thumb, thumb
		eng.OnGestureStart()
		return outcome{handled: true, err: s.send(thumb, s.posToValue(x), notify.PhaseRapid)}

	case tea.MouseActionMotion:
		if s.dragging < 0 {
			return outcome{}
		}
		return outcome{handled: true, err: s.send(s.dragging, s.posToValue(x), notify.PhaseRapid)}

	case tea.MouseActionRelease:
		if s.dragging < 0 {
			return outcome{}
		}
		thumb := s.dragging
		s.dragging = -1
		if err := s.send(thumb, s.posToValue(x), notify.PhaseEnding); err != nil {
			return outcome{handled: true, err: err}
		}
		return outcome{handled: true, err: eng.OnGestureComplete()}
	}
	return outcome{}
}

// CancelDrag forgets a drag whose release will never arrive.
func (s *SliderControl) CancelDrag() { s.dragging = -1 }

func (s *SliderControl) nearest(x int) int {
	best, bestDist := -1, 0
	for i, v := range s.thumbs {
		if !s.thumbUsable(i) {
			continue
		}
		d := s.valueToPos(v) - x
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (s *SliderControl) valueToPos(v int64) int {
	if s.max <= s.min {
		return 0
	}
	frac := float64(s.clamp(v)-s.min) / float64(s.max-s.min)
	return int(math.Round(frac * float64(s.width-1)))
}

func (s *SliderControl) posToValue(x int) int64 {
	if x < 0 {
		x = 0
	}
	if x > s.width-1 {
		x = s.width - 1
	}
	frac := float64(x) / float64(s.width-1)
	return s.min + int64(math.Round(frac*float64(s.max-s.min)))
}

// View renders the track with its thumbs.
func (s *SliderControl) View(focused bool) string {
	cells := make([]string, s.width)
	track := Styles.Track
	if !s.enabled {
		track = Styles.Disabled
	}
	for i := range cells {
		cells[i] = track.Render("─")
	}
	for i, v := range s.thumbs {
		glyph, style := "●", Styles.Thumb
		if !s.thumbEditable[i] || !s.editable {
			glyph, style = "◆", Styles.ThumbReadOnly
		}
		if !s.enabled {
			style = Styles.Disabled
		} else if focused && i == s.selected {
			style = Styles.Focused
		}
		cells[s.valueToPos(v)] = style.Render(glyph)
	}
	return strings.Join(cells, "")
}
