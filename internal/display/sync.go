// Package display keeps the stepper and slider incarnations of bounded
// values consistent with the abstract state.
//
// A Synchronizer holds one Binding per identifier. After every accepted
// state change it re-renders the bound controls through a Converter, with a
// reentrancy flag raised so control callbacks fired by programmatic updates
// can be told apart from user edits.
package display

import (
	"errors"
	"fmt"

	"megawidget/internal/bounded"
	"megawidget/internal/numeric"
)

// ErrInvariant marks a control refusing a value that was already validated.
// It is a programming fault, not a user error.
var ErrInvariant = errors.New("display: control rejected a validated value")

// InvariantError identifies the binding whose control failed.
type InvariantError struct {
	ID      string
	Control string
	Value   int64
	Err     error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("display: %s %s rejected %d: %v", e.ID, e.Control, e.Value, e.Err)
}

func (e *InvariantError) Unwrap() []error {
	return []error{ErrInvariant, e.Err}
}

// Control is anything whose interaction can be switched on and off.
// Implementations must be comparable (normally pointers).
type Control interface {
	SetEnabled(enabled bool)
	SetEditable(editable bool)
}

// Stepper is a discrete control holding one integer.
type Stepper interface {
	Control
	SetValue(n int64) error
}

// Slider is a continuous control with one or more thumbs.
type Slider interface {
	Control
	SetThumbValue(thumb int, n int64) error
	SetThumbEditable(thumb int, editable bool)
}

// Ranged is implemented by controls that clamp their own input.
type Ranged interface {
	SetRange(min, max int64)
}

// Binding ties one identifier to its controls. Stepper, Slider and Label
// are each optional.
type Binding struct {
	ID      string
	Stepper Stepper
	Slider  Slider
	Thumb   int
	Label   Control
}

// Synchronizer renders abstract values into bound controls.
type Synchronizer struct {
	conv        Converter
	bindings    []*Binding
	byID        map[string]*Binding
	updating    bool
	enabled     bool
	editable    bool
	editability map[string]bool
}

// NewSynchronizer creates a synchronizer with no bindings. Controls start
// enabled and editable.
func NewSynchronizer(conv Converter) *Synchronizer {
	return &Synchronizer{
		conv:        conv,
		byID:        make(map[string]*Binding),
		enabled:     true,
		editable:    true,
		editability: make(map[string]bool),
	}
}

// Converter returns the converter shared by every binding.
func (s *Synchronizer) Converter() Converter { return s.conv }

// Bind attaches controls for b.ID and applies the current access state to
// them. An identifier can be bound once.
func (s *Synchronizer) Bind(b Binding) error {
	if b.ID == "" {
		return errors.New("display: binding without identifier")
	}
	if _, ok := s.byID[b.ID]; ok {
		return fmt.Errorf("display: %s already bound", b.ID)
	}
	bp := &b
	s.bindings = append(s.bindings, bp)
	s.byID[b.ID] = bp
	s.applyAccess(bp)
	return nil
}

// Binding returns the binding of id.
func (s *Synchronizer) Binding(id string) (Binding, bool) {
	b, ok := s.byID[id]
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// IDForThumb returns the identifier bound to a slider thumb.
func (s *Synchronizer) IDForThumb(thumb int) (string, bool) {
	for _, b := range s.bindings {
		if b.Slider != nil && b.Thumb == thumb {
			return b.ID, true
		}
	}
	return "", false
}

// Updating reports whether a programmatic render is in progress. Control
// change handlers must ignore events while it is true.
func (s *Synchronizer) Updating() bool { return s.updating }

// Sync renders values into the controls of ids, or of every binding when
// ids is empty. Identifiers without a binding or a value are skipped.
func (s *Synchronizer) Sync(values map[string]numeric.Number, ids ...string) error {
	targets := s.bindings
	if len(ids) > 0 {
		targets = make([]*Binding, 0, len(ids))
		for _, id := range ids {
			if b, ok := s.byID[id]; ok {
				targets = append(targets, b)
			}
		}
	}

	s.updating = true
	defer func() { s.updating = false }()

	for _, b := range targets {
		v, ok := values[b.ID]
		if !ok || v == nil {
			continue
		}
		if b.Stepper != nil {
			n := s.conv.ToStepper(v)
			if err := b.Stepper.SetValue(n); err != nil {
				return &InvariantError{ID: b.ID, Control: "stepper", Value: n, Err: err}
			}
		}
		if b.Slider != nil {
			n := s.conv.ToSlider(v)
			if err := b.Slider.SetThumbValue(b.Thumb, n); err != nil {
				return &InvariantError{ID: b.ID, Control: "slider", Value: n, Err: err}
			}
		}
	}
	return nil
}

// SyncRanges pushes limits to Ranged controls: each stepper gets its
// identifier's adjusted boundary, sliders get the overall extent lo..hi.
func (s *Synchronizer) SyncRanges(bounds map[string]bounded.Boundary, lo, hi numeric.Number) {
	seen := make(map[Control]bool)
	for _, b := range s.bindings {
		if r, ok := b.Stepper.(Ranged); ok {
			if bd, ok := bounds[b.ID]; ok {
				r.SetRange(s.conv.ToStepper(bd.Min), s.conv.ToStepper(bd.Max))
			}
		}
		if b.Slider != nil && !seen[b.Slider] && lo != nil && hi != nil {
			seen[b.Slider] = true
			if r, ok := b.Slider.(Ranged); ok {
				r.SetRange(s.conv.ToSlider(lo), s.conv.ToSlider(hi))
			}
		}
	}
}

// Enabled reports whether interaction is enabled.
func (s *Synchronizer) Enabled() bool { return s.enabled }

// Editable reports whether values may be changed by the user.
func (s *Synchronizer) Editable() bool { return s.editable }

// IDEditable reports whether id may be changed by the user, combining the
// widget-wide flag with the per-identifier map.
func (s *Synchronizer) IDEditable(id string) bool {
	if !s.editable {
		return false
	}
	if e, ok := s.editability[id]; ok {
		return e
	}
	return true
}

// SetEnabled switches interaction on or off for every bound control.
func (s *Synchronizer) SetEnabled(enabled bool) {
	s.enabled = enabled
	s.applyAll()
}

// SetEditable switches value changes on or off for every bound control.
// Non-editable controls stay focusable.
func (s *Synchronizer) SetEditable(editable bool) {
	s.editable = editable
	s.applyAll()
}

// SetEditability replaces the per-identifier editability map. Identifiers
// missing from the map are editable.
func (s *Synchronizer) SetEditability(m map[string]bool) {
	s.editability = make(map[string]bool, len(m))
	for id, e := range m {
		s.editability[id] = e
	}
	s.applyAll()
}

// Editability returns a copy of the per-identifier editability map.
func (s *Synchronizer) Editability() map[string]bool {
	out := make(map[string]bool, len(s.editability))
	for id, e := range s.editability {
		out[id] = e
	}
	return out
}

func (s *Synchronizer) applyAll() {
	seen := make(map[Control]bool)
	for _, b := range s.bindings {
		// A slider shared by several thumbs only needs the widget-wide state once.
		if b.Slider != nil && !seen[b.Slider] {
			seen[b.Slider] = true
			b.Slider.SetEnabled(s.enabled)
			b.Slider.SetEditable(s.editable)
		}
		s.applyOwn(b)
	}
}

func (s *Synchronizer) applyAccess(b *Binding) {
	if b.Slider != nil {
		b.Slider.SetEnabled(s.enabled)
		b.Slider.SetEditable(s.editable)
	}
	s.applyOwn(b)
}

func (s *Synchronizer) applyOwn(b *Binding) {
	editable := s.IDEditable(b.ID)
	if b.Stepper != nil {
		b.Stepper.SetEnabled(s.enabled)
		b.Stepper.SetEditable(editable)
	}
	if b.Slider != nil {
		b.Slider.SetThumbEditable(b.Thumb, editable)
	}
	if b.Label != nil {
		b.Label.SetEnabled(s.enabled)
		b.Label.SetEditable(editable)
	}
}
