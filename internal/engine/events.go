package engine

import (
	"log"

	"megawidget/internal/bounded"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// EventSink receives user interaction from the controls bound to an engine.
// Values arrive in each control's native integer domain.
type EventSink interface {
	OnStepperChanged(id string, n int64, phase notify.Phase) error
	OnSliderChanged(positions map[string]int64, phase notify.Phase) error
	OnGestureStart()
	OnGestureComplete() error
}

var _ EventSink = (*Engine)(nil)

// OnStepperChanged handles a stepper edit. Events raised while the engine
// is rendering are ignored. Edits to a disabled or read-only identifier are
// refused by re-rendering the current value.
func (e *Engine) OnStepperChanged(id string, n int64, phase notify.Phase) error {
	if e.sync.Updating() {
		return nil
	}
	if _, ok := e.set.Index(id); !ok {
		return &bounded.PropertyError{Identifier: id, Property: bounded.PropValues, Value: n, Err: bounded.ErrUnknownIdentifier}
	}
	if !e.acceptsInput(id) {
		return e.sync.Sync(e.set.Values(), id)
	}
	if phase == notify.PhaseRapid {
		e.OnGestureStart()
	}
	changes, err := e.set.SetState(id, e.sync.Converter().FromStepper(n))
	if err != nil {
		return err
	}
	return e.apply(changes, phase, id)
}

// OnSliderChanged handles moved slider thumbs, keyed by the identifier each
// thumb is bound to. Thumbs of read-only identifiers snap back.
func (e *Engine) OnSliderChanged(positions map[string]int64, phase notify.Phase) error {
	if e.sync.Updating() || len(positions) == 0 {
		return nil
	}
	conv := e.sync.Converter()
	vals := make(map[string]numeric.Number, len(positions))
	var refused []string
	for id, n := range positions {
		if _, ok := e.set.Index(id); !ok {
			return &bounded.PropertyError{Identifier: id, Property: bounded.PropValues, Value: n, Err: bounded.ErrUnknownIdentifier}
		}
		if !e.acceptsInput(id) {
			refused = append(refused, id)
			continue
		}
		vals[id] = conv.FromSlider(n)
	}
	if len(vals) == 0 {
		return e.sync.Sync(e.set.Values(), refused...)
	}
	if phase == notify.PhaseRapid {
		e.OnGestureStart()
	}

	var (
		changes bounded.ChangeSet
		err     error
	)
	if len(vals) == 1 {
		for id, v := range vals {
			changes, err = e.set.SetState(id, v)
		}
	} else {
		changes, err = e.set.SetStates(vals)
	}
	if err != nil {
		return err
	}
	return e.apply(changes, phase, append(keys(vals), refused...)...)
}

// OnGestureStart marks the beginning of a drag or key repeat.
func (e *Engine) OnGestureStart() {
	if !e.gate.InGesture() {
		e.gate.Begin(e.set.Values())
	}
}

// OnGestureComplete ends the current gesture: the gate reports what differs
// from the gesture's start and every control is re-rendered from state.
func (e *Engine) OnGestureComplete() error {
	if e.gate.InGesture() {
		log.Printf("engine.OnGestureComplete: %s", e.name)
	}
	e.gate.Complete(e.set.Values())
	return e.sync.Sync(e.set.Values())
}

// IDForThumb returns the identifier bound to a slider thumb.
func (e *Engine) IDForThumb(thumb int) (string, bool) {
	return e.sync.IDForThumb(thumb)
}
