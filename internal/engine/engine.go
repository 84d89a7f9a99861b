// Package engine composes the bounded-value state, its display
// synchronization and change notification into one value object owned by
// each widget.
//
// All calls are expected on a single event loop. The only guard against
// reentry is the synchronizer's updating flag: control callbacks fired
// while the engine renders are dropped by the event sink.
package engine

import (
	"fmt"

	"megawidget/internal/bounded"
	"megawidget/internal/display"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// Options configures an Engine.
type Options struct {
	// Name identifies the owning widget in errors and logs.
	Name            string
	State           bounded.Config
	Converter       display.Converter
	SendEveryChange bool
	Listener        notify.Listener
}

// Engine is the state engine of one widget.
type Engine struct {
	name string
	set  *bounded.Set
	sync *display.Synchronizer
	gate *notify.Gate
}

// New validates the initial configuration and builds an engine. A nil
// Converter defaults to a PrecisionConverter of the state's kind. Values
// are binned to what the converter can represent unless State.Bin is set.
func New(opts Options) (*Engine, error) {
	conv := opts.Converter
	if conv == nil {
		conv = display.PrecisionConverter{Kind: opts.State.Kind}
	}
	cfg := opts.State
	if cfg.Bin == nil {
		cfg.Bin = display.Bin(conv)
	}
	set, err := bounded.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine %s: %w", opts.Name, err)
	}
	return &Engine{
		name: opts.Name,
		set:  set,
		sync: display.NewSynchronizer(conv),
		gate: notify.NewGate(opts.SendEveryChange, opts.Listener),
	}, nil
}

// Name returns the owning widget's name.
func (e *Engine) Name() string { return e.name }

// IDs returns the tracked identifiers in order.
func (e *Engine) IDs() []string { return e.set.IDs() }

// Kind returns the numeric variant of the tracked values.
func (e *Engine) Kind() numeric.Kind { return e.set.Kind() }

// State returns the current value of id, or nil if id is unknown.
func (e *Engine) State(id string) numeric.Number { return e.set.Value(id) }

// States returns every current value.
func (e *Engine) States() map[string]numeric.Number { return e.set.Values() }

// Boundary returns the adjusted boundary of id.
func (e *Engine) Boundary(id string) (bounded.Boundary, bool) { return e.set.Boundary(id) }

// Converter returns the display converter.
func (e *Engine) Converter() display.Converter { return e.sync.Converter() }

// InGesture reports whether an uncommitted user gesture is open.
func (e *Engine) InGesture() bool { return e.gate.InGesture() }

// Bind attaches controls to id and renders the current value and range
// into them.
func (e *Engine) Bind(b display.Binding) error {
	if _, ok := e.set.Index(b.ID); !ok {
		return &bounded.PropertyError{Identifier: b.ID, Property: "binding", Err: bounded.ErrUnknownIdentifier}
	}
	if err := e.sync.Bind(b); err != nil {
		return err
	}
	e.syncRanges()
	return e.sync.Sync(e.set.Values(), b.ID)
}

// SetState writes one value programmatically. The change is reported as an
// ending change.
func (e *Engine) SetState(id string, raw interface{}) (bounded.ChangeSet, error) {
	v, err := e.coerce(id, raw)
	if err != nil {
		return nil, err
	}
	changes, err := e.set.SetState(id, v)
	if err != nil {
		return nil, err
	}
	return changes, e.apply(changes, notify.PhaseEnding, id)
}

// SetStates writes several values programmatically in one batch.
func (e *Engine) SetStates(raw map[string]interface{}) (bounded.ChangeSet, error) {
	vals, err := e.coerceAll(raw)
	if err != nil {
		return nil, err
	}
	changes, err := e.set.SetStates(vals)
	if err != nil {
		return nil, err
	}
	return changes, e.apply(changes, notify.PhaseEnding, keys(vals)...)
}

// Step moves id by n increment deltas with the given phase, as keyboard
// arrows and stepper buttons do.
func (e *Engine) Step(id string, n int64, phase notify.Phase) (bounded.ChangeSet, error) {
	if !e.acceptsInput(id) {
		return nil, e.sync.Sync(e.set.Values(), id)
	}
	if phase == notify.PhaseRapid {
		e.OnGestureStart()
	}
	changes, err := e.set.Step(id, n)
	if err != nil {
		return nil, err
	}
	return changes, e.apply(changes, phase, id)
}

// apply renders changed identifiers plus the originating ones, whose
// controls may display a value the propagator clamped or refused, then
// hands the change set to the gate.
func (e *Engine) apply(changes bounded.ChangeSet, phase notify.Phase, origin ...string) error {
	values := e.set.Values()
	ids := mergeIDs(changes.IDs(), origin)
	if len(ids) > 0 {
		if err := e.sync.Sync(values, ids...); err != nil {
			return fmt.Errorf("engine %s: %w", e.name, err)
		}
	}
	e.gate.Record(changes, phase, values)
	return nil
}

// syncRanges pushes adjusted boundaries to range-aware controls.
func (e *Engine) syncRanges() {
	ids := e.set.IDs()
	bounds := make(map[string]bounded.Boundary, len(ids))
	for _, id := range ids {
		b, _ := e.set.Boundary(id)
		bounds[id] = b
	}
	e.sync.SyncRanges(bounds, e.set.RawMinimum(ids[0]), e.set.RawMaximum(ids[len(ids)-1]))
}

func (e *Engine) acceptsInput(id string) bool {
	return e.sync.Enabled() && e.sync.IDEditable(id)
}

func (e *Engine) coerce(id string, raw interface{}) (numeric.Number, error) {
	v, err := numeric.Coerce(e.set.Kind(), raw)
	if err != nil {
		return nil, &bounded.PropertyError{Identifier: id, Property: bounded.PropValues, Value: raw, Err: err}
	}
	return v, nil
}

func (e *Engine) coerceAll(raw map[string]interface{}) (map[string]numeric.Number, error) {
	out := make(map[string]numeric.Number, len(raw))
	for id, r := range raw {
		v, err := e.coerce(id, r)
		if err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, nil
}

func keys(m map[string]numeric.Number) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
