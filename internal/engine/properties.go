package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"megawidget/internal/bounded"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// Property names accepted on top of the bounded package's.
const (
	PropValueEditables = "valueEditables"
	PropEnable         = "enable"
	PropEditable       = "editable"
)

// ErrUnknownProperty is returned for names outside the mutable registry.
var ErrUnknownProperty = errors.New("engine: unknown property")

var mutableProperties = func() map[string]bool {
	m := make(map[string]bool)
	for _, name := range []string{
		bounded.PropMinimum,
		bounded.PropMaximum,
		bounded.PropMinimumInterval,
		bounded.PropIncrementDelta,
		bounded.PropValues,
		PropValueEditables,
		PropEnable,
		PropEditable,
	} {
		m[name] = true
	}
	return m
}()

// MutablePropertyNames lists every property settable after construction,
// sorted.
func MutablePropertyNames() []string {
	out := make([]string, 0, len(mutableProperties))
	for name := range mutableProperties {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsMutableProperty reports whether name can be set after construction.
func IsMutableProperty(name string) bool { return mutableProperties[name] }

// SetMutableProperties applies a bulk property update. Bounds, interval and
// increment are staged first; values and per-identifier editability are
// held back until the new bounds are in place. Either everything is applied
// or nothing is.
//
// minValue and maxValue accept a scalar applied to every identifier or a
// per-identifier map. values accepts a per-identifier map, or a scalar when
// the engine tracks a single value.
func (e *Engine) SetMutableProperties(props map[string]interface{}) error {
	for name := range props {
		if !mutableProperties[name] {
			return &bounded.PropertyError{Property: name, Value: props[name], Err: ErrUnknownProperty}
		}
	}

	staged := e.set.Clone()
	mins, err := e.perID(bounded.PropMinimum, props)
	if err != nil {
		return err
	}
	maxs, err := e.perID(bounded.PropMaximum, props)
	if err != nil {
		return err
	}
	interval := props[bounded.PropMinimumInterval]
	if _, ok := props[bounded.PropMinimumInterval]; ok && interval == nil {
		return &bounded.PropertyError{Property: bounded.PropMinimumInterval, Err: bounded.ErrMissingValue}
	}
	if mins != nil || maxs != nil || interval != nil {
		if _, err := staged.SetRawBounds(mins, maxs, interval); err != nil {
			return err
		}
	}
	if raw, ok := props[bounded.PropIncrementDelta]; ok {
		if err := staged.SetIncrementDelta(raw); err != nil {
			return err
		}
	}

	enabled, editable := e.sync.Enabled(), e.sync.Editable()
	if raw, ok := props[PropEnable]; ok {
		if enabled, err = asBool(PropEnable, raw); err != nil {
			return err
		}
	}
	if raw, ok := props[PropEditable]; ok {
		if editable, err = asBool(PropEditable, raw); err != nil {
			return err
		}
	}

	// Deferred until the staged bounds are in effect.
	if raw, ok := props[bounded.PropValues]; ok {
		vals, err := e.perID(bounded.PropValues, props)
		if err != nil {
			return err
		}
		coerced := make(map[string]numeric.Number, len(vals))
		for id, r := range vals {
			v, err := numeric.Coerce(staged.Kind(), r)
			if err != nil {
				return &bounded.PropertyError{Identifier: id, Property: bounded.PropValues, Value: raw, Err: err}
			}
			coerced[id] = v
		}
		if _, err := staged.SetStates(coerced); err != nil {
			return err
		}
	}
	var editability map[string]bool
	if raw, ok := props[PropValueEditables]; ok {
		if editability, err = e.editabilityMap(raw); err != nil {
			return err
		}
	}

	return e.commit(staged, enabled, editable, editability)
}

// commit swaps in a staged set and applies access flags, completing any
// open gesture first when interaction is being switched off.
func (e *Engine) commit(staged *bounded.Set, enabled, editable bool, editability map[string]bool) error {
	if (!enabled && e.sync.Enabled()) || (!editable && e.sync.Editable()) {
		e.gate.Complete(e.set.Values())
	}

	before := e.set.Values()
	e.set = staged
	after := e.set.Values()
	changes := bounded.Compare(e.set.IDs(), before, after)

	if enabled != e.sync.Enabled() {
		e.sync.SetEnabled(enabled)
	}
	if editable != e.sync.Editable() {
		e.sync.SetEditable(editable)
	}
	if editability != nil {
		e.sync.SetEditability(editability)
	}
	e.syncRanges()
	if err := e.sync.Sync(after); err != nil {
		return fmt.Errorf("engine %s: %w", e.name, err)
	}
	e.gate.Record(changes, notify.PhaseEnding, after)
	return nil
}

// perID expands a scalar-or-map property into a per-identifier map. It
// returns nil when the property is absent.
func (e *Engine) perID(prop string, props map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := props[prop]
	if !ok {
		return nil, nil
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, nil
	case map[string]numeric.Number:
		out := make(map[string]interface{}, len(v))
		for id, n := range v {
			out[id] = n
		}
		return out, nil
	case nil:
		return nil, &bounded.PropertyError{Property: prop, Err: bounded.ErrMissingValue}
	}
	ids := e.set.IDs()
	if prop == bounded.PropValues && len(ids) > 1 {
		return nil, &bounded.PropertyError{Property: prop, Value: raw, Err: errors.New("need one value per identifier")}
	}
	out := make(map[string]interface{}, len(ids))
	for _, id := range ids {
		out[id] = raw
	}
	return out, nil
}

func (e *Engine) editabilityMap(raw interface{}) (map[string]bool, error) {
	out := make(map[string]bool)
	add := func(id string, v interface{}) error {
		if _, ok := e.set.Index(id); !ok {
			return &bounded.PropertyError{Identifier: id, Property: PropValueEditables, Value: v, Err: bounded.ErrUnknownIdentifier}
		}
		b, err := asBool(PropValueEditables, v)
		if err != nil {
			return err
		}
		out[id] = b
		return nil
	}
	switch m := raw.(type) {
	case map[string]bool:
		for id, v := range m {
			if err := add(id, v); err != nil {
				return nil, err
			}
		}
	case map[string]interface{}:
		for id, v := range m {
			if err := add(id, v); err != nil {
				return nil, err
			}
		}
	default:
		return nil, &bounded.PropertyError{Property: PropValueEditables, Value: raw, Err: errors.New("expected a map of identifier to bool")}
	}
	return out, nil
}

func asBool(prop string, raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, &bounded.PropertyError{Property: prop, Value: raw, Err: err}
		}
		return b, nil
	}
	return false, &bounded.PropertyError{Property: prop, Value: raw, Err: fmt.Errorf("expected bool, got %T", raw)}
}

// SetMinimumValue replaces the raw minimum of id.
func (e *Engine) SetMinimumValue(id string, raw interface{}) error {
	return e.SetMutableProperties(map[string]interface{}{
		bounded.PropMinimum: map[string]interface{}{id: raw},
	})
}

// SetMaximumValue replaces the raw maximum of id.
func (e *Engine) SetMaximumValue(id string, raw interface{}) error {
	return e.SetMutableProperties(map[string]interface{}{
		bounded.PropMaximum: map[string]interface{}{id: raw},
	})
}

// SetMinimumInterval replaces the gap enforced between adjacent values.
func (e *Engine) SetMinimumInterval(raw interface{}) error {
	return e.SetMutableProperties(map[string]interface{}{bounded.PropMinimumInterval: raw})
}

// SetIncrementDelta replaces the step size.
func (e *Engine) SetIncrementDelta(raw interface{}) error {
	return e.SetMutableProperties(map[string]interface{}{bounded.PropIncrementDelta: raw})
}

// SetEditability replaces the per-identifier editability map.
func (e *Engine) SetEditability(m map[string]bool) error {
	return e.SetMutableProperties(map[string]interface{}{PropValueEditables: m})
}

// SetEnabled switches interaction on or off.
func (e *Engine) SetEnabled(enabled bool) error {
	return e.SetMutableProperties(map[string]interface{}{PropEnable: enabled})
}

// SetEditable switches value changes on or off.
func (e *Engine) SetEditable(editable bool) error {
	return e.SetMutableProperties(map[string]interface{}{PropEditable: editable})
}

// SetLocked switches rigid-translation mode on or off.
func (e *Engine) SetLocked(locked bool) { e.set.SetLocked(locked) }

// Locked reports whether moves translate every value rigidly.
func (e *Engine) Locked() bool { return e.set.Locked() }

// MinimumValue returns the raw minimum of id.
func (e *Engine) MinimumValue(id string) numeric.Number { return e.set.RawMinimum(id) }

// MaximumValue returns the raw maximum of id.
func (e *Engine) MaximumValue(id string) numeric.Number { return e.set.RawMaximum(id) }

// MinimumInterval returns the gap enforced between adjacent values.
func (e *Engine) MinimumInterval() numeric.Number { return e.set.MinimumInterval() }

// IncrementDelta returns the step size.
func (e *Engine) IncrementDelta() numeric.Number { return e.set.IncrementDelta() }

// Enabled reports whether interaction is enabled.
func (e *Engine) Enabled() bool { return e.sync.Enabled() }

// Editable reports whether values may be changed by the user.
func (e *Engine) Editable() bool { return e.sync.Editable() }

// IDEditable reports whether id may currently be changed by the user.
func (e *Engine) IDEditable(id string) bool { return e.sync.IDEditable(id) }

// Editability returns a copy of the per-identifier editability map.
func (e *Engine) Editability() map[string]bool { return e.sync.Editability() }
