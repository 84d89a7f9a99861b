// Package bounded keeps an ordered set of numeric values inside per-value
// bounds and at least a minimum interval apart.
//
// A Set owns the raw bounds declared by configuration, the adjusted
// boundaries derived from them by [Resolve], and the current values. Every
// mutation either commits completely or leaves the Set untouched, and
// reports what it changed as a [ChangeSet].
package bounded

import "megawidget/internal/numeric"

// Config seeds a Set. Minimum, Maximum and Values must hold an entry for
// every identifier. MinimumInterval defaults to zero and IncrementDelta to
// one unit of Kind.
type Config struct {
	IDs             []string
	Kind            numeric.Kind
	Minimum         map[string]interface{}
	Maximum         map[string]interface{}
	Values          map[string]interface{}
	MinimumInterval interface{}
	IncrementDelta  interface{}
	// Locked makes every move translate the whole set rigidly.
	Locked bool
	// Bin rounds every incoming value, bound, interval and increment to
	// the precision the controls can show. Nil keeps values as given.
	Bin func(numeric.Number) numeric.Number
}

// Set is the ordered bounded-value state of one widget.
type Set struct {
	ids      []string
	index    map[string]int
	kind     numeric.Kind
	rawMin   []numeric.Number
	rawMax   []numeric.Number
	interval numeric.Number
	delta    numeric.Number
	bounds   []Boundary
	values   []numeric.Number
	locked   bool
	bin      func(numeric.Number) numeric.Number
}

// New validates cfg and builds a Set whose values satisfy every invariant.
// Initial values outside their adjusted boundary are clamped.
func New(cfg Config) (*Set, error) {
	n := len(cfg.IDs)
	if n == 0 {
		return nil, propertyError("", PropIdentifiers, nil, ErrNoIdentifiers)
	}
	s := &Set{
		ids:    append([]string(nil), cfg.IDs...),
		index:  make(map[string]int, n),
		kind:   cfg.Kind,
		rawMin: make([]numeric.Number, n),
		rawMax: make([]numeric.Number, n),
		values: make([]numeric.Number, n),
		locked: cfg.Locked,
		bin:    cfg.Bin,
	}
	for i, id := range s.ids {
		if _, dup := s.index[id]; dup {
			return nil, propertyError(id, PropIdentifiers, nil, ErrDuplicateIdentifier)
		}
		s.index[id] = i
	}

	var err error
	for i, id := range s.ids {
		if s.rawMin[i], err = s.coerceRequired(id, PropMinimum, cfg.Minimum); err != nil {
			return nil, err
		}
		if s.rawMax[i], err = s.coerceRequired(id, PropMaximum, cfg.Maximum); err != nil {
			return nil, err
		}
		if s.values[i], err = s.coerceRequired(id, PropValues, cfg.Values); err != nil {
			return nil, err
		}
	}

	s.interval = numeric.Zero(s.kind)
	if cfg.MinimumInterval != nil {
		if s.interval, err = s.coerce("", PropMinimumInterval, cfg.MinimumInterval); err != nil {
			return nil, err
		}
	}
	s.delta = numeric.FromInt64(s.kind, 1)
	if cfg.IncrementDelta != nil {
		if s.delta, err = s.coerce("", PropIncrementDelta, cfg.IncrementDelta); err != nil {
			return nil, err
		}
		if s.delta.Cmp(numeric.Zero(s.kind)) <= 0 {
			return nil, propertyError("", PropIncrementDelta, cfg.IncrementDelta, ErrNonPositiveIncrement)
		}
	}

	bounds, err := Resolve(s.ids, s.rawMin, s.rawMax, s.interval)
	if err != nil {
		return nil, err
	}
	s.bounds = bounds
	s.values = s.normalize(s.values)
	return s, nil
}

// IDs returns the identifiers in order.
func (s *Set) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of tracked values.
func (s *Set) Len() int { return len(s.ids) }

// Kind returns the numeric variant of every value in the set.
func (s *Set) Kind() numeric.Kind { return s.kind }

// Index returns the order position of id.
func (s *Set) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Value returns the current value of id, or nil if id is unknown.
func (s *Set) Value(id string) numeric.Number {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.values[i]
}

// Values returns a copy of every current value keyed by identifier.
func (s *Set) Values() map[string]numeric.Number {
	out := make(map[string]numeric.Number, len(s.ids))
	for i, id := range s.ids {
		out[id] = s.values[i]
	}
	return out
}

// Boundary returns the adjusted boundary of id.
func (s *Set) Boundary(id string) (Boundary, bool) {
	i, ok := s.index[id]
	if !ok {
		return Boundary{}, false
	}
	return s.bounds[i], true
}

// RawMinimum returns the declared minimum of id, or nil if id is unknown.
func (s *Set) RawMinimum(id string) numeric.Number {
	if i, ok := s.index[id]; ok {
		return s.rawMin[i]
	}
	return nil
}

// RawMaximum returns the declared maximum of id, or nil if id is unknown.
func (s *Set) RawMaximum(id string) numeric.Number {
	if i, ok := s.index[id]; ok {
		return s.rawMax[i]
	}
	return nil
}

// MinimumInterval returns the gap enforced between adjacent values.
func (s *Set) MinimumInterval() numeric.Number { return s.interval }

// IncrementDelta returns the size of one Step.
func (s *Set) IncrementDelta() numeric.Number { return s.delta }

// Locked reports whether moves translate the whole set rigidly.
func (s *Set) Locked() bool { return s.locked }

// SetLocked switches rigid-translation mode on or off.
func (s *Set) SetLocked(locked bool) { s.locked = locked }

// SetRawMinimum replaces the declared minimum of id, re-resolves every
// boundary and clamps values that fall outside.
func (s *Set) SetRawMinimum(id string, raw interface{}) (ChangeSet, error) {
	return s.SetRawBounds(map[string]interface{}{id: raw}, nil, nil)
}

// SetRawMaximum replaces the declared maximum of id, re-resolves every
// boundary and clamps values that fall outside.
func (s *Set) SetRawMaximum(id string, raw interface{}) (ChangeSet, error) {
	return s.SetRawBounds(nil, map[string]interface{}{id: raw}, nil)
}

// SetRawBounds replaces any subset of the raw minimums, raw maximums and
// the minimum interval in one step, so that a range can be moved past its
// old limits without passing through an inverted state. A nil interval
// keeps the current one.
func (s *Set) SetRawBounds(mins, maxs map[string]interface{}, interval interface{}) (ChangeSet, error) {
	rawMin := append([]numeric.Number(nil), s.rawMin...)
	rawMax := append([]numeric.Number(nil), s.rawMax...)
	for id, raw := range mins {
		i, ok := s.index[id]
		if !ok {
			return nil, propertyError(id, PropMinimum, raw, ErrUnknownIdentifier)
		}
		v, err := s.coerce(id, PropMinimum, raw)
		if err != nil {
			return nil, err
		}
		rawMin[i] = v
	}
	for id, raw := range maxs {
		i, ok := s.index[id]
		if !ok {
			return nil, propertyError(id, PropMaximum, raw, ErrUnknownIdentifier)
		}
		v, err := s.coerce(id, PropMaximum, raw)
		if err != nil {
			return nil, err
		}
		rawMax[i] = v
	}
	for i, id := range s.ids {
		if rawMin[i].Cmp(rawMax[i]) > 0 {
			prop, val := PropMinimum, rawMin[i]
			if _, ok := maxs[id]; ok {
				prop, val = PropMaximum, rawMax[i]
			}
			return nil, propertyError(id, prop, val, ErrInvertedBounds)
		}
	}
	iv := s.interval
	if interval != nil {
		v, err := s.coerce("", PropMinimumInterval, interval)
		if err != nil {
			return nil, err
		}
		if v.Cmp(numeric.Zero(s.kind)) < 0 {
			return nil, propertyError("", PropMinimumInterval, interval, ErrNegativeInterval)
		}
		iv = v
	}
	return s.reconfigure(rawMin, rawMax, iv)
}

// SetMinimumInterval replaces the gap enforced between adjacent values.
func (s *Set) SetMinimumInterval(raw interface{}) (ChangeSet, error) {
	if raw == nil {
		return nil, propertyError("", PropMinimumInterval, nil, ErrMissingValue)
	}
	return s.SetRawBounds(nil, nil, raw)
}

// SetIncrementDelta replaces the size of one Step. No value changes.
func (s *Set) SetIncrementDelta(raw interface{}) error {
	v, err := s.coerce("", PropIncrementDelta, raw)
	if err != nil {
		return err
	}
	if v.Cmp(numeric.Zero(s.kind)) <= 0 {
		return propertyError("", PropIncrementDelta, raw, ErrNonPositiveIncrement)
	}
	s.delta = v
	return nil
}

// Clone returns an independent copy, used to stage several updates that
// must commit together.
func (s *Set) Clone() *Set {
	c := *s
	c.ids = append([]string(nil), s.ids...)
	c.index = make(map[string]int, len(s.index))
	for id, i := range s.index {
		c.index[id] = i
	}
	c.rawMin = append([]numeric.Number(nil), s.rawMin...)
	c.rawMax = append([]numeric.Number(nil), s.rawMax...)
	c.bounds = append([]Boundary(nil), s.bounds...)
	c.values = append([]numeric.Number(nil), s.values...)
	return &c
}

// reconfigure resolves new boundaries and commits them together with the
// normalized values, or commits nothing.
func (s *Set) reconfigure(rawMin, rawMax []numeric.Number, interval numeric.Number) (ChangeSet, error) {
	bounds, err := Resolve(s.ids, rawMin, rawMax, interval)
	if err != nil {
		return nil, err
	}
	s.bounds = bounds
	s.interval = interval
	s.rawMin = append([]numeric.Number(nil), rawMin...)
	s.rawMax = append([]numeric.Number(nil), rawMax...)
	return s.commit(s.normalize(s.values)), nil
}

func (s *Set) coerce(id, prop string, raw interface{}) (numeric.Number, error) {
	v, err := numeric.Coerce(s.kind, raw)
	if err != nil {
		return nil, propertyError(id, prop, raw, err)
	}
	return s.binned(v), nil
}

func (s *Set) binned(v numeric.Number) numeric.Number {
	if s.bin == nil {
		return v
	}
	return s.bin(v)
}

func (s *Set) coerceRequired(id, prop string, m map[string]interface{}) (numeric.Number, error) {
	raw, ok := m[id]
	if !ok {
		return nil, propertyError(id, prop, nil, ErrMissingValue)
	}
	return s.coerce(id, prop, raw)
}

// commit stores next and returns what differs from the previous values.
// Values derived by arithmetic are binned again to drop float drift.
func (s *Set) commit(next []numeric.Number) ChangeSet {
	for i, v := range next {
		next[i] = s.binned(v)
	}
	changes := diff(s.ids, s.values, next)
	s.values = next
	return changes
}
