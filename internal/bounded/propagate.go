package bounded

import "megawidget/internal/numeric"

// SetState proposes a new value for id.
//
// The value is clamped into id's adjusted boundary. If that leaves it equal
// to the current value the call is a no-op and returns an empty ChangeSet.
// Otherwise neighbors that would end up closer than the minimum interval are
// pushed away: the successor up to value+interval, the predecessor down to
// value-interval, continuing along the chain while the next pair is short.
//
// In locked mode the whole set is translated instead; see SetStates.
func (s *Set) SetState(id string, v numeric.Number) (ChangeSet, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, propertyError(id, PropValues, v, ErrUnknownIdentifier)
	}
	val, err := s.coerce(id, PropValues, v)
	if err != nil {
		return nil, err
	}
	if s.locked {
		return s.translate(i, val), nil
	}

	val = s.bounds[i].Clamp(val)
	if numeric.Equal(val, s.values[i]) {
		return nil, nil
	}

	next := append([]numeric.Number(nil), s.values...)
	next[i] = val
	for j := i + 1; j < len(next); j++ {
		if next[j].Sub(next[j-1]).Cmp(s.interval) >= 0 {
			break
		}
		next[j] = s.bounds[j].Clamp(next[j-1].Add(s.interval))
	}
	for j := i - 1; j >= 0; j-- {
		if next[j+1].Sub(next[j]).Cmp(s.interval) >= 0 {
			break
		}
		next[j] = s.bounds[j].Clamp(next[j+1].Sub(s.interval))
	}
	return s.commit(next), nil
}

// SetStates proposes new values for several identifiers at once, as when a
// multi-thumb slider moves more than one thumb in a single event.
// Identifiers not present in vals keep their proposed current value.
//
// Each proposal is clamped into its own adjusted boundary, then adjacent
// pairs closer than the minimum interval are repaired by shifting the later
// value forward by the deficit. The call either validates every entry or
// changes nothing.
//
// In locked mode the lowest-ordered identifier whose proposal differs from
// its current value becomes the anchor and the whole set is translated by
// the anchor's delta; if any translated value would leave its boundary the
// translation is rejected and an empty ChangeSet returned. Every other
// supplied value must equal its translated position, otherwise the batch
// fails with ErrBrokenTranslation.
func (s *Set) SetStates(vals map[string]numeric.Number) (ChangeSet, error) {
	next := append([]numeric.Number(nil), s.values...)
	supplied := make([]bool, len(s.ids))
	for id, v := range vals {
		i, ok := s.index[id]
		if !ok {
			return nil, propertyError(id, PropValues, v, ErrUnknownIdentifier)
		}
		val, err := s.coerce(id, PropValues, v)
		if err != nil {
			return nil, err
		}
		next[i] = val
		supplied[i] = true
	}

	if s.locked {
		anchor := -1
		for i := range next {
			if supplied[i] && !numeric.Equal(next[i], s.values[i]) {
				anchor = i
				break
			}
		}
		if anchor < 0 {
			return nil, nil
		}
		delta := next[anchor].Sub(s.values[anchor])
		for i := range next {
			if supplied[i] && !numeric.Equal(next[i], s.binned(s.values[i].Add(delta))) {
				return nil, propertyError(s.ids[i], PropValues, next[i], ErrBrokenTranslation)
			}
		}
		return s.translate(anchor, next[anchor]), nil
	}
	return s.commit(s.normalize(next)), nil
}

// Step moves id by n increments (negative n moves down).
func (s *Set) Step(id string, n int64) (ChangeSet, error) {
	cur := s.Value(id)
	if cur == nil {
		return nil, propertyError(id, PropValues, nil, ErrUnknownIdentifier)
	}
	return s.SetState(id, cur.Add(s.delta.Mul(n)))
}

// translate moves every value by the delta that takes values[anchor] to v.
// The move is all-or-nothing.
func (s *Set) translate(anchor int, v numeric.Number) ChangeSet {
	delta := v.Sub(s.values[anchor])
	if delta.Cmp(numeric.Zero(s.kind)) == 0 {
		return nil
	}
	next := make([]numeric.Number, len(s.values))
	for i, cur := range s.values {
		next[i] = cur.Add(delta)
		if !s.bounds[i].Contains(next[i]) {
			return nil
		}
	}
	return s.commit(next)
}

// normalize clamps proposals into their boundaries and restores the minimum
// interval between neighbors. A forward pass shifts later values up by any
// deficit; a backward pass pulls earlier values down when a shifted value
// had to be clamped at its maximum.
func (s *Set) normalize(proposed []numeric.Number) []numeric.Number {
	out := make([]numeric.Number, len(proposed))
	for i, v := range proposed {
		out[i] = s.bounds[i].Clamp(v)
	}
	for i := 1; i < len(out); i++ {
		if out[i].Sub(out[i-1]).Cmp(s.interval) < 0 {
			out[i] = numeric.Min(out[i-1].Add(s.interval), s.bounds[i].Max)
		}
	}
	for i := len(out) - 2; i >= 0; i-- {
		if out[i+1].Sub(out[i]).Cmp(s.interval) < 0 {
			out[i] = numeric.Max(out[i+1].Sub(s.interval), s.bounds[i].Min)
		}
	}
	return out
}
