package bounded

import "megawidget/internal/numeric"

// Change records one identifier's value before and after an accepted mutation.
type Change struct {
	ID  string
	Old numeric.Number
	New numeric.Number
}

// ChangeSet lists the identifiers changed by one call, in identifier order.
// An empty ChangeSet means the call changed nothing.
type ChangeSet []Change

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// IDs returns the changed identifiers in order.
func (c ChangeSet) IDs() []string {
	if len(c) == 0 {
		return nil
	}
	out := make([]string, len(c))
	for i, ch := range c {
		out[i] = ch.ID
	}
	return out
}

// Values returns the new value of every changed identifier.
func (c ChangeSet) Values() map[string]numeric.Number {
	out := make(map[string]numeric.Number, len(c))
	for _, ch := range c {
		out[ch.ID] = ch.New
	}
	return out
}

// Contains reports whether id changed.
func (c ChangeSet) Contains(id string) bool {
	for _, ch := range c {
		if ch.ID == id {
			return true
		}
	}
	return false
}

func diff(ids []string, before, after []numeric.Number) ChangeSet {
	var out ChangeSet
	for i, id := range ids {
		if !numeric.Equal(before[i], after[i]) {
			out = append(out, Change{ID: id, Old: before[i], New: after[i]})
		}
	}
	return out
}

// Compare builds the ChangeSet between two value maps, in ids order.
func Compare(ids []string, before, after map[string]numeric.Number) ChangeSet {
	b := make([]numeric.Number, len(ids))
	a := make([]numeric.Number, len(ids))
	for i, id := range ids {
		b[i], a[i] = before[id], after[id]
	}
	return diff(ids, b, a)
}
