// Package notify decides when accepted state changes reach a widget's
// listener.
//
// A Gate configured to send every change reports each non-empty change set
// as it happens. Otherwise it runs a small gesture state machine: the first
// in-gesture (rapid) change captures a snapshot of every value, further
// rapid changes are silent, and gesture completion reports only the
// identifiers whose value differs from the snapshot, once.
package notify

import (
	"megawidget/internal/bounded"
	"megawidget/internal/numeric"
)

// Phase classifies a mutation by where it sits in a user gesture.
type Phase int

const (
	// PhaseEnding is a committed change: a discrete click, Enter, or a
	// programmatic write.
	PhaseEnding Phase = iota
	// PhaseRapid is an intermediate change inside an unfinished gesture
	// such as a drag or key repeat.
	PhaseRapid
)

func (p Phase) String() string {
	if p == PhaseRapid {
		return "rapid"
	}
	return "ending"
}

// Gate coalesces change sets into listener notifications.
type Gate struct {
	sendEvery bool
	listener  Listener
	snapshot  map[string]numeric.Number
	sent      int
}

// NewGate creates a gate. A nil listener discards notifications.
func NewGate(sendEveryChange bool, l Listener) *Gate {
	if l == nil {
		l = noopListener{}
	}
	return &Gate{sendEvery: sendEveryChange, listener: l}
}

// SendsEveryChange reports the mode the gate was built with.
func (g *Gate) SendsEveryChange() bool { return g.sendEvery }

// InGesture reports whether a snapshot is held.
func (g *Gate) InGesture() bool { return g.snapshot != nil }

// Sent returns how many notifications have been delivered.
func (g *Gate) Sent() int { return g.sent }

// Begin enters the gesture-in-progress state, capturing current as the
// snapshot unless one is already held. It does nothing when every change
// is sent.
func (g *Gate) Begin(current map[string]numeric.Number) {
	if g.sendEvery || g.snapshot != nil {
		return
	}
	g.snapshot = copyValues(current)
}

// Record accepts the change set of one propagator call. current holds every
// value after the change.
func (g *Gate) Record(changes bounded.ChangeSet, phase Phase, current map[string]numeric.Number) {
	if g.sendEvery {
		g.notify(changes.Values())
		return
	}
	switch phase {
	case PhaseRapid:
		if g.snapshot == nil && !changes.Empty() {
			// Rebuild the pre-change state from the recorded old values.
			g.snapshot = copyValues(current)
			for _, ch := range changes {
				g.snapshot[ch.ID] = ch.Old
			}
		}
	default:
		if g.snapshot == nil {
			g.notify(changes.Values())
			return
		}
		g.Complete(current)
	}
}

// Complete ends a gesture: identifiers whose value differs from the
// snapshot are reported in one notification and the snapshot is dropped.
// Without a snapshot it does nothing.
func (g *Gate) Complete(current map[string]numeric.Number) {
	if g.snapshot == nil {
		return
	}
	changed := make(map[string]numeric.Number)
	for id, v := range current {
		if old, ok := g.snapshot[id]; !ok || !numeric.Equal(old, v) {
			changed[id] = v
		}
	}
	g.snapshot = nil
	g.notify(changed)
}

func (g *Gate) notify(values map[string]numeric.Number) {
	switch len(values) {
	case 0:
		return
	case 1:
		for id, v := range values {
			g.listener.StateChanged(id, v)
		}
	default:
		g.listener.StatesChanged(values)
	}
	g.sent++
}

func copyValues(m map[string]numeric.Number) map[string]numeric.Number {
	out := make(map[string]numeric.Number, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
