package notify

import (
	"time"

	"megawidget/internal/numeric"
)

// Listener receives committed state changes from a Gate. A notification
// touching one identifier arrives through StateChanged; one touching
// several arrives as a single StatesChanged call.
type Listener interface {
	StateChanged(id string, value numeric.Number)
	StatesChanged(values map[string]numeric.Number)
}

// ListenerFunc adapts a function to Listener. Single-value notifications
// are delivered as a one-entry map.
type ListenerFunc func(values map[string]numeric.Number)

// StateChanged implements Listener.
func (f ListenerFunc) StateChanged(id string, value numeric.Number) {
	if f != nil {
		f(map[string]numeric.Number{id: value})
	}
}

// StatesChanged implements Listener.
func (f ListenerFunc) StatesChanged(values map[string]numeric.Number) {
	if f != nil {
		f(values)
	}
}

type noopListener struct{}

func (noopListener) StateChanged(string, numeric.Number)     {}
func (noopListener) StatesChanged(map[string]numeric.Number) {}

// Notification is one delivered change, as carried by ChanListener.
type Notification struct {
	Widget    string
	Values    map[string]numeric.Number
	Timestamp time.Time
}

// ChanListener forwards notifications to a channel for a consumer on
// another loop, such as a log panel.
type ChanListener struct {
	Widget string
	Ch     chan<- Notification
}

var _ Listener = (*ChanListener)(nil)

// StateChanged implements Listener.
func (l *ChanListener) StateChanged(id string, value numeric.Number) {
	l.emit(map[string]numeric.Number{id: value})
}

// StatesChanged implements Listener.
func (l *ChanListener) StatesChanged(values map[string]numeric.Number) {
	l.emit(values)
}

// emit sends without blocking; the notification is dropped if the channel
// is full so a slow consumer never stalls the event loop.
func (l *ChanListener) emit(values map[string]numeric.Number) {
	n := Notification{Widget: l.Widget, Values: values, Timestamp: time.Now()}
	select {
	case l.Ch <- n:
	default:
	}
}

// MultiListener fans notifications out to several listeners. Nil
// listeners are skipped.
type MultiListener struct {
	listeners []Listener
}

var _ Listener = (*MultiListener)(nil)

// NewMultiListener filters out nil entries.
func NewMultiListener(listeners ...Listener) *MultiListener {
	filtered := make([]Listener, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			filtered = append(filtered, l)
		}
	}
	return &MultiListener{listeners: filtered}
}

// StateChanged implements Listener.
func (m *MultiListener) StateChanged(id string, value numeric.Number) {
	for _, l := range m.listeners {
		l.StateChanged(id, value)
	}
}

// StatesChanged implements Listener.
func (m *MultiListener) StatesChanged(values map[string]numeric.Number) {
	for _, l := range m.listeners {
		l.StatesChanged(values)
	}
}
