package trace

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// SpanName is the name of the span recorded per notification.
const SpanName = "megawidget.notify"

// Listener decorates another listener, recording one span per
// notification before forwarding it.
type Listener struct {
	widget string
	tracer oteltrace.Tracer
	next   notify.Listener
}

var _ notify.Listener = (*Listener)(nil)

// NewListener wraps next. A nil tracer records nothing; a nil next drops
// the notification after recording it.
func NewListener(widget string, tracer oteltrace.Tracer, next notify.Listener) *Listener {
	if tracer == nil {
		tracer = (*OTLPExporter)(nil).Tracer()
	}
	return &Listener{widget: widget, tracer: tracer, next: next}
}

// StateChanged implements notify.Listener.
func (l *Listener) StateChanged(id string, value numeric.Number) {
	l.record(map[string]numeric.Number{id: value})
	if l.next != nil {
		l.next.StateChanged(id, value)
	}
}

// StatesChanged implements notify.Listener.
func (l *Listener) StatesChanged(values map[string]numeric.Number) {
	l.record(values)
	if l.next != nil {
		l.next.StatesChanged(values)
	}
}

func (l *Listener) record(values map[string]numeric.Number) {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	attrs := []attribute.KeyValue{
		attribute.String("megawidget.widget", l.widget),
		attribute.StringSlice("megawidget.ids", ids),
		attribute.Int("megawidget.count", len(ids)),
	}
	for _, id := range ids {
		v := values[id]
		attrs = append(attrs, attribute.String("megawidget.value."+id, v.String()))
		if kind := v.Kind(); kind.IsFloat() {
			attrs = append(attrs, attribute.Float64("megawidget.number."+id, v.Float64()))
		} else {
			attrs = append(attrs, attribute.Int64("megawidget.number."+id, v.Int64()))
		}
	}
	_, span := l.tracer.Start(context.Background(), SpanName, oteltrace.WithAttributes(attrs...))
	span.End()
}
