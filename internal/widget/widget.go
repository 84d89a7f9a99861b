// Package widget provides the concrete parameter widgets. Each one owns an
// engine.Engine and exposes the capability interfaces it supports.
package widget

import (
	"megawidget/internal/engine"
	"megawidget/internal/numeric"
)

// Editable is implemented by widgets whose values can be made read-only.
type Editable interface {
	Editable() bool
	SetEditable(editable bool) error
}

// Enableable is implemented by widgets that can be disabled.
type Enableable interface {
	Enabled() bool
	SetEnabled(enabled bool) error
}

// SingleBoundedValue is a widget holding exactly one bounded value.
type SingleBoundedValue interface {
	Value() numeric.Number
	SetValue(raw interface{}) error
	Minimum() numeric.Number
	Maximum() numeric.Number
	SetMinimum(raw interface{}) error
	SetMaximum(raw interface{}) error
}

// MultiBoundedValue is a widget holding an ordered set of bounded values.
type MultiBoundedValue interface {
	IDs() []string
	Values() map[string]numeric.Number
	SetValues(raw map[string]interface{}) error
	MinimumInterval() numeric.Number
	SetMinimumInterval(raw interface{}) error
}

// Widget is what the form front end needs from every widget.
type Widget interface {
	Editable
	Enableable
	Name() string
	Type() string
	Label() string
	Engine() *engine.Engine
	// HasScale reports whether a slider is shown next to the steppers.
	HasScale() bool
	// Format renders the current value of id for display.
	Format(id string) string
	// FormatValue renders any value of the widget the way Format does.
	FormatValue(v numeric.Number) string
	// ParseInput reads typed text into a raw value for engine.SetState.
	ParseInput(id, text string) (interface{}, error)
	// Unit names the stepper's display unit, or "".
	Unit() string
}

// base carries the parts every widget shares.
type base struct {
	name  string
	typ   string
	label string
	eng   *engine.Engine
}

func (b *base) Name() string             { return b.name }
func (b *base) Type() string             { return b.typ }
func (b *base) Engine() *engine.Engine   { return b.eng }
func (b *base) Editable() bool           { return b.eng.Editable() }
func (b *base) SetEditable(e bool) error { return b.eng.SetEditable(e) }
func (b *base) Enabled() bool            { return b.eng.Enabled() }
func (b *base) SetEnabled(e bool) error  { return b.eng.SetEnabled(e) }
func (b *base) Unit() string             { return "" }

func (b *base) Label() string {
	if b.label != "" {
		return b.label
	}
	return b.name
}

// applyAccess sets the initial enabled and editable state. Nil leaves the
// engine default.
func (b *base) applyAccess(enabled, editable *bool) error {
	props := make(map[string]interface{})
	if enabled != nil {
		props[engine.PropEnable] = *enabled
	}
	if editable != nil {
		props[engine.PropEditable] = *editable
	}
	if len(props) == 0 {
		return nil
	}
	return b.eng.SetMutableProperties(props)
}
