package widget

import (
	"megawidget/internal/bounded"
	"megawidget/internal/config"
	"megawidget/internal/display"
	"megawidget/internal/engine"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// Identifiers of a Range's two values.
const (
	RangeLowerID = "lower"
	RangeUpperID = "upper"
)

// RangeOptions configures a Range. Min and Max apply to both values.
type RangeOptions struct {
	Name            string
	Label           string
	Kind            numeric.Kind
	Min, Max        interface{}
	Lower, Upper    interface{}
	MinimumInterval interface{}
	Increment       interface{}
	Precision       int
	SendEveryChange bool
	Listener        notify.Listener
}

// Range is a pair of ordered values kept at least MinimumInterval apart,
// shown as two steppers and one two-thumb slider.
type Range struct {
	base
	conv display.PrecisionConverter
}

var (
	_ Widget            = (*Range)(nil)
	_ MultiBoundedValue = (*Range)(nil)
)

// NewRange builds a range.
func NewRange(opts RangeOptions) (*Range, error) {
	conv := display.PrecisionConverter{Kind: opts.Kind, Precision: opts.Precision}
	if !opts.Kind.IsFloat() {
		conv.Precision = 0
	}
	inc := opts.Increment
	if inc == nil && conv.Precision > 0 {
		inc = conv.FromStepper(1)
	}
	both := func(v interface{}) map[string]interface{} {
		return map[string]interface{}{RangeLowerID: v, RangeUpperID: v}
	}
	eng, err := engine.New(engine.Options{
		Name: opts.Name,
		State: bounded.Config{
			IDs:             []string{RangeLowerID, RangeUpperID},
			Kind:            opts.Kind,
			Minimum:         both(opts.Min),
			Maximum:         both(opts.Max),
			Values:          map[string]interface{}{RangeLowerID: opts.Lower, RangeUpperID: opts.Upper},
			MinimumInterval: opts.MinimumInterval,
			IncrementDelta:  inc,
		},
		Converter:       conv,
		SendEveryChange: opts.SendEveryChange,
		Listener:        opts.Listener,
	})
	if err != nil {
		return nil, err
	}
	return &Range{
		base: base{name: opts.Name, typ: config.TypeRange, label: opts.Label, eng: eng},
		conv: conv,
	}, nil
}

func (r *Range) HasScale() bool { return true }

func (r *Range) Format(id string) string {
	v := r.eng.State(id)
	if v == nil {
		return ""
	}
	return r.FormatValue(v)
}

func (r *Range) FormatValue(v numeric.Number) string { return r.conv.Format(v) }

func (r *Range) ParseInput(_, text string) (interface{}, error) {
	return numeric.Parse(r.eng.Kind(), text)
}

func (r *Range) IDs() []string                     { return r.eng.IDs() }
func (r *Range) Values() map[string]numeric.Number { return r.eng.States() }
func (r *Range) Lower() numeric.Number             { return r.eng.State(RangeLowerID) }
func (r *Range) Upper() numeric.Number             { return r.eng.State(RangeUpperID) }
func (r *Range) MinimumInterval() numeric.Number   { return r.eng.MinimumInterval() }

func (r *Range) SetValues(raw map[string]interface{}) error {
	_, err := r.eng.SetStates(raw)
	return err
}

func (r *Range) SetMinimumInterval(raw interface{}) error {
	return r.eng.SetMinimumInterval(raw)
}

// SetBounds moves the shared minimum and maximum in one step.
func (r *Range) SetBounds(min, max interface{}) error {
	return r.eng.SetMutableProperties(map[string]interface{}{
		bounded.PropMinimum: min,
		bounded.PropMaximum: max,
	})
}
