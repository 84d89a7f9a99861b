package widget

import (
	"megawidget/internal/bounded"
	"megawidget/internal/config"
	"megawidget/internal/display"
	"megawidget/internal/engine"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// SpinnerValueID is the identifier of a spinner's single value.
const SpinnerValueID = "value"

// SpinnerOptions configures a Spinner.
type SpinnerOptions struct {
	Name            string
	Label           string
	Kind            numeric.Kind
	Min, Max, Value interface{}
	Increment       interface{}
	// Precision is the number of fractional digits shown and stepped.
	Precision       int
	ShowScale       bool
	SendEveryChange bool
	Listener        notify.Listener
}

// Spinner is a single bounded number with a stepper and an optional slider.
type Spinner struct {
	base
	conv      display.PrecisionConverter
	showScale bool
}

var (
	_ Widget             = (*Spinner)(nil)
	_ SingleBoundedValue = (*Spinner)(nil)
)

// NewSpinner builds a spinner.
func NewSpinner(opts SpinnerOptions) (*Spinner, error) {
	conv := display.PrecisionConverter{Kind: opts.Kind, Precision: opts.Precision}
	if !opts.Kind.IsFloat() {
		conv.Precision = 0
	}
	inc := opts.Increment
	if inc == nil && conv.Precision > 0 {
		// One step moves the last shown digit.
		inc = conv.FromStepper(1)
	}
	eng, err := engine.New(engine.Options{
		Name: opts.Name,
		State: bounded.Config{
			IDs:            []string{SpinnerValueID},
			Kind:           opts.Kind,
			Minimum:        map[string]interface{}{SpinnerValueID: opts.Min},
			Maximum:        map[string]interface{}{SpinnerValueID: opts.Max},
			Values:         map[string]interface{}{SpinnerValueID: opts.Value},
			IncrementDelta: inc,
		},
		Converter:       conv,
		SendEveryChange: opts.SendEveryChange,
		Listener:        opts.Listener,
	})
	if err != nil {
		return nil, err
	}
	return &Spinner{
		base:      base{name: opts.Name, typ: config.TypeSpinner, label: opts.Label, eng: eng},
		conv:      conv,
		showScale: opts.ShowScale,
	}, nil
}

func (s *Spinner) HasScale() bool { return s.showScale }

func (s *Spinner) Format(id string) string {
	v := s.eng.State(id)
	if v == nil {
		return ""
	}
	return s.FormatValue(v)
}

func (s *Spinner) FormatValue(v numeric.Number) string { return s.conv.Format(v) }

func (s *Spinner) ParseInput(_, text string) (interface{}, error) {
	return numeric.Parse(s.eng.Kind(), text)
}

func (s *Spinner) Value() numeric.Number { return s.eng.State(SpinnerValueID) }

func (s *Spinner) SetValue(raw interface{}) error {
	_, err := s.eng.SetState(SpinnerValueID, raw)
	return err
}

func (s *Spinner) Minimum() numeric.Number { return s.eng.MinimumValue(SpinnerValueID) }
func (s *Spinner) Maximum() numeric.Number { return s.eng.MaximumValue(SpinnerValueID) }

func (s *Spinner) SetMinimum(raw interface{}) error {
	return s.eng.SetMinimumValue(SpinnerValueID, raw)
}

func (s *Spinner) SetMaximum(raw interface{}) error {
	return s.eng.SetMaximumValue(SpinnerValueID, raw)
}

// Precision returns the number of fractional digits shown.
func (s *Spinner) Precision() int { return s.conv.Precision }
