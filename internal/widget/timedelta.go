package widget

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"megawidget/internal/bounded"
	"megawidget/internal/config"
	"megawidget/internal/display"
	"megawidget/internal/engine"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// TimeDeltaValueID is the identifier of a time delta's value.
const TimeDeltaValueID = "delta"

// TimeDeltaOptions configures a TimeDelta.
type TimeDeltaOptions struct {
	Name            string
	Label           string
	Min, Max, Value time.Duration
	Unit            display.DeltaUnit
	// Precision is the number of fractional unit digits shown and kept.
	// Durations are rounded to it when they enter the widget.
	Precision       int
	ShowScale       bool
	SendEveryChange bool
	Listener        notify.Listener
}

// TimeDelta is a duration held in milliseconds, shown in a display unit and
// stepped one whole unit at a time.
type TimeDelta struct {
	base
	conv      display.DeltaConverter
	showScale bool
}

var (
	_ Widget             = (*TimeDelta)(nil)
	_ SingleBoundedValue = (*TimeDelta)(nil)
)

// NewTimeDelta builds a time delta. The zero Unit means minutes.
func NewTimeDelta(opts TimeDeltaOptions) (*TimeDelta, error) {
	unit := opts.Unit
	if unit.Millis == 0 {
		unit = display.UnitMinutes
	}
	conv := display.DeltaConverter{Unit: unit, Precision: opts.Precision}
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	eng, err := engine.New(engine.Options{
		Name: opts.Name,
		State: bounded.Config{
			IDs:            []string{TimeDeltaValueID},
			Kind:           numeric.KindInt64,
			Minimum:        map[string]interface{}{TimeDeltaValueID: opts.Min.Milliseconds()},
			Maximum:        map[string]interface{}{TimeDeltaValueID: opts.Max.Milliseconds()},
			Values:         map[string]interface{}{TimeDeltaValueID: opts.Value.Milliseconds()},
			IncrementDelta: unit.Millis,
		},
		Converter:       conv,
		SendEveryChange: opts.SendEveryChange,
		Listener:        opts.Listener,
	})
	if err != nil {
		return nil, err
	}
	return &TimeDelta{
		base:      base{name: opts.Name, typ: config.TypeTimeDelta, label: opts.Label, eng: eng},
		conv:      conv,
		showScale: opts.ShowScale,
	}, nil
}

func (d *TimeDelta) HasScale() bool { return d.showScale }
func (d *TimeDelta) Unit() string   { return d.conv.Unit.Name }

func (d *TimeDelta) Format(id string) string {
	v := d.eng.State(id)
	if v == nil {
		return ""
	}
	return d.FormatValue(v)
}

func (d *TimeDelta) FormatValue(v numeric.Number) string { return strconv.FormatFloat(d.conv.InUnits(v), 'f', -1, 64) }

// ParseInput accepts a number of display units or a Go duration string.
func (d *TimeDelta) ParseInput(id, text string) (interface{}, error) {
	text = strings.TrimSpace(text)
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return int64(math.Round(f * float64(d.conv.Unit.Millis))), nil
	}
	dur, err := time.ParseDuration(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is neither a number of %s nor a duration", id, text, d.conv.Unit.Name)
	}
	return dur.Milliseconds(), nil
}

func (d *TimeDelta) Value() numeric.Number { return d.eng.State(TimeDeltaValueID) }

func (d *TimeDelta) SetValue(raw interface{}) error {
	_, err := d.eng.SetState(TimeDeltaValueID, raw)
	return err
}

func (d *TimeDelta) Minimum() numeric.Number { return d.eng.MinimumValue(TimeDeltaValueID) }
func (d *TimeDelta) Maximum() numeric.Number { return d.eng.MaximumValue(TimeDeltaValueID) }

func (d *TimeDelta) SetMinimum(raw interface{}) error {
	return d.eng.SetMinimumValue(TimeDeltaValueID, raw)
}

func (d *TimeDelta) SetMaximum(raw interface{}) error {
	return d.eng.SetMaximumValue(TimeDeltaValueID, raw)
}

// Duration returns the current value.
func (d *TimeDelta) Duration() time.Duration {
	return time.Duration(d.Value().Int64()) * time.Millisecond
}

// InUnits returns the current value in the display unit, fraction kept.
func (d *TimeDelta) InUnits() float64 { return d.conv.InUnits(d.Value()) }
