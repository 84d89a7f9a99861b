package widget

import (
	"fmt"
	"time"

	"megawidget/internal/config"
	"megawidget/internal/display"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// FromSpec builds the widget a spec declares. sendEvery is the form-wide
// notification default.
func FromSpec(spec config.WidgetSpec, sendEvery bool, l notify.Listener) (Widget, error) {
	w, err := build(spec, spec.SendsEveryChange(sendEvery), l)
	if err != nil {
		return nil, fmt.Errorf("widget %q: %w", spec.Name, err)
	}
	if b, ok := w.(interface {
		applyAccess(enabled, editable *bool) error
	}); ok {
		if err := b.applyAccess(spec.Enabled, spec.Editable); err != nil {
			return nil, fmt.Errorf("widget %q: %w", spec.Name, err)
		}
	}
	return w, nil
}

func build(spec config.WidgetSpec, sendEvery bool, l notify.Listener) (Widget, error) {
	switch spec.Type {
	case config.TypeSpinner:
		kind, err := numeric.ParseKind(spec.Kind)
		if err != nil {
			return nil, err
		}
		return NewSpinner(SpinnerOptions{
			Name: spec.Name, Label: spec.Label, Kind: kind,
			Min: spec.Min, Max: spec.Max, Value: spec.Value,
			Increment: spec.Increment, Precision: spec.Precision,
			ShowScale: spec.ShowScale, SendEveryChange: sendEvery, Listener: l,
		})

	case config.TypeRange:
		kind, err := numeric.ParseKind(spec.Kind)
		if err != nil {
			return nil, err
		}
		return NewRange(RangeOptions{
			Name: spec.Name, Label: spec.Label, Kind: kind,
			Min: spec.Min, Max: spec.Max, Lower: spec.Lower, Upper: spec.Upper,
			MinimumInterval: spec.MinimumInterval, Increment: spec.Increment,
			Precision: spec.Precision, SendEveryChange: sendEvery, Listener: l,
		})

	case config.TypeTimeScale:
		min, err := config.ParseTime("min", spec.Min)
		if err != nil {
			return nil, err
		}
		max, err := config.ParseTime("max", spec.Max)
		if err != nil {
			return nil, err
		}
		var interval time.Duration
		if spec.MinimumInterval != nil {
			if interval, err = config.ParseDuration("minimumInterval", spec.MinimumInterval); err != nil {
				return nil, err
			}
		}
		thumbs := make([]Thumb, len(spec.Thumbs))
		for i, th := range spec.Thumbs {
			t, err := config.ParseTime(th.ID, th.Value)
			if err != nil {
				return nil, err
			}
			thumbs[i] = Thumb{ID: th.ID, Value: t, Editable: th.Editable == nil || *th.Editable}
		}
		return NewTimeScale(TimeScaleOptions{
			Name: spec.Name, Label: spec.Label, Min: min, Max: max,
			Thumbs: thumbs, MinimumInterval: interval, Locked: spec.Locked,
			SendEveryChange: sendEvery, Listener: l,
		})

	case config.TypeTimeDelta:
		var durs [3]time.Duration
		for i, f := range []struct {
			name string
			raw  interface{}
		}{{"min", spec.Min}, {"max", spec.Max}, {"value", spec.Value}} {
			d, err := config.ParseDuration(f.name, f.raw)
			if err != nil {
				return nil, err
			}
			durs[i] = d
		}
		unit := display.UnitMinutes
		if spec.Unit != "" {
			u, err := display.ParseDeltaUnit(spec.Unit)
			if err != nil {
				return nil, err
			}
			unit = u
		}
		return NewTimeDelta(TimeDeltaOptions{
			Name: spec.Name, Label: spec.Label,
			Min: durs[0], Max: durs[1], Value: durs[2], Unit: unit,
			Precision: spec.Precision, ShowScale: spec.ShowScale, SendEveryChange: sendEvery, Listener: l,
		})
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownType, spec.Type)
}
