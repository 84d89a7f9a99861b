package widget

import (
	"time"

	"megawidget/internal/bounded"
	"megawidget/internal/config"
	"megawidget/internal/display"
	"megawidget/internal/engine"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

// TimeLayout is how time scale values are shown and typed.
const TimeLayout = "2006-01-02 15:04"

// Thumb is one value of a time scale.
type Thumb struct {
	ID       string
	Value    time.Time
	Editable bool
}

// TimeScaleOptions configures a TimeScale. Every thumb shares Min and Max.
type TimeScaleOptions struct {
	Name            string
	Label           string
	Min, Max        time.Time
	Thumbs          []Thumb
	MinimumInterval time.Duration
	// Locked moves every thumb together.
	Locked          bool
	SendEveryChange bool
	Listener        notify.Listener
}

// TimeScale is an ordered set of instants on one slider. Values are epoch
// milliseconds snapped to whole minutes; the steppers count minutes.
type TimeScale struct {
	base
}

var (
	_ Widget            = (*TimeScale)(nil)
	_ MultiBoundedValue = (*TimeScale)(nil)
)

func millis(t time.Time) int64 { return display.SnapToMinute(t.UnixMilli()) }

// NewTimeScale builds a time scale.
func NewTimeScale(opts TimeScaleOptions) (*TimeScale, error) {
	ids := make([]string, len(opts.Thumbs))
	mins := make(map[string]interface{}, len(opts.Thumbs))
	maxs := make(map[string]interface{}, len(opts.Thumbs))
	vals := make(map[string]interface{}, len(opts.Thumbs))
	editability := make(map[string]bool, len(opts.Thumbs))
	for i, th := range opts.Thumbs {
		ids[i] = th.ID
		mins[th.ID] = millis(opts.Min)
		maxs[th.ID] = millis(opts.Max)
		vals[th.ID] = millis(th.Value)
		editability[th.ID] = th.Editable
	}
	eng, err := engine.New(engine.Options{
		Name: opts.Name,
		State: bounded.Config{
			IDs:             ids,
			Kind:            numeric.KindInt64,
			Minimum:         mins,
			Maximum:         maxs,
			Values:          vals,
			MinimumInterval: opts.MinimumInterval.Milliseconds(),
			IncrementDelta:  display.MillisPerMinute,
			Locked:          opts.Locked,
		},
		Converter:       display.TimeConverter{},
		SendEveryChange: opts.SendEveryChange,
		Listener:        opts.Listener,
	})
	if err != nil {
		return nil, err
	}
	if err := eng.SetEditability(editability); err != nil {
		return nil, err
	}
	return &TimeScale{
		base: base{name: opts.Name, typ: config.TypeTimeScale, label: opts.Label, eng: eng},
	}, nil
}

func (s *TimeScale) HasScale() bool { return true }
func (s *TimeScale) Unit() string   { return "UTC" }

func (s *TimeScale) Format(id string) string {
	v := s.eng.State(id)
	if v == nil {
		return ""
	}
	return s.FormatValue(v)
}

func (s *TimeScale) FormatValue(v numeric.Number) string { return time.UnixMilli(v.Int64()).UTC().Format(TimeLayout) }

func (s *TimeScale) ParseInput(id, text string) (interface{}, error) {
	t, err := config.ParseTime(id, text)
	if err != nil {
		return nil, err
	}
	return millis(t), nil
}

func (s *TimeScale) IDs() []string                     { return s.eng.IDs() }
func (s *TimeScale) Values() map[string]numeric.Number { return s.eng.States() }
func (s *TimeScale) MinimumInterval() numeric.Number   { return s.eng.MinimumInterval() }

func (s *TimeScale) SetValues(raw map[string]interface{}) error {
	_, err := s.eng.SetStates(raw)
	return err
}

func (s *TimeScale) SetMinimumInterval(raw interface{}) error {
	return s.eng.SetMinimumInterval(raw)
}

// Times returns every thumb as a UTC time.
func (s *TimeScale) Times() map[string]time.Time {
	out := make(map[string]time.Time)
	for id, v := range s.eng.States() {
		out[id] = time.UnixMilli(v.Int64()).UTC()
	}
	return out
}

// SetTime moves one thumb, snapping to the minute.
func (s *TimeScale) SetTime(id string, t time.Time) error {
	_, err := s.eng.SetState(id, millis(t))
	return err
}

// Locked reports whether thumbs move together.
func (s *TimeScale) Locked() bool { return s.eng.Locked() }

// SetLocked switches rigid translation on or off.
func (s *TimeScale) SetLocked(locked bool) { s.eng.SetLocked(locked) }

// SetThumbEditable replaces the editability of one thumb.
func (s *TimeScale) SetThumbEditable(id string, editable bool) error {
	m := s.eng.Editability()
	m[id] = editable
	return s.eng.SetEditability(m)
}
