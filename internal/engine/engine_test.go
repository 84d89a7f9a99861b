package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"megawidget/internal/bounded"
	"megawidget/internal/display"
	"megawidget/internal/engine"
	"megawidget/internal/notify"
	"megawidget/internal/numeric"
)

type stepper struct {
	value    int64
	min, max int64
	enabled  bool
	editable bool
	onSet    func()
}

func (s *stepper) SetValue(n int64) error {
	s.value = n
	if s.onSet != nil {
		s.onSet()
	}
	return nil
}
func (s *stepper) SetRange(min, max int64) { s.min, s.max = min, max }
func (s *stepper) SetEnabled(e bool)       { s.enabled = e }
func (s *stepper) SetEditable(e bool)      { s.editable = e }

type slider struct {
	thumbs   map[int]int64
	thumbEd  map[int]bool
	min, max int64
	enabled  bool
}

func newSlider() *slider { return &slider{thumbs: map[int]int64{}, thumbEd: map[int]bool{}} }

func (s *slider) SetThumbValue(i int, n int64) error { s.thumbs[i] = n; return nil }
func (s *slider) SetThumbEditable(i int, e bool)     { s.thumbEd[i] = e }
func (s *slider) SetRange(min, max int64)            { s.min, s.max = min, max }
func (s *slider) SetEnabled(e bool)                  { s.enabled = e }
func (s *slider) SetEditable(bool)                   {}

type recorder struct {
	got []map[string]numeric.Number
}

func (r *recorder) StateChanged(id string, v numeric.Number) {
	r.got = append(r.got, map[string]numeric.Number{id: v})
}
func (r *recorder) StatesChanged(m map[string]numeric.Number) { r.got = append(r.got, m) }

func i64(kv ...interface{}) map[string]numeric.Number {
	out := map[string]numeric.Number{}
	for i := 0; i < len(kv); i += 2 {
		out[kv[i].(string)] = numeric.Int64(int64(kv[i+1].(int)))
	}
	return out
}

// RangeSuite drives a two-value range with steppers and a shared slider.
type RangeSuite struct {
	suite.Suite
	eng    *engine.Engine
	rec    *recorder
	lower  *stepper
	upper  *stepper
	slider *slider
}

func (s *RangeSuite) SetupTest() {
	s.rec = &recorder{}
	eng, err := engine.New(engine.Options{
		Name: "range",
		State: bounded.Config{
			IDs:             []string{"lower", "upper"},
			Kind:            numeric.KindInt64,
			Minimum:         map[string]interface{}{"lower": 0, "upper": 0},
			Maximum:         map[string]interface{}{"lower": 100, "upper": 100},
			Values:          map[string]interface{}{"lower": 20, "upper": 80},
			MinimumInterval: 5,
		},
		Listener: s.rec,
	})
	s.Require().NoError(err)
	s.eng = eng
	s.lower, s.upper, s.slider = &stepper{}, &stepper{}, newSlider()
	s.Require().NoError(eng.Bind(display.Binding{ID: "lower", Stepper: s.lower, Slider: s.slider, Thumb: 0}))
	s.Require().NoError(eng.Bind(display.Binding{ID: "upper", Stepper: s.upper, Slider: s.slider, Thumb: 1}))
}

func (s *RangeSuite) TestBindRendersValuesAndRanges() {
	s.Equal(int64(20), s.lower.value)
	s.Equal(int64(80), s.upper.value)
	s.Equal(int64(80), s.slider.thumbs[1])
	s.Equal([2]int64{0, 95}, [2]int64{s.lower.min, s.lower.max})
	s.Equal([2]int64{5, 100}, [2]int64{s.upper.min, s.upper.max})
	s.Equal([2]int64{0, 100}, [2]int64{s.slider.min, s.slider.max})
	s.True(s.lower.enabled)
	s.True(s.slider.thumbEd[0])
}

func (s *RangeSuite) TestStepperPushesNeighbor() {
	s.Require().NoError(s.eng.OnStepperChanged("lower", 79, notify.PhaseEnding))

	s.Equal(i64("lower", 79, "upper", 84), s.eng.States())
	s.Equal(int64(84), s.upper.value)
	s.Equal(int64(84), s.slider.thumbs[1])
	s.Require().Len(s.rec.got, 1)
	s.Equal(i64("lower", 79, "upper", 84), s.rec.got[0])
}

func (s *RangeSuite) TestClampedInputIsRerendered() {
	s.Require().NoError(s.eng.OnStepperChanged("upper", 500, notify.PhaseEnding))
	s.Equal(int64(100), s.upper.value)
	s.Equal(i64("upper", 100), s.rec.got[0])
}

func (s *RangeSuite) TestReentrantCallbacksAreIgnored() {
	s.upper.onSet = func() {
		s.NoError(s.eng.OnStepperChanged("upper", 7, notify.PhaseEnding))
	}
	s.Require().NoError(s.eng.OnStepperChanged("lower", 79, notify.PhaseEnding))
	s.Equal(numeric.Int64(84), s.eng.State("upper"))
	s.Len(s.rec.got, 1)
}

func (s *RangeSuite) TestReadOnlyIdentifierRestoresDisplay() {
	s.Require().NoError(s.eng.SetEditability(map[string]bool{"upper": false}))
	s.False(s.upper.editable)
	s.False(s.slider.thumbEd[1])
	s.True(s.slider.thumbEd[0])

	s.upper.value = 90
	s.Require().NoError(s.eng.OnStepperChanged("upper", 90, notify.PhaseEnding))
	s.Equal(int64(80), s.upper.value)
	s.Empty(s.rec.got)

	s.Require().NoError(s.eng.OnSliderChanged(map[string]int64{"upper": 95}, notify.PhaseRapid))
	s.Equal(int64(80), s.slider.thumbs[1])
	s.False(s.eng.InGesture())
}

func (s *RangeSuite) TestSliderGestureReportsOnce() {
	s.eng.OnGestureStart()
	for _, n := range []int64{30, 40, 50} {
		s.Require().NoError(s.eng.OnSliderChanged(map[string]int64{"lower": n}, notify.PhaseRapid))
	}
	s.Empty(s.rec.got)
	s.Equal(int64(50), s.lower.value)

	s.Require().NoError(s.eng.OnGestureComplete())
	s.Require().Len(s.rec.got, 1)
	s.Equal(i64("lower", 50), s.rec.got[0])
}

func (s *RangeSuite) TestDisableDuringGestureReconcilesOnce() {
	s.Require().NoError(s.eng.OnSliderChanged(map[string]int64{"upper": 60}, notify.PhaseRapid))
	s.True(s.eng.InGesture())

	s.Require().NoError(s.eng.SetEnabled(false))
	s.False(s.eng.InGesture())
	s.Require().Len(s.rec.got, 1)
	s.Equal(i64("upper", 60), s.rec.got[0])
	s.False(s.lower.enabled)
	s.False(s.slider.enabled)

	s.Require().NoError(s.eng.OnStepperChanged("lower", 10, notify.PhaseEnding))
	s.Equal(numeric.Int64(20), s.eng.State("lower"))
}

func (s *RangeSuite) TestStepRapidThenComplete() {
	_, err := s.eng.Step("lower", 3, notify.PhaseRapid)
	s.Require().NoError(err)
	_, err = s.eng.Step("lower", 2, notify.PhaseRapid)
	s.Require().NoError(err)
	s.Empty(s.rec.got)
	s.Require().NoError(s.eng.OnGestureComplete())
	s.Equal([]map[string]numeric.Number{i64("lower", 25)}, s.rec.got)
}

func (s *RangeSuite) TestProgrammaticSetStateCoerces() {
	changes, err := s.eng.SetState("lower", "30")
	s.Require().NoError(err)
	s.Equal([]string{"lower"}, changes.IDs())
	s.Equal(int64(30), s.lower.value)

	_, err = s.eng.SetState("lower", "thirty")
	s.ErrorIs(err, numeric.ErrNotNumeric)
	_, err = s.eng.SetState("middle", 1)
	s.ErrorIs(err, bounded.ErrUnknownIdentifier)
	s.Equal(numeric.Int64(30), s.eng.State("lower"))
}

func (s *RangeSuite) TestSetStatesBatch() {
	changes, err := s.eng.SetStates(map[string]interface{}{"lower": 50, "upper": 52})
	s.Require().NoError(err)
	s.Len(changes, 2)
	s.Equal(i64("lower", 50, "upper", 55), s.eng.States())
	s.Equal(int64(55), s.upper.value)
}

func (s *RangeSuite) TestMaximumChangeClampsAndResyncsRanges() {
	s.Require().NoError(s.eng.SetMaximumValue("upper", 60))
	s.Equal(numeric.Int64(60), s.eng.State("upper"))
	s.Equal(numeric.Int64(60), s.eng.MaximumValue("upper"))
	s.Equal(int64(55), s.lower.max)
	s.Equal(int64(60), s.slider.max)
	s.Equal([]map[string]numeric.Number{i64("upper", 60)}, s.rec.got)
}

func (s *RangeSuite) TestBulkUpdateIsAtomic() {
	err := s.eng.SetMutableProperties(map[string]interface{}{
		bounded.PropMinimum: 10,
		bounded.PropMaximum: map[string]interface{}{"upper": 5},
	})
	var pe *bounded.PropertyError
	s.Require().ErrorAs(err, &pe)
	s.Equal("upper", pe.Identifier)
	s.Equal(numeric.Int64(0), s.eng.MinimumValue("lower"))
	s.Equal(i64("lower", 20, "upper", 80), s.eng.States())
	s.Empty(s.rec.got)

	err = s.eng.SetMutableProperties(map[string]interface{}{"colour": "red"})
	s.ErrorIs(err, engine.ErrUnknownProperty)

	err = s.eng.SetMutableProperties(map[string]interface{}{
		bounded.PropMaximum: 200,
		engine.PropEnable:   true,
		bounded.PropValues:  map[string]interface{}{"lower": 150, "upper": "x"},
	})
	s.ErrorIs(err, numeric.ErrNotNumeric)
	s.Equal(numeric.Int64(100), s.eng.MaximumValue("upper"))
}

func (s *RangeSuite) TestBulkUpdateAppliesValuesAfterBounds() {
	err := s.eng.SetMutableProperties(map[string]interface{}{
		bounded.PropValues:         map[string]interface{}{"lower": 150, "upper": 190},
		bounded.PropMaximum:        200,
		bounded.PropIncrementDelta: 10,
		engine.PropValueEditables:  map[string]interface{}{"lower": false},
	})
	s.Require().NoError(err)
	s.Equal(i64("lower", 150, "upper", 190), s.eng.States())
	s.Equal(numeric.Int64(10), s.eng.IncrementDelta())
	s.False(s.eng.IDEditable("lower"))
	s.Equal(int64(195), s.lower.max)
	s.Require().Len(s.rec.got, 1)
	s.Equal(i64("lower", 150, "upper", 190), s.rec.got[0])
}

func (s *RangeSuite) TestMinimumIntervalChange() {
	s.Require().NoError(s.eng.SetMinimumInterval(70))
	s.Equal(numeric.Int64(70), s.eng.MinimumInterval())
	s.Equal(i64("lower", 20, "upper", 90), s.eng.States())

	err := s.eng.SetMinimumInterval(150)
	s.ErrorIs(err, bounded.ErrUnsatisfiable)
	s.Equal(numeric.Int64(70), s.eng.MinimumInterval())
}

func TestRangeSuite(t *testing.T) {
	suite.Run(t, new(RangeSuite))
}

func newThumbs(t *testing.T, l notify.Listener) (*engine.Engine, *slider) {
	t.Helper()
	eng, err := engine.New(engine.Options{
		Name: "scale",
		State: bounded.Config{
			IDs:             []string{"t0", "t1", "t2"},
			Kind:            numeric.KindInt64,
			Minimum:         map[string]interface{}{"t0": 0, "t1": 0, "t2": 0},
			Maximum:         map[string]interface{}{"t0": 130, "t1": 130, "t2": 130},
			Values:          map[string]interface{}{"t0": 0, "t1": 60, "t2": 120},
			MinimumInterval: 10,
			Locked:          true,
		},
		Listener: l,
	})
	require.NoError(t, err)
	sl := newSlider()
	for i, id := range eng.IDs() {
		require.NoError(t, eng.Bind(display.Binding{ID: id, Slider: sl, Thumb: i}))
	}
	return eng, sl
}

// TestLockedTranslationRejected moves the first thumb by +15, which would
// push the last one past its maximum.
func TestLockedTranslationRejected(t *testing.T) {
	rec := &recorder{}
	eng, sl := newThumbs(t, rec)

	require.NoError(t, eng.OnSliderChanged(map[string]int64{"t0": 15}, notify.PhaseRapid))
	assert.Equal(t, i64("t0", 0, "t1", 60, "t2", 120), eng.States())
	assert.Equal(t, int64(0), sl.thumbs[0], "rejected thumb snaps back")

	require.NoError(t, eng.OnGestureComplete())
	assert.Empty(t, rec.got)
}

func TestLockedTranslationAccepted(t *testing.T) {
	rec := &recorder{}
	eng, sl := newThumbs(t, rec)

	require.NoError(t, eng.OnSliderChanged(map[string]int64{"t1": 65}, notify.PhaseEnding))
	assert.Equal(t, i64("t0", 5, "t1", 65, "t2", 125), eng.States())
	assert.Equal(t, int64(125), sl.thumbs[2])
	require.Len(t, rec.got, 1)
	assert.Len(t, rec.got[0], 3)
}

func TestLockedBatchRejectsReshape(t *testing.T) {
	rec := &recorder{}
	eng, sl := newThumbs(t, rec)

	_, err := eng.SetStates(map[string]interface{}{"t0": 100, "t1": 130, "t2": 290})
	require.ErrorIs(t, err, bounded.ErrBrokenTranslation)
	err = eng.SetMutableProperties(map[string]interface{}{bounded.PropValues: map[string]interface{}{"t0": 5, "t1": 60}})
	require.ErrorIs(t, err, bounded.ErrBrokenTranslation)
	assert.Equal(t, i64("t0", 0, "t1", 60, "t2", 120), eng.States())
	assert.Empty(t, rec.got)

	_, err = eng.SetStates(map[string]interface{}{"t0": 5, "t1": 65, "t2": 125})
	require.NoError(t, err)
	assert.Equal(t, int64(125), sl.thumbs[2])
	require.Len(t, rec.got, 1)
}

// TestBinsToConverterPrecision writes values finer than one stepper count
// and expects the bound stepper and the state to agree.
func TestBinsToConverterPrecision(t *testing.T) {
	conv := display.PrecisionConverter{Kind: numeric.KindFloat64, Precision: 1}
	eng, err := engine.New(engine.Options{
		State: bounded.Config{
			IDs:     []string{"x"},
			Kind:    numeric.KindFloat64,
			Minimum: map[string]interface{}{"x": 0.0},
			Maximum: map[string]interface{}{"x": 10.0},
			Values:  map[string]interface{}{"x": 1.25},
		},
		Converter: conv,
	})
	require.NoError(t, err)
	st := &stepper{}
	require.NoError(t, eng.Bind(display.Binding{ID: "x", Stepper: st}))
	assert.Equal(t, numeric.Float64(1.3), eng.State("x"))
	assert.Equal(t, eng.State("x"), conv.FromStepper(st.value))

	_, err = eng.SetState("x", "3.14159")
	require.NoError(t, err)
	assert.Equal(t, numeric.Float64(3.1), eng.State("x"))
	assert.Equal(t, int64(31), st.value)

	require.NoError(t, eng.OnStepperChanged("x", st.value+1, notify.PhaseEnding))
	assert.Equal(t, numeric.Float64(3.2), eng.State("x"))
}

func TestSendEveryChange(t *testing.T) {
	var got []map[string]numeric.Number
	eng, err := engine.New(engine.Options{
		State: bounded.Config{
			IDs:     []string{"x"},
			Kind:    numeric.KindFloat64,
			Minimum: map[string]interface{}{"x": 0.0},
			Maximum: map[string]interface{}{"x": 10.0},
			Values:  map[string]interface{}{"x": 1.5},
		},
		Converter:       display.PrecisionConverter{Kind: numeric.KindFloat64, Precision: 1},
		SendEveryChange: true,
		Listener:        notify.ListenerFunc(func(v map[string]numeric.Number) { got = append(got, v) }),
	})
	require.NoError(t, err)
	st := &stepper{}
	require.NoError(t, eng.Bind(display.Binding{ID: "x", Stepper: st}))
	assert.Equal(t, int64(15), st.value)
	assert.Equal(t, [2]int64{0, 100}, [2]int64{st.min, st.max})

	for _, n := range []int64{16, 17, 18} {
		require.NoError(t, eng.OnStepperChanged("x", n, notify.PhaseRapid))
	}
	require.NoError(t, eng.OnGestureComplete())
	require.Len(t, got, 3)
	assert.Equal(t, numeric.Float64(1.8), got[2]["x"])

	require.NoError(t, eng.SetMutableProperties(map[string]interface{}{bounded.PropValues: 2.5}))
	assert.Equal(t, int64(25), st.value)
	assert.Len(t, got, 4)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := engine.New(engine.Options{
		Name: "bad",
		State: bounded.Config{
			IDs:             []string{"a", "b"},
			Kind:            numeric.KindInt32,
			Minimum:         map[string]interface{}{"a": 0, "b": 0},
			Maximum:         map[string]interface{}{"a": 5, "b": 5},
			Values:          map[string]interface{}{"a": 0, "b": 5},
			MinimumInterval: 10,
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bounded.ErrUnsatisfiable))
	assert.Contains(t, err.Error(), "engine bad")
}

func TestMutablePropertyRegistry(t *testing.T) {
	names := engine.MutablePropertyNames()
	assert.Equal(t, []string{"editable", "enable", "incrementDelta", "maxValue", "minValue", "minimumInterval", "valueEditables", "values"}, names)
	names[0] = "mutated"
	assert.True(t, engine.IsMutableProperty("editable"))
	assert.False(t, engine.IsMutableProperty("mutated"))
}
