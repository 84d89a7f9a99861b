package display

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megawidget/internal/bounded"
	"megawidget/internal/numeric"
)

type fakeStepper struct {
	value    int64
	enabled  bool
	editable bool
	sets     int
	err      error
	onSet    func()
}

func (f *fakeStepper) SetValue(n int64) error {
	if f.err != nil {
		return f.err
	}
	f.value = n
	f.sets++
	if f.onSet != nil {
		f.onSet()
	}
	return nil
}
func (f *fakeStepper) SetEnabled(e bool)  { f.enabled = e }
func (f *fakeStepper) SetEditable(e bool) { f.editable = e }

type fakeSlider struct {
	thumbs        map[int]int64
	thumbEditable map[int]bool
	enabled       bool
	editable      bool
	enabledCalls  int
}

func newFakeSlider() *fakeSlider {
	return &fakeSlider{thumbs: map[int]int64{}, thumbEditable: map[int]bool{}}
}

func (f *fakeSlider) SetThumbValue(i int, n int64) error { f.thumbs[i] = n; return nil }
func (f *fakeSlider) SetThumbEditable(i int, e bool)     { f.thumbEditable[i] = e }
func (f *fakeSlider) SetEnabled(e bool)                  { f.enabled = e; f.enabledCalls++ }
func (f *fakeSlider) SetEditable(e bool)                 { f.editable = e }

func TestPrecisionConverter_RoundTrip(t *testing.T) {
	c := PrecisionConverter{Kind: numeric.KindFloat64, Precision: 2}
	for _, f := range []float64{0, 1.25, -3.5, 12.34, 99.99, 0.01} {
		v := numeric.Float64(f)
		assert.Equal(t, v, c.FromStepper(c.ToStepper(v)), "stepper %v", f)
		assert.Equal(t, v, c.FromSlider(c.ToSlider(v)), "slider %v", f)
	}
	assert.Equal(t, int64(1234), c.ToStepper(numeric.Float64(12.34)))
	assert.Equal(t, "12.30", c.Format(numeric.Float64(12.3)))

	f32 := PrecisionConverter{Kind: numeric.KindFloat32, Precision: 1}
	for _, f := range []float32{0.5, 2.5, -7.5} {
		v := numeric.Float32(f)
		assert.Equal(t, v, f32.FromStepper(f32.ToStepper(v)))
	}

	ints := PrecisionConverter{Kind: numeric.KindInt32}
	assert.Equal(t, int64(42), ints.ToStepper(numeric.Int32(42)))
	assert.Equal(t, numeric.Int32(42), ints.FromSlider(42))
	assert.Equal(t, "42", ints.Format(numeric.Int32(42)))
}

// TestBin_RoundsToRepresentable feeds values finer than each converter can
// show and expects the nearest representable one, which must then survive
// a trip through both controls.
func TestBin_RoundsToRepresentable(t *testing.T) {
	tests := []struct {
		name string
		conv Converter
		in   numeric.Number
		want numeric.Number
	}{
		{"precision 1", PrecisionConverter{Kind: numeric.KindFloat64, Precision: 1}, numeric.Float64(1.25), numeric.Float64(1.3)},
		{"precision 1 typed", PrecisionConverter{Kind: numeric.KindFloat64, Precision: 1}, numeric.Float64(3.14159), numeric.Float64(3.1)},
		{"precision 2 negative", PrecisionConverter{Kind: numeric.KindFloat64, Precision: 2}, numeric.Float64(-0.126), numeric.Float64(-0.13)},
		{"float precision 0", PrecisionConverter{Kind: numeric.KindFloat64}, numeric.Float64(2.4), numeric.Float64(2)},
		{"float32", PrecisionConverter{Kind: numeric.KindFloat32, Precision: 1}, numeric.Float32(0.46), numeric.Float32(0.5)},
		{"int unchanged", PrecisionConverter{Kind: numeric.KindInt32}, numeric.Int32(7), numeric.Int32(7)},
		{"time", TimeConverter{}, numeric.Int64(MillisPerMinute + 45_000), numeric.Int64(2 * MillisPerMinute)},
		{"delta whole minutes", DeltaConverter{Unit: UnitMinutes}, numeric.Int64(90_000), numeric.Int64(2 * MillisPerMinute)},
		{"delta tenths", DeltaConverter{Unit: UnitMinutes, Precision: 1}, numeric.Int64(91_000), numeric.Int64(90_000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bin(tt.conv)(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, tt.conv.FromStepper(tt.conv.ToStepper(got)))
			assert.Equal(t, got, Bin(tt.conv)(got), "binning is idempotent")
		})
	}
}

func TestTimeConverter(t *testing.T) {
	c := TimeConverter{}
	v := numeric.Int64(90 * MillisPerMinute)
	assert.Equal(t, int64(90), c.ToStepper(v))
	assert.Equal(t, v, c.FromStepper(c.ToStepper(v)))
	assert.Equal(t, v, c.FromSlider(c.ToSlider(v)))

	// Drags snap to the nearest minute.
	assert.Equal(t, numeric.Int64(MillisPerMinute), c.FromSlider(MillisPerMinute+29_999))
	assert.Equal(t, numeric.Int64(2*MillisPerMinute), c.FromSlider(MillisPerMinute+30_000))
	assert.Equal(t, int64(-MillisPerMinute), SnapToMinute(-MillisPerMinute-10))
	assert.Equal(t, int64(0), c.ToStepper(numeric.Int64(-1)))
	assert.Equal(t, int64(2), c.ToStepper(numeric.Int64(MillisPerMinute+30_000)))
}

func TestDeltaConverter(t *testing.T) {
	c := DeltaConverter{Unit: UnitHours}
	v := numeric.Int64(3 * UnitHours.Millis)
	assert.Equal(t, int64(3), c.ToStepper(v))
	assert.Equal(t, v, c.FromStepper(3))
	assert.Equal(t, v, c.FromSlider(c.ToSlider(v)))

	// Fractions survive InUnits.
	assert.InDelta(t, 1.5, c.InUnits(numeric.Int64(90*MillisPerMinute)), 1e-12)

	require.NoError(t, c.Validate())
	assert.Error(t, DeltaConverter{Unit: UnitSeconds, Precision: 4}.Validate())
	assert.Error(t, DeltaConverter{Unit: UnitMinutes, Precision: -1}.Validate())

	tenths := DeltaConverter{Unit: UnitMinutes, Precision: 1}
	require.NoError(t, tenths.Validate())
	assert.Equal(t, int64(15), tenths.ToStepper(numeric.Int64(90_000)))
	assert.Equal(t, numeric.Int64(90_000), tenths.FromStepper(15))

	u, err := ParseDeltaUnit("minutes")
	require.NoError(t, err)
	assert.Equal(t, UnitMinutes, u)
	_, err = ParseDeltaUnit("fortnights")
	assert.Error(t, err)
}

func TestSynchronizer_SyncRendersBothRepresentations(t *testing.T) {
	s := NewSynchronizer(PrecisionConverter{Kind: numeric.KindFloat64, Precision: 1})
	lo, hi := &fakeStepper{}, &fakeStepper{}
	slider := newFakeSlider()
	require.NoError(t, s.Bind(Binding{ID: "lo", Stepper: lo, Slider: slider, Thumb: 0}))
	require.NoError(t, s.Bind(Binding{ID: "hi", Stepper: hi, Slider: slider, Thumb: 1}))
	require.Error(t, s.Bind(Binding{ID: "lo"}))

	vals := map[string]numeric.Number{"lo": numeric.Float64(1.5), "hi": numeric.Float64(4)}
	require.NoError(t, s.Sync(vals))
	assert.Equal(t, int64(15), lo.value)
	assert.Equal(t, int64(40), hi.value)
	assert.Equal(t, map[int]int64{0: 15, 1: 40}, slider.thumbs)

	vals["lo"] = numeric.Float64(2)
	require.NoError(t, s.Sync(vals, "lo"))
	assert.Equal(t, int64(20), lo.value)
	assert.Equal(t, 1, hi.sets, "hi not re-rendered")

	id, ok := s.IDForThumb(1)
	assert.True(t, ok)
	assert.Equal(t, "hi", id)
}

func TestSynchronizer_ReentrancyFlag(t *testing.T) {
	s := NewSynchronizer(PrecisionConverter{Kind: numeric.KindInt64})
	var sawUpdating bool
	st := &fakeStepper{}
	st.onSet = func() { sawUpdating = s.Updating() }
	require.NoError(t, s.Bind(Binding{ID: "x", Stepper: st}))

	require.NoError(t, s.Sync(map[string]numeric.Number{"x": numeric.Int64(3)}))
	assert.True(t, sawUpdating)
	assert.False(t, s.Updating())
}

func TestSynchronizer_ControlRejectionIsInvariantFault(t *testing.T) {
	s := NewSynchronizer(PrecisionConverter{Kind: numeric.KindInt64})
	boom := errors.New("out of range")
	require.NoError(t, s.Bind(Binding{ID: "x", Stepper: &fakeStepper{err: boom}}))

	err := s.Sync(map[string]numeric.Number{"x": numeric.Int64(3)})
	require.ErrorIs(t, err, ErrInvariant)
	require.ErrorIs(t, err, boom)
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "x", ie.ID)
	assert.False(t, s.Updating())
}

func TestSynchronizer_AccessCascade(t *testing.T) {
	s := NewSynchronizer(PrecisionConverter{Kind: numeric.KindInt64})
	a, b, label := &fakeStepper{}, &fakeStepper{}, &fakeStepper{}
	slider := newFakeSlider()
	require.NoError(t, s.Bind(Binding{ID: "a", Stepper: a, Slider: slider, Thumb: 0, Label: label}))
	require.NoError(t, s.Bind(Binding{ID: "b", Stepper: b, Slider: slider, Thumb: 1}))
	assert.True(t, a.enabled && a.editable && slider.thumbEditable[1])

	s.SetEditability(map[string]bool{"b": false})
	assert.True(t, a.editable)
	assert.False(t, b.editable)
	assert.True(t, slider.thumbEditable[0])
	assert.False(t, slider.thumbEditable[1])
	assert.True(t, slider.editable, "slider as a whole stays editable")
	assert.False(t, s.IDEditable("b"))

	s.SetEditable(false)
	assert.False(t, a.editable)
	assert.False(t, label.editable)
	assert.False(t, slider.editable)
	assert.True(t, a.enabled, "editable and enabled are independent")

	calls := slider.enabledCalls
	s.SetEnabled(false)
	assert.False(t, a.enabled)
	assert.False(t, label.enabled)
	assert.False(t, slider.enabled)
	assert.Equal(t, calls+1, slider.enabledCalls, "shared slider updated once")

	assert.Equal(t, map[string]bool{"b": false}, s.Editability())
}

type rangedStepper struct {
	fakeStepper
	min, max int64
}

func (r *rangedStepper) SetRange(min, max int64) { r.min, r.max = min, max }

type rangedSlider struct {
	*fakeSlider
	min, max int64
	calls    int
}

func (r *rangedSlider) SetRange(min, max int64) { r.min, r.max = min, max; r.calls++ }

func TestSynchronizer_SyncRanges(t *testing.T) {
	s := NewSynchronizer(PrecisionConverter{Kind: numeric.KindFloat64, Precision: 1})
	lo, hi := &rangedStepper{}, &fakeStepper{}
	slider := &rangedSlider{fakeSlider: newFakeSlider()}
	require.NoError(t, s.Bind(Binding{ID: "lo", Stepper: lo, Slider: slider, Thumb: 0}))
	require.NoError(t, s.Bind(Binding{ID: "hi", Stepper: hi, Slider: slider, Thumb: 1}))

	s.SyncRanges(map[string]bounded.Boundary{
		"lo": {Min: numeric.Float64(0), Max: numeric.Float64(9.5)},
		"hi": {Min: numeric.Float64(0.5), Max: numeric.Float64(10)},
	}, numeric.Float64(0), numeric.Float64(10))

	assert.Equal(t, int64(0), lo.min)
	assert.Equal(t, int64(95), lo.max)
	assert.Equal(t, int64(0), slider.min)
	assert.Equal(t, int64(100), slider.max)
	assert.Equal(t, 1, slider.calls, "shared slider ranged once")
}
