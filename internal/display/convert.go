package display

import (
	"fmt"
	"math"

	"megawidget/internal/numeric"
)

// Converter maps an abstract value to and from the native domains of the
// two controls. All four functions are pure; for every value representable
// at the converter's precision FromStepper(ToStepper(v)) and
// FromSlider(ToSlider(v)) return v.
type Converter interface {
	ToStepper(v numeric.Number) int64
	FromStepper(n int64) numeric.Number
	ToSlider(v numeric.Number) int64
	FromSlider(n int64) numeric.Number
}

// Bin returns the function that rounds a value to the nearest one c can
// represent exactly. Values are binned once as they enter the state, so that
// rendering them never loses precision.
func Bin(c Converter) func(numeric.Number) numeric.Number {
	return func(v numeric.Number) numeric.Number {
		return c.FromStepper(c.ToStepper(v))
	}
}

// PrecisionConverter scales values by 10^Precision so that both controls
// work on integers. Integer kinds normally use Precision 0.
type PrecisionConverter struct {
	Kind      numeric.Kind
	Precision int
}

var _ Converter = PrecisionConverter{}

func (c PrecisionConverter) scale() float64 {
	return math.Pow10(c.Precision)
}

func (c PrecisionConverter) ToStepper(v numeric.Number) int64 {
	if !v.Kind().IsFloat() && c.Precision == 0 {
		return v.Int64()
	}
	return int64(math.Round(v.Float64() * c.scale()))
}

func (c PrecisionConverter) FromStepper(n int64) numeric.Number {
	if !c.Kind.IsFloat() && c.Precision == 0 {
		return numeric.FromInt64(c.Kind, n)
	}
	return numeric.FromFloat64(c.Kind, float64(n)/c.scale())
}

func (c PrecisionConverter) ToSlider(v numeric.Number) int64   { return c.ToStepper(v) }
func (c PrecisionConverter) FromSlider(n int64) numeric.Number { return c.FromStepper(n) }

// Format renders v with exactly Precision fractional digits.
func (c PrecisionConverter) Format(v numeric.Number) string {
	if c.Precision <= 0 || !c.Kind.IsFloat() {
		return v.String()
	}
	return fmt.Sprintf("%.*f", c.Precision, v.Float64())
}

// MillisPerMinute is the slider quantum of time scales.
const MillisPerMinute int64 = 60 * 1000

// TimeConverter handles epoch-millisecond values. Slider positions are
// snapped to whole minutes as they come in; the stepper counts minutes,
// rounding to the nearest one.
type TimeConverter struct{}

var _ Converter = TimeConverter{}

func (TimeConverter) ToStepper(v numeric.Number) int64 {
	return floorDiv(SnapToMinute(v.Int64()), MillisPerMinute)
}
func (TimeConverter) FromStepper(n int64) numeric.Number {
	return numeric.Int64(n * MillisPerMinute)
}
func (TimeConverter) ToSlider(v numeric.Number) int64 { return v.Int64() }
func (TimeConverter) FromSlider(n int64) numeric.Number {
	return numeric.Int64(SnapToMinute(n))
}

// SnapToMinute rounds epoch milliseconds to the nearest whole minute.
func SnapToMinute(ms int64) int64 {
	half := MillisPerMinute / 2
	return floorDiv(ms+half, MillisPerMinute) * MillisPerMinute
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DeltaUnit is the display unit of a time-delta value held in milliseconds.
type DeltaUnit struct {
	Name   string
	Millis int64
}

var (
	UnitSeconds = DeltaUnit{Name: "seconds", Millis: 1000}
	UnitMinutes = DeltaUnit{Name: "minutes", Millis: MillisPerMinute}
	UnitHours   = DeltaUnit{Name: "hours", Millis: 60 * MillisPerMinute}
	UnitDays    = DeltaUnit{Name: "days", Millis: 24 * 60 * MillisPerMinute}
)

// ParseDeltaUnit looks a unit up by name.
func ParseDeltaUnit(name string) (DeltaUnit, error) {
	for _, u := range []DeltaUnit{UnitSeconds, UnitMinutes, UnitHours, UnitDays} {
		if u.Name == name {
			return u, nil
		}
	}
	return DeltaUnit{}, fmt.Errorf("display: unknown time unit %q", name)
}

// DeltaConverter handles millisecond durations shown in Unit. The stepper
// counts units with Precision fractional digits; the slider works in
// milliseconds.
type DeltaConverter struct {
	Unit      DeltaUnit
	Precision int
}

var _ Converter = DeltaConverter{}

// Validate reports whether one stepper count is a whole number of
// milliseconds.
func (c DeltaConverter) Validate() error {
	if c.Unit.Millis <= 0 {
		return fmt.Errorf("display: time unit %q has no length", c.Unit.Name)
	}
	if c.Precision < 0 || c.Precision > 9 || c.Unit.Millis%pow10(c.Precision) != 0 {
		return fmt.Errorf("display: precision %d too fine for %s", c.Precision, c.Unit.Name)
	}
	return nil
}

func (c DeltaConverter) quantum() int64 { return c.Unit.Millis / pow10(c.Precision) }

func (c DeltaConverter) ToStepper(v numeric.Number) int64 {
	q := c.quantum()
	return floorDiv(v.Int64()+q/2, q)
}
func (c DeltaConverter) FromStepper(n int64) numeric.Number {
	return numeric.Int64(n * c.quantum())
}
func (c DeltaConverter) ToSlider(v numeric.Number) int64   { return v.Int64() }
func (c DeltaConverter) FromSlider(n int64) numeric.Number { return numeric.Int64(n) }

// InUnits returns v expressed in the display unit, keeping any fraction.
func (c DeltaConverter) InUnits(v numeric.Number) float64 {
	return float64(v.Int64()) / float64(c.Unit.Millis)
}

func pow10(p int) int64 {
	n := int64(1)
	for ; p > 0; p-- {
		n *= 10
	}
	return n
}
