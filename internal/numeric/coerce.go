package numeric

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotNumeric is returned when raw input cannot be read as a number.
	ErrNotNumeric = errors.New("numeric: value is not a number")
	// ErrFractional is returned when a fractional value is given to an integer kind.
	ErrFractional = errors.New("numeric: fractional value for integer kind")
	// ErrOutOfRange is returned when a value does not fit the target kind.
	ErrOutOfRange = errors.New("numeric: value out of range for kind")
)

// Coerce converts raw input (a Number, any Go numeric type, or a decimal
// string) into kind k. Integer kinds reject fractional and out-of-range
// input rather than rounding it.
func Coerce(k Kind, raw interface{}) (Number, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNotNumeric)
	}
	switch v := raw.(type) {
	case Number:
		if v.Kind() == k {
			return v, nil
		}
		if v.Kind().IsFloat() {
			return fromFloatChecked(k, v.Float64())
		}
		return fromIntChecked(k, v.Int64())
	case int:
		return fromIntChecked(k, int64(v))
	case int8:
		return fromIntChecked(k, int64(v))
	case int16:
		return fromIntChecked(k, int64(v))
	case int32:
		return fromIntChecked(k, int64(v))
	case int64:
		return fromIntChecked(k, v)
	case uint:
		return fromUintChecked(k, uint64(v))
	case uint8:
		return fromIntChecked(k, int64(v))
	case uint16:
		return fromIntChecked(k, int64(v))
	case uint32:
		return fromIntChecked(k, int64(v))
	case uint64:
		return fromUintChecked(k, v)
	case float32:
		return fromFloatChecked(k, float64(v))
	case float64:
		return fromFloatChecked(k, v)
	case string:
		return Parse(k, v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotNumeric, raw)
	}
}

// Parse reads a decimal string as kind k. Surrounding whitespace is ignored.
func Parse(k Kind, s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrNotNumeric)
	}
	if !k.IsFloat() {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromIntChecked(k, n)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return fromFloatChecked(k, f)
}

func fromIntChecked(k Kind, n int64) (Number, error) {
	if k == KindInt32 && (n > math.MaxInt32 || n < math.MinInt32) {
		return nil, fmt.Errorf("%w: %d as %s", ErrOutOfRange, n, k)
	}
	return FromInt64(k, n), nil
}

func fromUintChecked(k Kind, n uint64) (Number, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d as %s", ErrOutOfRange, n, k)
	}
	return fromIntChecked(k, int64(n))
}

func fromFloatChecked(k Kind, f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNotNumeric, f)
	}
	switch k {
	case KindFloat32:
		if math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("%w: %g as %s", ErrOutOfRange, f, k)
		}
		return Float32(float32(f)), nil
	case KindFloat64:
		return Float64(f), nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %g as %s", ErrFractional, f, k)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, fmt.Errorf("%w: %g as %s", ErrOutOfRange, f, k)
	}
	return fromIntChecked(k, int64(f))
}
