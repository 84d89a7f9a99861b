// Package numeric provides the closed set of numeric variants a bounded
// widget can track: 32/64-bit integers and 32/64-bit floats.
//
// Every variant implements [Number]. Binary operations convert the argument
// into the receiver's kind first, so a widget instance only ever computes in
// the kind it was configured with. Integer arithmetic saturates instead of
// wrapping so that boundary math near the type limits stays ordered.
package numeric

import (
	"fmt"
	"math"
	"strconv"
)

// Kind selects the numeric variant of a widget instance.
type Kind int

const (
	KindInt32 Kind = iota
	KindInt64
	KindFloat32
	KindFloat64
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the kind is a floating point variant.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// ParseKind accepts Go names ("int64") as well as the short names used in
// form definitions ("int", "long", "float", "double").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int", "int32", "integer":
		return KindInt32, nil
	case "long", "int64":
		return KindInt64, nil
	case "float", "float32":
		return KindFloat32, nil
	case "double", "float64", "":
		return KindFloat64, nil
	default:
		return 0, fmt.Errorf("numeric: unknown kind %q", s)
	}
}

// Number is a value of one of the four variants.
type Number interface {
	Kind() Kind
	// Add returns the receiver plus o, computed in the receiver's kind.
	Add(o Number) Number
	// Sub returns the receiver minus o, computed in the receiver's kind.
	Sub(o Number) Number
	// Mul returns the receiver multiplied by n, computed in the receiver's kind.
	Mul(n int64) Number
	// Cmp returns -1, 0 or +1.
	Cmp(o Number) int
	Int64() int64
	Float64() float64
	String() string
}

type (
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
)

var (
	_ Number = Int32(0)
	_ Number = Int64(0)
	_ Number = Float32(0)
	_ Number = Float64(0)
)

func (v Int32) Kind() Kind         { return KindInt32 }
func (v Int32) Int64() int64       { return int64(v) }
func (v Int32) Float64() float64   { return float64(v) }
func (v Int32) String() string     { return strconv.FormatInt(int64(v), 10) }
func (v Int32) Add(o Number) Number { return clampInt32(satAdd(int64(v), o.Int64())) }
func (v Int32) Sub(o Number) Number { return clampInt32(satSub(int64(v), o.Int64())) }
func (v Int32) Mul(n int64) Number  { return clampInt32(satMul(int64(v), n)) }
func (v Int32) Cmp(o Number) int    { return cmpInt(int64(v), o.Int64()) }

func (v Int64) Kind() Kind         { return KindInt64 }
func (v Int64) Int64() int64       { return int64(v) }
func (v Int64) Float64() float64   { return float64(v) }
func (v Int64) String() string     { return strconv.FormatInt(int64(v), 10) }
func (v Int64) Add(o Number) Number { return Int64(satAdd(int64(v), o.Int64())) }
func (v Int64) Sub(o Number) Number { return Int64(satSub(int64(v), o.Int64())) }
func (v Int64) Mul(n int64) Number  { return Int64(satMul(int64(v), n)) }
func (v Int64) Cmp(o Number) int    { return cmpInt(int64(v), o.Int64()) }

func (v Float32) Kind() Kind       { return KindFloat32 }
func (v Float32) Int64() int64     { return int64(v) }
func (v Float32) Float64() float64 { return float64(v) }
func (v Float32) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v Float32) Add(o Number) Number {
	return Float32(float32(v) + float32(o.Float64()))
}
func (v Float32) Sub(o Number) Number {
	return Float32(float32(v) - float32(o.Float64()))
}
func (v Float32) Mul(n int64) Number { return Float32(float32(v) * float32(n)) }
func (v Float32) Cmp(o Number) int   { return cmpFloat(float64(v), float64(float32(o.Float64()))) }

func (v Float64) Kind() Kind         { return KindFloat64 }
func (v Float64) Int64() int64       { return int64(v) }
func (v Float64) Float64() float64   { return float64(v) }
func (v Float64) String() string     { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Float64) Add(o Number) Number { return Float64(float64(v) + o.Float64()) }
func (v Float64) Sub(o Number) Number { return Float64(float64(v) - o.Float64()) }
func (v Float64) Mul(n int64) Number  { return Float64(float64(v) * float64(n)) }
func (v Float64) Cmp(o Number) int    { return cmpFloat(float64(v), o.Float64()) }

// Zero returns the zero value of kind k.
func Zero(k Kind) Number {
	return FromInt64(k, 0)
}

// FromInt64 builds a value of kind k from an integer.
func FromInt64(k Kind, n int64) Number {
	switch k {
	case KindInt32:
		return clampInt32(n)
	case KindInt64:
		return Int64(n)
	case KindFloat32:
		return Float32(float32(n))
	default:
		return Float64(float64(n))
	}
}

// FromFloat64 builds a value of kind k from a float. Integer kinds round to
// the nearest integer.
func FromFloat64(k Kind, f float64) Number {
	switch k {
	case KindInt32:
		return clampInt32(roundToInt64(f))
	case KindInt64:
		return Int64(roundToInt64(f))
	case KindFloat32:
		return Float32(float32(f))
	default:
		return Float64(f)
	}
}

// Convert returns n expressed in kind k.
func Convert(n Number, k Kind) Number {
	if n == nil {
		return Zero(k)
	}
	if n.Kind() == k {
		return n
	}
	if n.Kind().IsFloat() {
		return FromFloat64(k, n.Float64())
	}
	return FromInt64(k, n.Int64())
}

// Equal reports whether a and b compare equal in a's kind.
func Equal(a, b Number) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}

// Min returns the smaller of a and b.
func Min(a, b Number) Number {
	if b.Cmp(a) < 0 {
		return Convert(b, a.Kind())
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Number) Number {
	if b.Cmp(a) > 0 {
		return Convert(b, a.Kind())
	}
	return a
}

// Clamp returns v limited to [lo, hi]. lo must not exceed hi.
func Clamp(v, lo, hi Number) Number {
	if v.Cmp(lo) < 0 {
		return Convert(lo, v.Kind())
	}
	if v.Cmp(hi) > 0 {
		return Convert(hi, v.Kind())
	}
	return v
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func clampInt32(n int64) Int32 {
	if n > math.MaxInt32 {
		return Int32(math.MaxInt32)
	}
	if n < math.MinInt32 {
		return Int32(math.MinInt32)
	}
	return Int32(n)
}

func satAdd(a, b int64) int64 {
	s := a + b
	if a > 0 && b > 0 && s < 0 {
		return math.MaxInt64
	}
	if a < 0 && b < 0 && s >= 0 {
		return math.MinInt64
	}
	return s
}

func satSub(a, b int64) int64 {
	if b == math.MinInt64 {
		if a >= 0 {
			return math.MaxInt64
		}
		return a - b
	}
	return satAdd(a, -b)
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		if (a < 0) != (b < 0) {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return p
}

func roundToInt64(f float64) int64 {
	r := math.Round(f)
	if r >= math.MaxInt64 {
		return math.MaxInt64
	}
	if r <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(r)
}
