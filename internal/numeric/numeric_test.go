package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"int":     KindInt32,
		"int32":   KindInt32,
		"long":    KindInt64,
		"int64":   KindInt64,
		"float":   KindFloat32,
		"double":  KindFloat64,
		"float64": KindFloat64,
		"":        KindFloat64,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("decimal")
	assert.Error(t, err)
}

func TestArithmetic_StaysInReceiverKind(t *testing.T) {
	sum := Int32(5).Add(Float64(2.9))
	assert.Equal(t, KindInt32, sum.Kind())
	assert.Equal(t, Int32(7), sum)

	diff := Float64(1.5).Sub(Int64(1))
	assert.Equal(t, Float64(0.5), diff)

	assert.Equal(t, Int64(30), Int64(10).Mul(3))
	assert.Equal(t, Float32(1.5), Float32(0.5).Mul(3))
}

func TestArithmetic_Saturates(t *testing.T) {
	assert.Equal(t, Int32(math.MaxInt32), Int32(math.MaxInt32-1).Add(Int32(10)))
	assert.Equal(t, Int32(math.MinInt32), Int32(math.MinInt32+1).Sub(Int32(10)))
	assert.Equal(t, Int64(math.MaxInt64), Int64(math.MaxInt64).Add(Int64(1)))
	assert.Equal(t, Int64(math.MinInt64), Int64(math.MinInt64).Sub(Int64(1)))
	assert.Equal(t, Int64(math.MaxInt64), Int64(math.MaxInt64/2).Mul(3))
}

func TestCmpMinMaxClamp(t *testing.T) {
	assert.Equal(t, -1, Int64(1).Cmp(Int64(2)))
	assert.Equal(t, 0, Float64(2).Cmp(Int32(2)))
	assert.Equal(t, 1, Float32(2.5).Cmp(Float64(2)))

	assert.Equal(t, Int64(1), Min(Int64(1), Int64(4)))
	assert.Equal(t, Int64(4), Max(Int64(1), Int64(4)))
	assert.Equal(t, Int64(4), Max(Int64(1), Float64(4)))

	assert.Equal(t, Float64(10), Clamp(Float64(12), Float64(0), Float64(10)))
	assert.Equal(t, Float64(0), Clamp(Float64(-3), Float64(0), Float64(10)))
	assert.Equal(t, Float64(3), Clamp(Float64(3), Float64(0), Float64(10)))
}

func TestConvert(t *testing.T) {
	assert.Equal(t, Int32(3), Convert(Float64(2.6), KindInt32))
	assert.Equal(t, Float64(7), Convert(Int64(7), KindFloat64))
	assert.Equal(t, Int64(0), Convert(nil, KindInt64))
	assert.True(t, Equal(Int64(3), Int64(3)))
	assert.False(t, Equal(Int64(3), nil))
}

func TestCoerce(t *testing.T) {
	n, err := Coerce(KindInt64, 42)
	require.NoError(t, err)
	assert.Equal(t, Int64(42), n)

	n, err = Coerce(KindInt32, float64(12))
	require.NoError(t, err)
	assert.Equal(t, Int32(12), n)

	n, err = Coerce(KindFloat64, " 2.25 ")
	require.NoError(t, err)
	assert.Equal(t, Float64(2.25), n)

	n, err = Coerce(KindFloat32, Int64(3))
	require.NoError(t, err)
	assert.Equal(t, Float32(3), n)

	n, err = Coerce(KindInt64, "1e3")
	require.NoError(t, err)
	assert.Equal(t, Int64(1000), n)
}

func TestCoerce_Rejects(t *testing.T) {
	_, err := Coerce(KindInt32, 2.5)
	assert.ErrorIs(t, err, ErrFractional)

	_, err = Coerce(KindInt32, int64(math.MaxInt32)+1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Coerce(KindFloat64, "abc")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Coerce(KindFloat64, true)
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Coerce(KindFloat64, nil)
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Coerce(KindFloat64, math.NaN())
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestString(t *testing.T) {
	assert.Equal(t, "12", Int32(12).String())
	assert.Equal(t, "2.5", Float64(2.5).String())
	assert.Equal(t, "0.1", Float32(0.1).String())
}
