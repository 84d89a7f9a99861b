package bounded

import (
	"fmt"

	"megawidget/internal/numeric"
)

// Boundary is the adjusted [Min, Max] range of one identifier.
type Boundary struct {
	Min numeric.Number
	Max numeric.Number
}

// Contains reports whether v lies within the boundary, inclusive.
func (b Boundary) Contains(v numeric.Number) bool {
	return v.Cmp(b.Min) >= 0 && v.Cmp(b.Max) <= 0
}

// Clamp limits v to the boundary.
func (b Boundary) Clamp(v numeric.Number) numeric.Number {
	return numeric.Clamp(v, b.Min, b.Max)
}

func (b Boundary) String() string {
	return fmt.Sprintf("[%s, %s]", b.Min, b.Max)
}

// Resolve derives the adjusted boundary of every identifier so that values
// kept inside them can always be ordered at least interval apart.
//
// The adjusted minimum of identifier i is the larger of its raw minimum and
// the adjusted minimum of i-1 plus interval; the adjusted maximum is the
// smaller of its raw maximum and the adjusted maximum of i+1 minus interval.
// ids, rawMin and rawMax must have equal length.
func Resolve(ids []string, rawMin, rawMax []numeric.Number, interval numeric.Number) ([]Boundary, error) {
	n := len(ids)
	if n == 0 {
		return nil, ErrNoIdentifiers
	}
	if len(rawMin) != n || len(rawMax) != n {
		return nil, fmt.Errorf("bounded: resolve: %d identifiers, %d minimums, %d maximums", n, len(rawMin), len(rawMax))
	}
	if interval.Cmp(numeric.Zero(interval.Kind())) < 0 {
		return nil, propertyError("", PropMinimumInterval, interval, ErrNegativeInterval)
	}
	for i := range ids {
		if rawMin[i].Cmp(rawMax[i]) > 0 {
			return nil, propertyError(ids[i], PropMinimum, rawMin[i], ErrInvertedBounds)
		}
	}

	out := make([]Boundary, n)
	out[0].Min = rawMin[0]
	for i := 1; i < n; i++ {
		out[i].Min = numeric.Max(rawMin[i], out[i-1].Min.Add(interval))
	}
	out[n-1].Max = rawMax[n-1]
	for i := n - 2; i >= 0; i-- {
		out[i].Max = numeric.Min(rawMax[i], out[i+1].Max.Sub(interval))
	}

	for i, b := range out {
		if b.Min.Cmp(b.Max) > 0 {
			return nil, propertyError(ids[i], PropMinimumInterval, interval,
				fmt.Errorf("%w: adjusted %s", ErrUnsatisfiable, b))
		}
	}
	return out, nil
}
