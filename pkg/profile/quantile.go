package profile

import (
	"math"
	"sort"
)

// Quantile returns the q-quantile of sorted by linear interpolation between
// the order statistics around rank q*(n-1). sorted must be ascending and
// non-empty; q is clamped to [0, 1].
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	rank := q * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	a, b := sorted[lo], sorted[hi]
	if d := b - a; !math.IsInf(d, 0) {
		return a + frac*d
	}
	// The gap overflows near the float64 limits; the weighted form stays finite.
	return a*(1-frac) + b*frac
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
