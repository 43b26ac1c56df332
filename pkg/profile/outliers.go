package profile

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/ajitpratap0/docqual/pkg/errors"
)

// fenceMultiplier scales the interquartile range into the outlier fences.
const fenceMultiplier = 1.5

// Fence holds the IQR bounds for one numeric column.
type Fence struct {
	Q1    float64
	Q3    float64
	Lower float64
	Upper float64
}

// NewFence computes the fence over ascending, non-empty, finite values.
// Bounds that overflow are clamped to the largest finite float64; no finite
// value lies beyond them.
func NewFence(sorted []float64) Fence {
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return Fence{
		Q1:    q1,
		Q3:    q3,
		Lower: clampFinite(q1 - fenceMultiplier*iqr),
		Upper: clampFinite(q3 + fenceMultiplier*iqr),
	}
}

func clampFinite(x float64) float64 {
	switch {
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	}
	return x
}

// Outside reports whether v lies strictly beyond either bound.
func (f Fence) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// OutlierStats describes one numeric column.
type OutlierStats struct {
	OutlierCount int     `json:"OutlierCount"`
	Min          float64 `json:"Min"`
	Max          float64 `json:"Max"`
	Mean         float64 `json:"Mean"`
	Q1           float64 `json:"Q1"`
	Q3           float64 `json:"Q3"`
	LowerBound   float64 `json:"LowerBound"`
	UpperBound   float64 `json:"UpperBound"`
}

// Outliers computes fences and summary statistics for every column whose
// inferred type is numeric. Only finite int and float values are considered;
// a column with none is left out of the result.
func Outliers(p Projection) (map[string]OutlierStats, error) {
	out := make(map[string]OutlierStats)

	for _, c := range p.Columns {
		if !c.Type.IsNumeric() {
			continue
		}

		values := numericValues(p, c.Name)
		if len(values) == 0 {
			continue
		}

		s, err := columnOutliers(values)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCalculator, "outlier statistics failed").
				WithDetail("column", c.Name)
		}
		out[c.Name] = s
	}

	return out, nil
}

func numericValues(p Projection, column string) []float64 {
	values := make([]float64, 0, len(p.Rows))
	for i := range p.Rows {
		v, ok := p.value(i, column)
		if !ok {
			continue
		}
		if f, numeric := v.Float64(); numeric && !math.IsInf(f, 0) {
			values = append(values, f)
		}
	}
	return values
}

func columnOutliers(values []float64) (OutlierStats, error) {
	sorted := sortedCopy(values)
	fence := NewFence(sorted)

	minimum, err := stats.Min(sorted)
	if err != nil {
		return OutlierStats{}, err
	}
	maximum, err := stats.Max(sorted)
	if err != nil {
		return OutlierStats{}, err
	}
	mean, err := stats.Mean(sorted)
	if err != nil {
		return OutlierStats{}, err
	}
	if math.IsInf(mean, 0) {
		mean = runningMean(sorted)
	}

	for _, x := range []float64{minimum, maximum, mean} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return OutlierStats{}, errors.New(errors.ErrorTypeCalculator, "non-finite statistic")
		}
	}

	count := 0
	for _, v := range values {
		if fence.Outside(v) {
			count++
		}
	}

	return OutlierStats{
		OutlierCount: count,
		Min:          minimum,
		Max:          maximum,
		Mean:         mean,
		Q1:           fence.Q1,
		Q3:           fence.Q3,
		LowerBound:   fence.Lower,
		UpperBound:   fence.Upper,
	}, nil
}

// runningMean averages without summing first, so values near the float64
// limits do not overflow.
func runningMean(values []float64) float64 {
	m := 0.0
	for i, x := range values {
		k := float64(i + 1)
		m += x/k - m/k
	}
	return m
}
