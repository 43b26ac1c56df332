package profile

import (
	"github.com/ajitpratap0/docqual/pkg/errors"
)

// Missing counts documents lacking a column or holding null for it.
type Missing struct {
	Count   int     `json:"MissingCount"`
	Percent float64 `json:"MissingPercent"`
}

// MissingValues computes per-column missingness. It refuses an empty
// projection; empty collections are handled before calculators run.
func MissingValues(p Projection) (map[string]Missing, error) {
	rows := p.RowCount()
	if rows == 0 {
		return nil, errors.New(errors.ErrorTypeCalculator, "missingness requires at least one row")
	}

	out := make(map[string]Missing, len(p.Columns))
	for _, c := range p.Columns {
		count := 0
		for i := 0; i < rows; i++ {
			if _, ok := p.value(i, c.Name); !ok {
				count++
			}
		}
		out[c.Name] = Missing{
			Count:   count,
			Percent: 100 * float64(count) / float64(rows),
		}
	}
	return out, nil
}
