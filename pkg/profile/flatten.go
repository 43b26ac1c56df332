package profile

import (
	"strconv"
)

const (
	// NotApplicable renders a metric that does not apply to a row.
	NotApplicable = "N/A"
	// ErrorCell renders a metric of a collection that failed to profile.
	ErrorCell = "ERROR"

	// DefaultMissingThreshold is the percent a column's missing share must
	// exceed to be counted in MissingPercentOver50.
	DefaultMissingThreshold = 50.0
)

// SummaryHeader is the header of the quality summary table.
var SummaryHeader = []string{"Collection", "RowCount", "ColumnCount", "DuplicateRows", "MissingPercentOver50"}

// SummaryRow is one collection's report with per-column detail dropped.
// Nil counts render as N/A.
type SummaryRow struct {
	Collection    string
	Status        Status
	RowCount      int
	ColumnCount   int
	DuplicateRows *int
	MissingOver50 *int
}

// Flatten reduces each report to a SummaryRow, keeping the set's order.
// threshold is the missing percent a column must exceed to be counted.
func Flatten(set *ReportSet, threshold float64) []SummaryRow {
	reports := set.Reports()
	rows := make([]SummaryRow, 0, len(reports))

	for _, r := range reports {
		row := SummaryRow{Collection: r.Collection, Status: r.Status}
		if r.Status == StatusProfiled {
			row.RowCount = r.Profile.RowCount
			row.ColumnCount = r.Profile.ColumnCount
			dups := r.Profile.DuplicateRows
			row.DuplicateRows = &dups
			if len(r.Profile.MissingValues) > 0 {
				over := 0
				for _, m := range r.Profile.MissingValues {
					if m.Percent > threshold {
						over++
					}
				}
				row.MissingOver50 = &over
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// Record renders the row as table cells in SummaryHeader order.
func (r SummaryRow) Record() []string {
	if r.Status == StatusFailed {
		return []string{r.Collection, ErrorCell, ErrorCell, ErrorCell, ErrorCell}
	}
	return []string{
		r.Collection,
		strconv.Itoa(r.RowCount),
		strconv.Itoa(r.ColumnCount),
		optional(r.DuplicateRows),
		optional(r.MissingOver50),
	}
}

func optional(n *int) string {
	if n == nil {
		return NotApplicable
	}
	return strconv.Itoa(*n)
}
