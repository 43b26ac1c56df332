package profile

import (
	"bytes"
	"sync"

	"github.com/goccy/go-json"
)

// Status is the terminal state of one collection's profiling.
type Status string

const (
	StatusProfiled Status = "profiled"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// emptyNote is the marker an empty collection's report degenerates to.
const emptyNote = "Empty collection"

// CollectionReport is the full quality report of a non-empty collection.
type CollectionReport struct {
	RowCount      int
	ColumnCount   int
	Columns       []Column
	MissingValues map[string]Missing
	DataTypes     map[string]string
	Uniqueness    map[string]int
	Outliers      map[string]OutlierStats
	DuplicateRows int
}

// MarshalJSON renders per-column maps in column order.
func (r *CollectionReport) MarshalJSON() ([]byte, error) {
	missing := make(orderedObject, 0, len(r.Columns))
	types := make(orderedObject, 0, len(r.Columns))
	unique := make(orderedObject, 0, len(r.Columns))
	outliers := make(orderedObject, 0, len(r.Outliers))

	for _, c := range r.Columns {
		missing = append(missing, member{c.Name, r.MissingValues[c.Name]})
		types = append(types, member{c.Name, r.DataTypes[c.Name]})
		unique = append(unique, member{c.Name, r.Uniqueness[c.Name]})
		if s, ok := r.Outliers[c.Name]; ok {
			outliers = append(outliers, member{c.Name, s})
		}
	}

	return json.Marshal(orderedObject{
		{"RowCount", r.RowCount},
		{"ColumnCount", r.ColumnCount},
		{"MissingValues", missing},
		{"DataTypes", types},
		{"Uniqueness", unique},
		{"Outliers", outliers},
		{"DuplicateRows", r.DuplicateRows},
	})
}

// Failure names the stage at which a collection could not be profiled.
type Failure struct {
	Stage   string `json:"stage"`
	Message string `json:"error"`
}

// Report is the outcome for one collection. Profile is set only when
// Status is StatusProfiled and Failure only when it is StatusFailed.
type Report struct {
	Collection string
	Status     Status
	Profile    *CollectionReport
	Failure    *Failure
}

// RowCount returns the profiled row count, zero for empty or failed reports.
func (r *Report) RowCount() int {
	if r.Profile == nil {
		return 0
	}
	return r.Profile.RowCount
}

// MarshalJSON renders the empty marker, the failure or the full report.
func (r *Report) MarshalJSON() ([]byte, error) {
	switch r.Status {
	case StatusEmpty:
		return json.Marshal(orderedObject{{"note", emptyNote}})
	case StatusFailed:
		return json.Marshal(orderedObject{{"error", r.Failure.Message}, {"stage", r.Failure.Stage}})
	}
	if r.Profile == nil {
		return []byte("null"), nil
	}
	return r.Profile.MarshalJSON()
}

// ReportSet accumulates reports in collection enumeration order.
type ReportSet struct {
	mu      sync.RWMutex
	reports []*Report
	byName  map[string]int
}

// NewReportSet returns an empty set.
func NewReportSet() *ReportSet {
	return &ReportSet{byName: make(map[string]int)}
}

// Add appends r, replacing an earlier report for the same collection in place.
func (s *ReportSet) Add(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byName[r.Collection]; ok {
		s.reports[i] = r
		return
	}
	s.byName[r.Collection] = len(s.reports)
	s.reports = append(s.reports, r)
}

// Get returns the report for a collection.
func (s *ReportSet) Get(name string) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.reports[i], true
}

// Reports returns the reports in enumeration order.
func (s *ReportSet) Reports() []*Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Len returns the number of reports.
func (s *ReportSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// Counts tallies reports by status.
func (s *ReportSet) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, r := range s.Reports() {
		counts[r.Status]++
	}
	return counts
}

// MarshalJSON renders collection name to report, in enumeration order.
func (s *ReportSet) MarshalJSON() ([]byte, error) {
	reports := s.Reports()
	obj := make(orderedObject, 0, len(reports))
	for _, r := range reports {
		obj = append(obj, member{r.Collection, r})
	}
	return json.Marshal(obj)
}

type member struct {
	key   string
	value interface{}
}

// orderedObject is a JSON object that keeps its member order.
type orderedObject []member

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
