// Package profile turns schema-less document collections into data-quality
// reports and flattens many reports into comparable tables.
//
// A run profiles each collection into a Report (profiled, empty or failed),
// accumulates them in a ReportSet in enumeration order, then derives the
// summary rows with Flatten. BuildInventory is an independent pass that
// lists each collection's columns padded to a common width.
package profile

import (
	"github.com/ajitpratap0/docqual/pkg/models"
)

// Column is one field name seen across a collection.
type Column struct {
	// Name of the field.
	Name string `json:"name"`

	// Type is the kind of the first non-null value observed for the field.
	// It is never reconciled against later documents.
	Type models.Kind `json:"type"`
}

// Projection is a materialized collection seen as columns and rows.
type Projection struct {
	// Columns in first-seen order across documents.
	Columns []Column

	// Rows holds one field lookup per document. A column absent from a
	// row is missing, as is one holding an explicit null.
	Rows []map[string]models.Value
}

// Project derives the column set and per-column type of docs.
func Project(docs []models.Document) Projection {
	p := Projection{
		Rows: make([]map[string]models.Value, len(docs)),
	}
	index := make(map[string]int)

	for i, doc := range docs {
		for _, f := range doc.Fields {
			at, seen := index[f.Name]
			if !seen {
				at = len(p.Columns)
				index[f.Name] = at
				p.Columns = append(p.Columns, Column{Name: f.Name, Type: models.KindNull})
			}
			if p.Columns[at].Type == models.KindNull && !f.Value.IsNull() {
				p.Columns[at].Type = f.Value.Kind
			}
		}
		p.Rows[i] = doc.Lookup()
	}

	return p
}

// Names returns the column names in first-seen order.
func (p Projection) Names() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// RowCount is the number of documents projected.
func (p Projection) RowCount() int { return len(p.Rows) }

// value returns the present, non-null value of column in row i.
func (p Projection) value(i int, column string) (models.Value, bool) {
	v, ok := p.Rows[i][column]
	if !ok || v.IsNull() {
		return models.Value{}, false
	}
	return v, true
}
