package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/docqual/pkg/models"
	"github.com/ajitpratap0/docqual/pkg/testutil"
)

func TestProjectFirstSeenOrder(t *testing.T) {
	docs := testutil.Docs(
		[]interface{}{"b", 1, "a", "x"},
		[]interface{}{"c", true, "b", 2},
		[]interface{}{"a", "y", "d", nil},
	)

	p := Project(docs)

	assert.Equal(t, []string{"b", "a", "c", "d"}, p.Names())
	assert.Equal(t, 3, p.RowCount())
}

func TestProjectTypeInference(t *testing.T) {
	tests := []struct {
		name string
		docs []models.Document
		want models.Kind
	}{
		{
			name: "first non-null wins",
			docs: testutil.Docs([]interface{}{"v", nil}, []interface{}{"v", 2.5}, []interface{}{"v", "text"}),
			want: models.KindFloat,
		},
		{
			name: "string first, no reconciliation",
			docs: testutil.Docs([]interface{}{"v", "7"}, []interface{}{"v", 7}),
			want: models.KindString,
		},
		{
			name: "absent then int",
			docs: testutil.Docs([]interface{}{"other", 1}, []interface{}{"v", 3}),
			want: models.KindInt,
		},
		{
			name: "only nulls",
			docs: testutil.Docs([]interface{}{"v", nil}, []interface{}{"v", nil}),
			want: models.KindNull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.docs)
			for _, c := range p.Columns {
				if c.Name == "v" {
					assert.Equal(t, tt.want, c.Type)
					return
				}
			}
			t.Fatal("column v not projected")
		})
	}
}

func TestProjectEmpty(t *testing.T) {
	p := Project(nil)
	assert.Empty(t, p.Columns)
	assert.Equal(t, 0, p.RowCount())
	assert.Empty(t, p.Names())
}
