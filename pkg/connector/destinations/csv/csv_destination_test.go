package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docqual/pkg/compression"
	"github.com/ajitpratap0/docqual/pkg/profile"
	"github.com/ajitpratap0/docqual/pkg/testutil"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := compression.NewReader(f, compression.FromPath(path))
	require.NoError(t, err)
	defer r.Close()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func intPtr(n int) *int { return &n }

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_quality_report.csv")
	rows := []profile.SummaryRow{
		{Collection: "orders", Status: profile.StatusProfiled, RowCount: 4, ColumnCount: 2, DuplicateRows: intPtr(0), MissingOver50: intPtr(0)},
		{Collection: "logs", Status: profile.StatusEmpty},
		{Collection: "bad", Status: profile.StatusFailed},
	}

	require.NoError(t, WriteSummary(path, rows, testutil.TestLogger(t)))

	assert.Equal(t, [][]string{
		{"Collection", "RowCount", "ColumnCount", "DuplicateRows", "MissingPercentOver50"},
		{"orders", "4", "2", "0", "0"},
		{"logs", "0", "0", "N/A", "N/A"},
		{"bad", "ERROR", "ERROR", "ERROR", "ERROR"},
	}, readCSV(t, path))
}

func TestWriteInventoryGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "column_distincts.csv.gz")
	inv := &profile.Inventory{
		Header:   profile.InventoryHeader(3),
		Rows:     [][]string{{"a", "x", "y", ""}, {"b", "x", "y", "z"}},
		MaxWidth: 3,
	}

	require.NoError(t, WriteInventory(path, inv, nil))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"File Name", "Column_1", "Column_2", "Column_3"}, records[0])
	assert.Equal(t, []string{"a", "x", "y", ""}, records[1])
	for _, r := range records {
		assert.Len(t, r, 4)
	}
}

func TestQuotedCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	dest, err := New(path, nil)
	require.NoError(t, err)

	require.NoError(t, dest.WriteAll([]string{"File Name", "Column_1"}, [][]string{{"weird", "a,b \"c\""}}))

	records := readCSV(t, path)
	assert.Equal(t, "a,b \"c\"", records[1][1])
}
