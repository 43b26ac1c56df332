package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"data_quality_report.csv":    None,
		"data_quality_report.csv.gz": Gzip,
		"out/REPORT.JSON.GZ":         Gzip,
		"inv.csv.zst":                Zstd,
		"inv.csv.sz":                 Snappy,
		"inv.csv.s2":                 S2,
		"inv.csv.lz4":                LZ4,
	}
	for path, want := range tests {
		assert.Equal(t, want, FromPath(path), path)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	payload := strings.Repeat("Collection,RowCount,ColumnCount\norders,4,2\n", 200)

	for _, alg := range []Algorithm{None, Gzip, Zstd, Snappy, S2, LZ4} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, alg, level)
				require.NoError(t, err)
				_, err = io.WriteString(w, payload)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(payload))
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				assert.Equal(t, payload, string(got))
			})
		}
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewWriter(io.Discard, "brotli", Default)
	assert.Error(t, err)
	_, err = NewReader(strings.NewReader(""), "brotli")
	assert.Error(t, err)
}
