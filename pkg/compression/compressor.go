// Package compression wraps report outputs in a compression stream chosen
// from the file extension.
//
// Supported extensions:
//   - .gz: gzip, readable by any spreadsheet pipeline after gunzip
//   - .zst: zstandard
//   - .sz: framed snappy
//   - .s2: s2 (snappy compatible)
//   - .lz4: lz4 frames
//
// Any other extension is written uncompressed.
//
//	w, err := compression.NewWriter(file, compression.FromPath(path), compression.Default)
//	...
//	defer w.Close() // flushes the compressed stream, not file
package compression

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Best maximizes compression ratio.
	Best Level = 9
)

var extensions = map[string]Algorithm{
	".gz":  Gzip,
	".zst": Zstd,
	".sz":  Snappy,
	".s2":  S2,
	".lz4": LZ4,
}

// FromPath returns the algorithm implied by a file name's extension.
func FromPath(path string) Algorithm {
	if alg, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return alg
	}
	return None
}

// nopCloser turns a writer into a WriteCloser that does not close it.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter returns a writer compressing into w. Closing it flushes the
// compressed stream but leaves w open.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopCloser{w}, nil
	case Gzip:
		return gzip.NewWriterLevel(w, gzipLevel(level))
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstdLevel(level)))
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		opts := []s2.WriterOption{}
		if level >= Best {
			opts = append(opts, s2.WriterBestCompression())
		}
		return s2.NewWriter(w, opts...), nil
	case LZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
			return nil, fmt.Errorf("failed to configure lz4: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// NewReader returns a reader decompressing r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

func gzipLevel(level Level) int {
	switch {
	case level <= Fastest:
		return gzip.BestSpeed
	case level >= Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func zstdLevel(level Level) zstd.EncoderLevel {
	switch {
	case level <= Fastest:
		return zstd.SpeedFastest
	case level >= Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func lz4Level(level Level) lz4.CompressionLevel {
	switch {
	case level <= Fastest:
		return lz4.Fast
	case level >= Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}
