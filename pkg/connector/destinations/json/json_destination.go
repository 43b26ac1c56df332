// Package json writes the full nested quality report as JSON.
package json

import (
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/compression"
	"github.com/ajitpratap0/docqual/pkg/connector/destinations/compressed"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/profile"
)

// WriteReport writes the report set to path as an indented JSON object
// keyed by collection, in enumeration order.
func WriteReport(path string, set *profile.ReportSet, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := StageReport(path, set)
	if err != nil {
		return err
	}
	if err := f.Commit(); err != nil {
		return err
	}

	logger.Info("Report written",
		zap.String("destination", "json"),
		zap.String("path", path),
		zap.Int("collections", set.Len()))
	return nil
}

// StageReport encodes the report set without committing the file.
func StageReport(path string, set *profile.ReportSet) (*compressed.File, error) {
	f, err := compressed.Create(path, compression.Default)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		_ = f.Abort()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to encode report").WithDetail("path", path)
	}
	return f, nil
}
