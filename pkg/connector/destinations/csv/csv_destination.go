// Package csv writes the quality summary and column inventory tables as
// comma-separated text with a header row.
//
// Outputs are written to a temporary file and moved into place only when
// complete; a path ending in .gz (or another extension known to the
// compression package) is compressed accordingly.
//
//	dest, err := csv.New("data_quality_report.csv", logger)
//	if err != nil {
//	    return err
//	}
//	if err := dest.WriteAll(header, rows); err != nil {
//	    return err
//	}
package csv

import (
	"encoding/csv"

	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/compression"
	"github.com/ajitpratap0/docqual/pkg/connector/destinations/compressed"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/profile"
)

// Destination writes one CSV table.
type Destination struct {
	file   *compressed.File
	writer *csv.Writer
	logger *zap.Logger
	rows   int
}

// New opens a table at path.
func New(path string, logger *zap.Logger) (*Destination, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := compressed.Create(path, compression.Default)
	if err != nil {
		return nil, err
	}

	return &Destination{
		file:   f,
		writer: csv.NewWriter(f),
		logger: logger.With(zap.String("destination", "csv"), zap.String("path", path)),
	}, nil
}

// Write writes one record.
func (d *Destination) Write(record []string) error {
	if err := d.writer.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row")
	}
	d.rows++
	return nil
}

// WriteAll writes the header and rows, then commits the file. On error the
// partial file is discarded.
func (d *Destination) WriteAll(header []string, rows [][]string) error {
	if _, err := d.Stage(header, rows); err != nil {
		return err
	}
	return d.Close()
}

// Stage writes the header and rows and flushes them without committing. The
// returned file is committed by the caller, usually with compressed.CommitAll.
func (d *Destination) Stage(header []string, rows [][]string) (*compressed.File, error) {
	if err := d.Write(header); err != nil {
		_ = d.Abort()
		return nil, err
	}
	for _, row := range rows {
		if err := d.Write(row); err != nil {
			_ = d.Abort()
			return nil, err
		}
	}

	d.writer.Flush()
	if err := d.writer.Error(); err != nil {
		_ = d.Abort()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV")
	}

	d.logger.Debug("Table staged", zap.Int("rows", d.rows))
	return d.file, nil
}

// Close flushes and commits the table.
func (d *Destination) Close() error {
	d.writer.Flush()
	if err := d.writer.Error(); err != nil {
		_ = d.file.Abort()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV")
	}
	if err := d.file.Commit(); err != nil {
		return err
	}

	d.logger.Info("Table written",
		zap.Int("rows", d.rows),
		zap.String("compression", string(d.file.Algorithm())))
	return nil
}

// Abort discards the table.
func (d *Destination) Abort() error {
	return d.file.Abort()
}

// WriteSummary writes the quality summary table.
func WriteSummary(path string, rows []profile.SummaryRow, logger *zap.Logger) error {
	f, err := StageSummary(path, rows, logger)
	if err != nil {
		return err
	}
	return f.Commit()
}

// StageSummary writes the quality summary table without committing it.
func StageSummary(path string, rows []profile.SummaryRow, logger *zap.Logger) (*compressed.File, error) {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.Record()
	}

	dest, err := New(path, logger)
	if err != nil {
		return nil, err
	}
	return dest.Stage(profile.SummaryHeader, records)
}

// WriteInventory writes the column inventory table.
func WriteInventory(path string, inv *profile.Inventory, logger *zap.Logger) error {
	f, err := StageInventory(path, inv, logger)
	if err != nil {
		return err
	}
	return f.Commit()
}

// StageInventory writes the column inventory table without committing it.
func StageInventory(path string, inv *profile.Inventory, logger *zap.Logger) (*compressed.File, error) {
	dest, err := New(path, logger)
	if err != nil {
		return nil, err
	}
	return dest.Stage(inv.Header, inv.Rows)
}
