// Package pipeline orchestrates a database audit: enumerate collections,
// profile them in parallel, flatten the reports, build the column inventory
// and write the output tables.
//
// # Basic Usage
//
//	audit := pipeline.NewAuditPipeline(source, &pipeline.AuditConfig{
//	    Workers:       8,
//	    SummaryPath:   "data_quality_report.csv",
//	    InventoryPath: "column_distincts.csv",
//	}, logger)
//
//	result, err := audit.Run(ctx)
//
// Outputs are written only after every collection has been profiled and the
// inventory has been built. All tables are staged to temporary files first and
// moved into place together, so a run that fails leaves no partial tables and
// never replaces one table without the others.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/connector/destinations/compressed"
	csvdest "github.com/ajitpratap0/docqual/pkg/connector/destinations/csv"
	jsondest "github.com/ajitpratap0/docqual/pkg/connector/destinations/json"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/logger"
	"github.com/ajitpratap0/docqual/pkg/metrics"
	"github.com/ajitpratap0/docqual/pkg/observability"
	"github.com/ajitpratap0/docqual/pkg/profile"
)

// AuditConfig contains the parameters of one audit run.
type AuditConfig struct {
	Workers          int      // Collections profiled concurrently
	MissingThreshold float64  // Percent for the MissingPercentOver50 count
	Collections      []string // Restrict the run to these; empty means all

	SummaryPath    string // Quality summary table
	InventoryPath  string // Column inventory table
	ReportJSONPath string // Optional nested JSON report
	MetricsFile    string // Optional Prometheus textfile
}

// DefaultAuditConfig returns the stock audit configuration.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Workers:          runtime.NumCPU(),
		MissingThreshold: profile.DefaultMissingThreshold,
		SummaryPath:      "data_quality_report.csv",
		InventoryPath:    "column_distincts.csv",
	}
}

// Result is everything a run produced.
type Result struct {
	RunID     string
	Reports   *profile.ReportSet
	Summary   []profile.SummaryRow
	Inventory *profile.Inventory
	Duration  time.Duration
}

// AuditPipeline runs audits against one source.
type AuditPipeline struct {
	source core.Source
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditPipeline creates a pipeline. A nil config uses DefaultAuditConfig.
func NewAuditPipeline(source core.Source, config *AuditConfig, log *zap.Logger) *AuditPipeline {
	if config == nil {
		config = DefaultAuditConfig()
	}
	if log == nil {
		log = logger.Get()
	}
	return &AuditPipeline{source: source, config: config, logger: log}
}

// Config returns the pipeline configuration.
func (p *AuditPipeline) Config() *AuditConfig { return p.config }

// Run profiles every selected collection and writes the configured outputs.
// Per-collection failures appear as ERROR rows; only an unreadable
// collection list, an empty database or an output failure fail the run.
func (p *AuditPipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}

	ctx = context.WithValue(ctx, logger.RunIDKey, result.RunID)
	log := logger.FromContext(ctx, p.logger)
	ctx, span := observability.StartSpan(ctx, "audit.run")
	defer span.End()

	names, err := p.collections(ctx, log)
	if err != nil {
		return result, abort(span, log, err)
	}
	span.SetAttribute("collections", len(names))
	log.Info("Starting audit",
		zap.Int("collections", len(names)),
		zap.Int("workers", p.config.Workers))

	profiler := profile.NewProfiler(p.source,
		profile.WithWorkers(p.config.Workers),
		profile.WithLogger(p.logger))
	result.Reports = profiler.ProfileAll(ctx, names)
	result.Summary = profile.Flatten(result.Reports, p.config.MissingThreshold)

	result.Inventory, err = profile.BuildInventory(ctx, p.source, names, log)
	if err != nil {
		return result, abort(span, log, err)
	}

	if err := p.writeOutputs(result, log); err != nil {
		return result, abort(span, log, err)
	}

	result.Duration = time.Since(start)
	p.logSummary(log, result)
	span.RecordError(nil)

	if p.config.MetricsFile != "" {
		if err := metrics.WriteTextfile(p.config.MetricsFile); err != nil {
			return result, abort(span, log, errors.Wrap(err, errors.ErrorTypeFile, "failed to write metrics file").
				WithDetail("path", p.config.MetricsFile))
		}
	}

	return result, nil
}

// Inventory builds and writes only the column inventory table.
func (p *AuditPipeline) Inventory(ctx context.Context) (*profile.Inventory, error) {
	ctx = context.WithValue(ctx, logger.RunIDKey, uuid.NewString())
	log := logger.FromContext(ctx, p.logger)

	names, err := p.collections(ctx, log)
	if err != nil {
		return nil, err
	}

	inv, err := profile.BuildInventory(ctx, p.source, names, log)
	if err != nil {
		return nil, err
	}
	if err := csvdest.WriteInventory(p.config.InventoryPath, inv, log); err != nil {
		return inv, err
	}
	return inv, nil
}

// Collections lists the collections a run would profile.
func (p *AuditPipeline) Collections(ctx context.Context) ([]string, error) {
	return p.collections(ctx, p.logger)
}

// collections enumerates the source and applies the configured filter,
// keeping enumeration order.
func (p *AuditPipeline) collections(ctx context.Context, log *zap.Logger) ([]string, error) {
	all, err := p.source.ListCollections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "failed to list collections")
	}
	if len(p.config.Collections) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(p.config.Collections))
	for _, name := range p.config.Collections {
		wanted[name] = false
	}

	selected := make([]string, 0, len(wanted))
	for _, name := range all {
		if _, ok := wanted[name]; ok {
			wanted[name] = true
			selected = append(selected, name)
		}
	}
	for name, found := range wanted {
		if !found {
			log.Warn("Requested collection not found", zap.String("collection", name))
		}
	}

	return selected, nil
}

// writeOutputs stages every table and commits them together. Nothing is
// moved into place unless all of them were written.
func (p *AuditPipeline) writeOutputs(result *Result, log *zap.Logger) error {
	var files []*compressed.File
	discard := func(err error) error {
		for _, f := range files {
			err = multierr.Append(err, f.Abort())
		}
		return err
	}

	summary, err := csvdest.StageSummary(p.config.SummaryPath, result.Summary, log)
	if err != nil {
		return discard(err)
	}
	files = append(files, summary)

	inventory, err := csvdest.StageInventory(p.config.InventoryPath, result.Inventory, log)
	if err != nil {
		return discard(err)
	}
	files = append(files, inventory)

	if p.config.ReportJSONPath != "" {
		report, err := jsondest.StageReport(p.config.ReportJSONPath, result.Reports)
		if err != nil {
			return discard(err)
		}
		files = append(files, report)
	}

	if err := compressed.CommitAll(files...); err != nil {
		return err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path()
	}
	log.Info("Outputs written", zap.Strings("paths", paths))
	return nil
}

// abort ends the run with err. An error that alone would only degrade one
// collection is promoted, since at this point the whole store is unreadable.
func abort(span *observability.Span, log *zap.Logger, err error) error {
	if !errors.IsFatal(err) {
		err = errors.Wrap(err, errors.ErrorTypeConnection, "document store unavailable")
	}
	span.RecordError(err)
	log.Error("Audit failed", zap.Error(err))
	return err
}

func (p *AuditPipeline) logSummary(log *zap.Logger, result *Result) {
	counts := result.Reports.Counts()
	fields := []zap.Field{
		zap.Int("profiled", counts[profile.StatusProfiled]),
		zap.Int("empty", counts[profile.StatusEmpty]),
		zap.Int("failed", counts[profile.StatusFailed]),
		zap.Int("inventory_width", result.Inventory.MaxWidth),
		zap.Duration("duration", result.Duration),
	}

	if usage, err := metrics.SampleProcess(); err == nil {
		fields = append(fields,
			zap.Uint64("rss_bytes", usage.RSSBytes),
			zap.Float64("cpu_seconds", usage.CPUSeconds),
			zap.Int32("threads", usage.ThreadCount))
	}

	log.Info("Audit completed", fields...)
}
