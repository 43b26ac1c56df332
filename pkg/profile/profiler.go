package profile

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/logger"
	"github.com/ajitpratap0/docqual/pkg/metrics"
	"github.com/ajitpratap0/docqual/pkg/models"
	"github.com/ajitpratap0/docqual/pkg/observability"
)

// Profiling stages, used in failures, metrics and spans.
const (
	StageMaterialize = "materialize"
	StageProject     = "project"
	StageMissing     = "missing"
	StageUniqueness  = "uniqueness"
	StageOutliers    = "outliers"
	StageDuplicates  = "duplicates"
)

// Profiler profiles collections read from a source.
type Profiler struct {
	source  core.Source
	logger  *zap.Logger
	workers int
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithWorkers bounds how many collections are profiled concurrently.
// Values below one mean one.
func WithWorkers(n int) Option {
	return func(p *Profiler) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(p *Profiler) {
		p.logger = l
	}
}

// NewProfiler creates a profiler reading from source.
func NewProfiler(source core.Source, opts ...Option) *Profiler {
	p := &Profiler{
		source:  source,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}
	return p
}

// ProfileAll profiles names and returns their reports in the order given.
// A failing collection becomes a failed report; it never stops the others.
func (p *Profiler) ProfileAll(ctx context.Context, names []string) *ReportSet {
	results := make([]*Report, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = p.ProfileCollection(gctx, name)
			return nil
		})
	}
	_ = g.Wait()

	set := NewReportSet()
	for _, r := range results {
		set.Add(r)
	}
	return set
}

// ProfileCollection materializes one collection and profiles it.
func (p *Profiler) ProfileCollection(ctx context.Context, name string) *Report {
	ctx = context.WithValue(ctx, logger.CollectionKey, name)
	log := logger.FromContext(ctx, p.logger)
	ctx, span := observability.StartSpan(ctx, "profile.collection")
	span.SetAttribute("collection", name)
	defer span.End()

	log.Info("Analyzing collection")

	var docs []models.Document
	err := runStage(StageMaterialize, func() error {
		var err error
		docs, err = p.source.Materialize(ctx, name)
		return err
	})
	if err != nil {
		return p.failed(log, span, name, err)
	}
	metrics.DocumentsScanned.Add(float64(len(docs)))
	span.SetAttribute("documents", len(docs))

	if len(docs) == 0 {
		log.Info("Collection is empty")
		metrics.CollectionsProfiled.WithLabelValues(string(StatusEmpty)).Inc()
		span.RecordError(nil)
		return &Report{Collection: name, Status: StatusEmpty}
	}

	report, err := Analyze(docs)
	if err != nil {
		return p.failed(log, span, name, err)
	}

	log.Info("Collection profiled",
		zap.Int("rows", report.RowCount),
		zap.Int("columns", report.ColumnCount),
		zap.Int("duplicates", report.DuplicateRows),
		zap.Int("numeric_columns", len(report.Outliers)))
	metrics.CollectionsProfiled.WithLabelValues(string(StatusProfiled)).Inc()
	span.RecordError(nil)

	return &Report{Collection: name, Status: StatusProfiled, Profile: report}
}

func (p *Profiler) failed(log *zap.Logger, span *observability.Span, name string, err error) *Report {
	stage := StageOf(err)
	log.Error("Collection could not be profiled", zap.String("stage", stage), zap.Error(err))
	metrics.CollectionsProfiled.WithLabelValues(string(StatusFailed)).Inc()
	span.SetAttribute("stage", stage)
	span.RecordError(err)

	return &Report{
		Collection: name,
		Status:     StatusFailed,
		Failure:    &Failure{Stage: stage, Message: err.Error()},
	}
}

// Analyze runs the projector and every calculator over a non-empty
// collection. The returned error carries the failing stage; see StageOf.
func Analyze(docs []models.Document) (*CollectionReport, error) {
	if len(docs) == 0 {
		return nil, stageError(StageProject, errors.New(errors.ErrorTypeCalculator, "collection is empty"))
	}

	var (
		proj     Projection
		missing  map[string]Missing
		unique   map[string]int
		outliers map[string]OutlierStats
		dups     int
	)

	stages := []struct {
		name string
		fn   func() error
	}{
		{StageProject, func() error { proj = Project(docs); return nil }},
		{StageMissing, func() (err error) { missing, err = MissingValues(proj); return err }},
		{StageUniqueness, func() error { unique = Uniqueness(proj); return nil }},
		{StageOutliers, func() (err error) { outliers, err = Outliers(proj); return err }},
		{StageDuplicates, func() error { dups = DuplicateRows(proj); return nil }},
	}
	for _, s := range stages {
		if err := runStage(s.name, s.fn); err != nil {
			return nil, err
		}
	}

	outlierTotal := 0
	for _, s := range outliers {
		outlierTotal += s.OutlierCount
	}
	metrics.OutlierValues.Add(float64(outlierTotal))

	types := make(map[string]string, len(proj.Columns))
	for _, c := range proj.Columns {
		types[c.Name] = c.Type.String()
	}

	return &CollectionReport{
		RowCount:      proj.RowCount(),
		ColumnCount:   len(proj.Columns),
		Columns:       proj.Columns,
		MissingValues: missing,
		DataTypes:     types,
		Uniqueness:    unique,
		Outliers:      outliers,
		DuplicateRows: dups,
	}, nil
}

// runStage times fn under stage and converts its error or panic into a
// stage-tagged error.
func runStage(stage string, fn func() error) (err error) {
	timer := metrics.NewTimer(stage)
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrorTypeCalculator, "%s panicked: %v", stage, r)
		}
		if err != nil {
			err = stageError(stage, err)
		}
		timer.ObserveStage()
	}()

	return fn()
}

func stageError(stage string, err error) error {
	errType := errors.ErrorTypeCalculator
	if stage == StageMaterialize {
		errType = errors.ErrorTypeSourceUnavailable
	}
	return errors.Wrap(err, errType, fmt.Sprintf("%s stage failed", stage)).WithDetail("stage", stage)
}

// StageOf returns the stage recorded on err, or "unknown".
func StageOf(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		if stage, ok := e.Details["stage"].(string); ok {
			return stage
		}
	}
	return "unknown"
}
