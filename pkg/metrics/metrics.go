// Package metrics provides Prometheus instrumentation for profiling runs.
//
//	timer := metrics.NewTimer("outliers")
//	computeOutliers(p)
//	timer.ObserveStage()
//
// A run can be exported for the node_exporter textfile collector with
// WriteTextfile once the run is complete.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectionsProfiled counts collections by terminal state
	// (profiled, empty, failed).
	CollectionsProfiled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqual_collections_profiled_total",
			Help: "Collections profiled, by terminal status",
		},
		[]string{"status"},
	)

	// DocumentsScanned counts documents materialized for profiling.
	DocumentsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docqual_documents_scanned_total",
			Help: "Documents materialized for profiling",
		},
	)

	// OutlierValues counts values falling outside IQR fences.
	OutlierValues = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docqual_outlier_values_total",
			Help: "Numeric values outside the IQR fences",
		},
	)

	// StageDuration tracks how long each profiling stage takes.
	// Labels: stage (materialize, project, missing, uniqueness, outliers,
	// duplicates, collection, inventory)
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docqual_stage_duration_seconds",
			Help:    "Duration of profiling stages in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"stage"},
	)

	// LastRunTimestamp is set when a run finishes.
	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docqual_last_run_timestamp_seconds",
			Help: "Unix time of the last completed profiling run",
		},
	)
)

// Timer measures a single stage.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ObserveStage records the elapsed time under the timer's stage label and
// returns it.
func (t *Timer) ObserveStage() time.Duration {
	d := t.Stop()
	StageDuration.WithLabelValues(t.name).Observe(d.Seconds())
	return d
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// format. The file is written atomically.
func WriteTextfile(path string) error {
	LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
