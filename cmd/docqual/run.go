package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/internal/pipeline"
	"github.com/ajitpratap0/docqual/pkg/config"
	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/logger"
	"github.com/ajitpratap0/docqual/pkg/observability"
)

func newRunCommand(configFile *string, open sourceOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Profile the database and write the quality tables",
		Long: `Profile every collection and write the quality summary and column
inventory tables. A collection that cannot be read or profiled is reported
with ERROR cells instead of aborting the audit.

The _id field is excluded by default, so it is not counted in ColumnCount,
not listed in the column inventory and not part of duplicate detection.
Reports from tools that kept _id will show one more column per collection.
Pass --exclude-fields "" (or set mongo.exclude_fields: []) to include it.

Example:
  docqual run --database thesis_data --report-json report.json.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAudit(cmd, *configFile, open, func(ctx context.Context, audit *pipeline.AuditPipeline, log *zap.Logger) error {
				result, err := audit.Run(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Data Quality Report saved to: %s\n", audit.Config().SummaryPath)
				fmt.Fprintf(out, "Column-wise report saved to: %s\n", audit.Config().InventoryPath)
				log.Debug("Run finished", zap.String("run_id", result.RunID))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.Int("workers", 0, "Collections profiled concurrently (default NumCPU)")
	f.Duration("timeout", 0, "Overall run timeout (default 30m)")
	f.Float64("missing-threshold", 0, "Missing percent counted by MissingPercentOver50 (default 50)")
	f.String("summary", "", "Quality summary output (default data_quality_report.csv)")
	f.String("inventory", "", "Column inventory output (default column_distincts.csv)")
	f.String("report-json", "", "Also write the full nested report as JSON")
	f.String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	return cmd
}

func newInventoryCommand(configFile *string, open sourceOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Write only the column inventory table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAudit(cmd, *configFile, open, func(ctx context.Context, audit *pipeline.AuditPipeline, _ *zap.Logger) error {
				if _, err := audit.Inventory(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Column-wise report saved to: %s\n", audit.Config().InventoryPath)
				return nil
			})
		},
	}
	cmd.Flags().String("inventory", "", "Column inventory output (default column_distincts.csv)")
	cmd.Flags().Duration("timeout", 0, "Overall run timeout (default 30m)")
	return cmd
}

func newListCommand(configFile *string, open sourceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the collections an audit would profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAudit(cmd, *configFile, open, func(ctx context.Context, audit *pipeline.AuditPipeline, _ *zap.Logger) error {
				names, err := audit.Collections(ctx)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
				}
				return nil
			})
		},
	}
}

// withAudit loads configuration, sets up logging and tracing, opens the
// source and hands an audit pipeline to fn. Close and shutdown errors are
// combined with fn's error.
func withAudit(cmd *cobra.Command, configFile string, open sourceOpener,
	fn func(context.Context, *pipeline.AuditPipeline, *zap.Logger) error) (err error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogFormat,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.With(zap.String("database", cfg.Mongo.Database))
	defer func() { _ = logger.Sync() }()

	tracing := observability.DefaultTracingConfig()
	tracing.Enabled = cfg.Observability.Tracing
	tracing.Output = cfg.Observability.TracingOutput
	tracing.ServiceVersion = version
	shutdown, err := observability.Init(tracing)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Performance.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Performance.Timeout)
		defer cancel()
	}
	defer func() {
		err = multierr.Append(err, shutdown(context.Background()))
	}()

	src, err := open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func(src core.Source) {
		err = multierr.Append(err, src.Close(context.Background()))
	}(src)

	audit := pipeline.NewAuditPipeline(src, auditConfig(cfg), log)
	return fn(ctx, audit, log)
}

func auditConfig(cfg *config.Config) *pipeline.AuditConfig {
	return &pipeline.AuditConfig{
		Workers:          cfg.Performance.Workers,
		MissingThreshold: cfg.Profiling.MissingThreshold,
		Collections:      cfg.Profiling.Collections,
		SummaryPath:      cfg.Output.SummaryPath,
		InventoryPath:    cfg.Output.InventoryPath,
		ReportJSONPath:   cfg.Output.ReportJSONPath,
		MetricsFile:      cfg.Observability.MetricsFile,
	}
}
