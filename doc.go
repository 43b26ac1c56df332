// Package docqual profiles schema-less document collections and produces
// repeatable data-quality reports.
//
// For every collection of a database docqual computes row and column
// counts, per-column missingness, inferred types, distinct-value counts,
// IQR outliers for numeric columns and duplicate documents. The reports are
// flattened into one comparable row per collection, and an independent
// pass lists each collection's columns side by side.
//
// # Quick Start
//
//	docqual run --database thesis_data
//
// writes data_quality_report.csv and column_distincts.csv. MONGO_URI and
// DB_NAME are read from the environment or a .env file.
//
// # Library Use
//
//	src, _ := mongodb.New(ctx, mongodb.Config{URI: uri, Database: "thesis_data"}, logger)
//	defer src.Close(ctx)
//
//	result, err := pipeline.NewAuditPipeline(src, pipeline.DefaultAuditConfig(), logger).Run(ctx)
//
// Any core.Source can be profiled; sources/memory is an in-process source
// for tests and embedding.
//
// # Key Packages
//
//	pkg/profile                    - Projector, metric calculators, profiler, flattener, inventory
//	pkg/models                     - Tagged document values
//	pkg/connector/sources/mongodb  - MongoDB materializer
//	pkg/connector/destinations     - CSV and JSON outputs, compressed atomic files
//	internal/pipeline              - Audit orchestration
//	pkg/config                     - Layered configuration (defaults, YAML, env, flags)
//	pkg/logger                     - Structured logging
//	pkg/metrics                    - Prometheus instrumentation
//	pkg/observability              - OpenTelemetry tracing
//
// # Failure Handling
//
// A collection that cannot be read or profiled becomes an ERROR row naming
// the failed stage; the rest of the audit continues. Only an unreadable
// collection list, an empty database or an output failure fail the run.
package docqual
