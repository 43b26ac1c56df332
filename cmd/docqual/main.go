package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/config"
	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/connector/sources/mongodb"
)

var version = "0.1.0"

// sourceOpener connects to the audited store.
type sourceOpener func(ctx context.Context, cfg *config.Config, log *zap.Logger) (core.Source, error)

func openMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (core.Source, error) {
	src, err := mongodb.New(ctx, mongodb.Config{
		URI:                    cfg.Mongo.URI,
		Database:               cfg.Mongo.Database,
		ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout,
		BatchSize:              int32(cfg.Mongo.BatchSize), //nolint:gosec // validated positive
		ExcludeFields:          cfg.Mongo.ExcludeFields,
		IncludeSystem:          cfg.Mongo.IncludeSystem,
	}, log)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCommand(openMongo).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(open sourceOpener) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "docqual",
		Short: "docqual - data-quality profiling for document databases",
		Long: `docqual profiles every collection of a MongoDB database and writes a
data-quality summary (row/column counts, duplicates, heavily missing columns)
and a column inventory comparing collection structure.

Connection settings come from MONGO_URI and DB_NAME (a .env file is read if
present), an optional YAML config file, DOCQUAL_* variables and flags.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file")
	pf.String("mongo-uri", "", "MongoDB connection URI (default from MONGO_URI or mongodb://localhost:27017/)")
	pf.String("database", "", "Database to audit (default from DB_NAME or thesis_data)")
	pf.String("exclude-fields", "", "Comma-separated fields dropped before profiling (default _id)")
	pf.Int("batch-size", 0, "Cursor batch size (default 1000)")
	pf.String("collections", "", "Comma-separated collections to audit (default all)")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log encoding (json, console)")
	pf.Bool("tracing", false, "Export OpenTelemetry spans to stdout")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newRunCommand(&configFile, open))
	root.AddCommand(newInventoryCommand(&configFile, open))
	root.AddCommand(newListCommand(&configFile, open))
	root.AddCommand(newConfigCommand(&configFile))

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "docqual v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newConfigCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile, cmd.Flags())
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
