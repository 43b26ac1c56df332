// Package config provides the configuration system for docqual.
//
// Values are layered, lowest precedence first:
//   - built-in defaults
//   - an optional YAML file, with ${VAR} references expanded
//   - environment variables: MONGO_URI, DB_NAME and DOCQUAL_<SECTION>_<KEY>
//   - command-line flags bound with BindFlags
//
// Example usage:
//
//	cfg, err := config.Load("docqual.yaml", cmd.Flags())
//	if err != nil {
//	    return err
//	}
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	// Mongo holds the connection to the audited database
	Mongo MongoConfig `mapstructure:"mongo" yaml:"mongo"`

	// Profiling controls what is profiled and the report thresholds
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`

	// Performance controls worker parallelism and the run deadline
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`

	// Output names the generated tables
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Observability settings for logging, tracing and metrics
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// MongoConfig describes the document store connection.
type MongoConfig struct {
	URI                    string        `mapstructure:"uri" yaml:"uri"`
	Database               string        `mapstructure:"database" yaml:"database"`
	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout" yaml:"server_selection_timeout"`
	BatchSize              int           `mapstructure:"batch_size" yaml:"batch_size"`
	// ExcludeFields are dropped from every document before profiling
	ExcludeFields []string `mapstructure:"exclude_fields" yaml:"exclude_fields"`
	IncludeSystem bool     `mapstructure:"include_system" yaml:"include_system"`
}

// ProfilingConfig controls the engine.
type ProfilingConfig struct {
	// MissingThreshold is the percent a column's missing share must exceed
	// to count toward MissingPercentOver50.
	MissingThreshold float64 `mapstructure:"missing_threshold" yaml:"missing_threshold"`
	// Collections restricts the run to these names; empty means all.
	Collections []string `mapstructure:"collections" yaml:"collections"`
}

// PerformanceConfig contains concurrency settings.
type PerformanceConfig struct {
	// Workers is the number of collections profiled concurrently
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// OutputConfig names the generated files. Paths ending in ".gz" are gzipped.
type OutputConfig struct {
	SummaryPath    string `mapstructure:"summary_path" yaml:"summary_path"`
	InventoryPath  string `mapstructure:"inventory_path" yaml:"inventory_path"`
	ReportJSONPath string `mapstructure:"report_json_path" yaml:"report_json_path"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// Tracing enables OpenTelemetry spans exported to TracingOutput
	// ("stdout" or a file path).
	Tracing       bool   `mapstructure:"tracing" yaml:"tracing"`
	TracingOutput string `mapstructure:"tracing_output" yaml:"tracing_output"`
	// MetricsFile, when set, receives Prometheus metrics after the run
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"mongo-uri":         "mongo.uri",
	"database":          "mongo.database",
	"exclude-fields":    "mongo.exclude_fields",
	"batch-size":        "mongo.batch_size",
	"collections":       "profiling.collections",
	"missing-threshold": "profiling.missing_threshold",
	"workers":           "performance.workers",
	"timeout":           "performance.timeout",
	"summary":           "output.summary_path",
	"inventory":         "output.inventory_path",
	"report-json":       "output.report_json_path",
	"log-level":         "observability.log_level",
	"log-format":        "observability.log_format",
	"tracing":           "observability.tracing",
	"metrics-file":      "observability.metrics_file",
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.database", "thesis_data")
	v.SetDefault("mongo.server_selection_timeout", 5*time.Second)
	v.SetDefault("mongo.batch_size", 1000)
	v.SetDefault("mongo.exclude_fields", []string{"_id"})
	v.SetDefault("mongo.include_system", false)

	v.SetDefault("profiling.missing_threshold", 50.0)
	v.SetDefault("profiling.collections", []string{})

	v.SetDefault("performance.workers", runtime.NumCPU())
	v.SetDefault("performance.timeout", 30*time.Minute)

	v.SetDefault("output.summary_path", "data_quality_report.csv")
	v.SetDefault("output.inventory_path", "column_distincts.csv")
	v.SetDefault("output.report_json_path", "")

	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.tracing", false)
	v.SetDefault("observability.tracing_output", "stdout")
	v.SetDefault("observability.metrics_file", "")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		// Defaults alone always decode.
		panic(err)
	}
	return cfg
}

// Load builds the configuration from defaults, an optional YAML file, the
// environment and flags. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("DOCQUAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Plain names shared with the ingestion tooling.
	if err := v.BindEnv("mongo.uri", "DOCQUAL_MONGO_URI", "MONGO_URI"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv("mongo.database", "DOCQUAL_MONGO_DATABASE", "DB_NAME"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if path != "" {
		if err := readFile(v, path); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		if err := BindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()

	return &cfg, nil
}

// BindFlags binds every known flag present in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if c.Mongo.BatchSize <= 0 {
		return fmt.Errorf("mongo.batch_size must be positive")
	}
	if c.Profiling.MissingThreshold < 0 || c.Profiling.MissingThreshold > 100 {
		return fmt.Errorf("profiling.missing_threshold must be between 0 and 100")
	}
	if c.Performance.Workers <= 0 {
		return fmt.Errorf("performance.workers must be positive")
	}
	if c.Output.SummaryPath == "" {
		return fmt.Errorf("output.summary_path is required")
	}
	if c.Output.InventoryPath == "" {
		return fmt.Errorf("output.inventory_path is required")
	}
	return nil
}

// YAML renders the configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return out, nil
}

// normalize trims list values; env and flag values arrive comma-separated.
func (c *Config) normalize() {
	c.Mongo.ExcludeFields = splitList(c.Mongo.ExcludeFields)
	c.Profiling.Collections = splitList(c.Profiling.Collections)
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
