// Package observability wires OpenTelemetry tracing for profiling runs.
//
// Tracing is off unless Init is called with Enabled set; until then spans
// started through StartSpan go to the no-op global provider.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/multierr"
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	SamplingRate   float64
	// Output is "stdout" or a file path receiving JSON spans
	Output       string
	BatchTimeout time.Duration
}

// DefaultTracingConfig returns tracing settings for a single CLI run.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "docqual",
		ServiceVersion: "dev",
		SamplingRate:   1.0,
		Output:         "stdout",
		BatchTimeout:   time.Second,
	}
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init installs a global tracer provider exporting to config.Output. The
// returned ShutdownFunc must be called before exit to flush pending spans.
func Init(config TracingConfig) (ShutdownFunc, error) {
	if !config.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	return InitWithWriter(config, nil)
}

// InitWithWriter is Init with an explicit span destination. A nil w falls
// back to config.Output.
func InitWithWriter(config TracingConfig, w io.Writer) (ShutdownFunc, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var closer io.Closer
	if w == nil {
		switch config.Output {
		case "", "stdout":
			w = os.Stdout
		default:
			f, err := os.Create(config.Output) //nolint:gosec // operator supplied path
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w, closer = f, f
		}
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			err = multierr.Append(err, closer.Close())
		}
		return err
	}, nil
}
