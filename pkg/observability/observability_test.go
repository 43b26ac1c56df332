package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(DefaultTracingConfig())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSpansExported(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true

	shutdown, err := InitWithWriter(cfg, &buf)
	require.NoError(t, err)

	ctx, parent := StartSpan(context.Background(), "collection.orders")
	_, span := StartSpan(ctx, "stage.outliers")
	span.SetAttribute("columns", 2)
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("collection", "orders")
	span.End()
	parent.RecordError(errors.New("boom"))
	parent.End()

	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "collection.orders")
	assert.Contains(t, out, "stage.outliers")
	assert.Contains(t, out, "boom")
}

func TestSpanWithoutProvider(t *testing.T) {
	_, span := StartSpan(context.Background(), "noop")
	span.SetAttribute("k", struct{}{})
	span.RecordError(nil)
	span.End()
}
