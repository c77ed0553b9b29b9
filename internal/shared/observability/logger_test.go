package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestTracingHandler_AddsSpanContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "lexed", "path", "a.js")
	out := buf.String()
	assert.Contains(t, out, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Contains(t, out, "span_id=00f067aa0ba902b7")
	assert.Contains(t, out, "path=a.js")
}

func TestTracingHandler_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	logger.Info("plain")
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestNewLogger_VerboseLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitTracing_NoEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "esmlex"})
	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}
