package mocks

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"fair/infras/otel"
)

// NewOtel returns a tracer whose spans stay in memory. Used by service and
// repository tests that do not inspect spans.
func NewOtel() otel.Otel {
	tracer, _ := NewRecordingOtel()

	return tracer
}

// NewRecordingOtel also returns the recorder holding every ended span.
func NewRecordingOtel() (otel.Otel, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return otel.NewWithProvider(provider), recorder
}
