package tracing

import (
	"context"
	"io"
	"log/slog"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SlogExporter writes finished spans as structured log entries.
type SlogExporter struct {
	mu      sync.Mutex
	logger  *slog.Logger
	stopped bool
}

var _ sdktrace.SpanExporter = (*SlogExporter)(nil)

// NewSlogExporter creates an exporter writing JSON lines to w.
func NewSlogExporter(w io.Writer) *SlogExporter {
	return &SlogExporter{
		logger: slog.New(slog.NewJSONHandler(w, nil)),
	}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *SlogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil
	}

	for _, span := range spans {
		attrs := []slog.Attr{
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.Duration("duration", span.EndTime().Sub(span.StartTime())),
			slog.String("status", span.Status().Code.String()),
		}
		if span.Parent().IsValid() {
			attrs = append(attrs, slog.String("parent_span_id", span.Parent().SpanID().String()))
		}
		for _, kv := range span.Attributes() {
			attrs = append(attrs, slog.Any(string(kv.Key), kv.Value.AsInterface()))
		}
		e.logger.LogAttrs(ctx, slog.LevelInfo, span.Name(), attrs...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *SlogExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	return nil
}
