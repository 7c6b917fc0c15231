package tracing

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by docdiff.
const InstrumentationName = "docdiff"

// GetTracer returns the tracer of the currently installed global provider.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(InstrumentationName)
}

// Setup installs a global tracer provider that logs every finished span to w.
// The returned function flushes and shuts the provider down.
func Setup(w io.Writer) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(NewSlogExporter(w)),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", InstrumentationName),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown
}
