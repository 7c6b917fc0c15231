// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created for every run, summarization pass and gateway chunk call.
// Without Setup the global no-op provider is active and spans cost nothing;
// Setup installs an SDK provider that writes finished spans as JSON lines.
//
// Example usage:
//
//	import "docdiff/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.Setup(os.Stderr)
//	    defer shutdown(context.Background())
//	}
//
//	func process(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process")
//	    defer span.End()
//	}
package tracing
