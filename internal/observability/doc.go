// Package observability provides the observability infrastructure for docdiff
// including structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: structured logging with slog, written to stderr
//   - metrics: Prometheus pipeline metrics and textfile export
//   - tracing: OpenTelemetry tracer access and a slog span exporter
//
// Example usage:
//
//	import (
//	    "docdiff/internal/observability/logging"
//	    "docdiff/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger(logging.Options{Level: "info"}, os.Stderr)
//	    logger.Info("run started")
//
//	    metrics.RecordChanges(3, 1)
//	}
package observability
