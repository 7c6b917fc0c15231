// Package logging provides structured logging utilities.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Configurable log levels
//   - Run ID propagation
//
// Example usage:
//
//	import "docdiff/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger(logging.Options{Level: "debug", Format: "text"}, os.Stderr)
//	    slog.SetDefault(logger)
//	}
package logging
