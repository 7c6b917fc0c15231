// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the pipeline metrics of a comparison run:
//   - lines extracted per document format
//   - changed lines by tag
//   - chunks and failures per summarization pass
//   - second-pass triggers, rendered bullets and run duration
//
// Gateway call metrics live with the summarization gateway. Everything is
// registered with the Prometheus default registry; WriteTextfile exports it
// after a run.
//
// Example usage:
//
//	import "docdiff/internal/observability/metrics"
//
//	func run() {
//	    start := time.Now()
//	    // ... compare documents ...
//	    metrics.RecordChanges(added, removed)
//	    metrics.RecordRunDuration(time.Since(start))
//	}
package metrics
