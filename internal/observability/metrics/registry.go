// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track one comparison run from extraction to bullets
var (
	// DocumentLinesExtracted measures the number of lines read per document
	DocumentLinesExtracted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docdiff_document_lines",
			Help:    "Number of non-empty lines extracted per document",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
		[]string{"format"},
	)

	// ChangedLinesTotal counts changed lines by tag
	ChangedLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docdiff_changed_lines_total",
			Help: "Total number of added or removed lines found by the diff",
		},
		[]string{"tag"},
	)

	// PassChunksTotal counts chunks sent per summarization pass
	PassChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docdiff_pass_chunks_total",
			Help: "Total number of chunks submitted per summarization pass",
		},
		[]string{"pass"},
	)

	// PassFailuresTotal counts failed chunk summarizations per pass
	PassFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docdiff_pass_failures_total",
			Help: "Total number of failed chunk summarizations per pass",
		},
		[]string{"pass"},
	)

	// SecondPassTriggeredTotal counts runs whose first-pass summary overflowed
	SecondPassTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docdiff_second_pass_triggered_total",
			Help: "Total number of runs that needed a second summarization pass",
		},
	)

	// BulletsRendered tracks the number of bullets in the last rendered list
	BulletsRendered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docdiff_bullets_rendered",
			Help: "Number of bullets in the most recently rendered summary",
		},
	)

	// RunDuration measures a complete comparison run in seconds
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docdiff_run_duration_seconds",
			Help:    "Time taken by a complete comparison run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
)

// WriteTextfile dumps every registered metric to path in the Prometheus text
// format, for collection by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// RecordRunDuration records the duration of a complete run.
func RecordRunDuration(duration time.Duration) {
	RunDuration.Observe(duration.Seconds())
}
