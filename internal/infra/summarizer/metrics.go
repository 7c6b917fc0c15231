package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes recorded by the gateway.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeTimeout     = "timeout"
)

// MetricsRecorder abstracts the metrics recording implementation so tests can
// inject a recorder instead of Prometheus.
type MetricsRecorder interface {
	// RecordCall counts one gateway call by pass and outcome.
	RecordCall(pass Pass, outcome string)

	// RecordDuration records the time taken by one gateway call.
	RecordDuration(pass Pass, duration time.Duration)

	// RecordLength records the length of a returned summary in characters.
	RecordLength(pass Pass, length int)
}

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	length   *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// registerOrExisting registers c with the default registerer, returning the
// already registered collector on a duplicate registration.
func registerOrExisting[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			calls: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "docdiff_summarizer_calls_total",
				Help: "Total number of summarization gateway calls by pass and outcome",
			}, []string{"pass", "outcome"})),
			duration: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "docdiff_summarizer_call_duration_seconds",
				Help:    "Time taken by one summarization gateway call",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			}, []string{"pass"})),
			length: registerOrExisting(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "docdiff_summary_length_characters",
				Help:    "Distribution of returned summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 400, 800, 1600, 3200, 6400},
			}, []string{"pass"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordCall implements MetricsRecorder.RecordCall
func (p *PrometheusMetrics) RecordCall(pass Pass, outcome string) {
	p.calls.WithLabelValues(string(pass), outcome).Inc()
}

// RecordDuration implements MetricsRecorder.RecordDuration
func (p *PrometheusMetrics) RecordDuration(pass Pass, duration time.Duration) {
	p.duration.WithLabelValues(string(pass)).Observe(duration.Seconds())
}

// RecordLength implements MetricsRecorder.RecordLength
func (p *PrometheusMetrics) RecordLength(pass Pass, length int) {
	p.length.WithLabelValues(string(pass)).Observe(float64(length))
}
