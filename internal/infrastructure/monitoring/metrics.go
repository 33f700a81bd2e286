package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Document outcome labels
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Extraction metrics
	DocumentsTotal   *prometheus.CounterVec
	DocumentDuration prometheus.Histogram
	DocumentSize     prometheus.Histogram
	QueryErrors      *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector registered on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "featurecount_documents_total",
				Help: "Total number of documents processed, by outcome",
			},
			[]string{"status"},
		),
		DocumentDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "featurecount_document_duration_seconds",
				Help:    "Time to parse and count one document",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		DocumentSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "featurecount_document_size_bytes",
				Help:    "Decoded size of processed documents",
				Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
			},
		),
		QueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "featurecount_query_errors_total",
				Help: "Total number of query evaluation failures, by feature",
			},
			[]string{"feature"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "featurecount_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "featurecount_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
	}
}

// RecordDocument records the outcome of one document
func (m *Metrics) RecordDocument(status string, duration time.Duration, size int) {
	if m == nil {
		return
	}
	m.DocumentsTotal.WithLabelValues(status).Inc()
	m.DocumentDuration.Observe(duration.Seconds())
	if size > 0 {
		m.DocumentSize.Observe(float64(size))
	}
}

// RecordQueryError records a failed query evaluation
func (m *Metrics) RecordQueryError(feature string) {
	if m == nil {
		return
	}
	m.QueryErrors.WithLabelValues(feature).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
