// Package metrics provides Prometheus metrics export for hackbot operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrygo/hackbot/internal/apperr"
)

const namespace = "hackbot"

// Operation names used as label values.
const (
	OperationAnswer  = "answer"
	OperationSpeech  = "speech"
	OperationConvert = "convert"
)

// PrometheusExporter exports hackbot metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Request metrics
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec

	// LLM metrics
	llmTokens  *prometheus.CounterVec
	llmLatency *prometheus.HistogramVec

	// Media metrics
	speechBytes    *prometheus.CounterVec
	conversionRows *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64

	// RuntimeCollectors adds the Go runtime and process collectors.
	RuntimeCollectors bool
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets:    []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		RuntimeCollectors: true,
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of operations by outcome",
		},
		[]string{"operation", "status"},
	)

	e.requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_seconds",
			Help:      "Operation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation"},
	)

	e.errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of failed operations by error kind",
		},
		[]string{"operation", "kind"},
	)

	e.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model", "provider"},
	)

	e.speechBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_bytes_total",
			Help:      "Total MP3 bytes rendered",
		},
		[]string{"lang"},
	)

	e.conversionRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_rows_total",
			Help:      "Total data rows converted",
		},
		[]string{"direction"},
	)

	registry.MustRegister(
		e.requests,
		e.requestLatency,
		e.errors,
		e.llmTokens,
		e.llmLatency,
		e.speechBytes,
		e.conversionRows,
	)
	if cfg.RuntimeCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return e
}

// RecordRequest records one operation outcome. A non-nil err is also counted
// under its taxonomy kind.
func (e *PrometheusExporter) RecordRequest(operation string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		e.errors.WithLabelValues(operation, apperr.KindOf(err).String()).Inc()
	}

	e.requests.WithLabelValues(operation, status).Inc()
	e.requestLatency.WithLabelValues(operation).Observe(latency.Seconds())
}

// RecordLLMTokens records LLM token usage.
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	if count <= 0 {
		return
	}
	e.llmTokens.WithLabelValues(model, tokenType).Add(float64(count))
}

// RecordLLMLatency records LLM request latency.
func (e *PrometheusExporter) RecordLLMLatency(model, provider string, latency time.Duration) {
	e.llmLatency.WithLabelValues(model, provider).Observe(latency.Seconds())
}

// RecordSpeechBytes records the size of a rendered MP3.
func (e *PrometheusExporter) RecordSpeechBytes(lang string, n int) {
	e.speechBytes.WithLabelValues(lang).Add(float64(n))
}

// RecordConversionRows records rows converted in one direction, e.g. "csv_to_xlsx".
func (e *PrometheusExporter) RecordConversionRows(direction string, rows int) {
	e.conversionRows.WithLabelValues(direction).Add(float64(rows))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ServeHTTP implements http.Handler for the metrics endpoint.
func (e *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Handler().ServeHTTP(w, r)
}
