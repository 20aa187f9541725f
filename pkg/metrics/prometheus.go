// Package metrics provides Prometheus metrics for the activscan service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the activscan service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Detection metrics
	batchesScored  prometheus.Counter
	rowsScored     prometheus.Counter
	anomalies      prometheus.Counter
	degradedRows   prometheus.Counter
	scoringLatency prometheus.Histogram
	schemaErrors   prometheus.Counter
	scoringErrors  prometheus.Counter

	// Queue and worker metrics
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueued   prometheus.Counter
	queueDequeued   prometheus.Counter
	queueRejections prometheus.Counter
	workerActive    prometheus.Gauge

	// Result store metrics
	storeSize      prometheus.Gauge
	storeEvictions prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "activscan",
		subsystem:        "detector",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		customLabels:     map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.batchesScored = m.counter("batches_scored_total", "Total number of batches scored")
	m.rowsScored = m.counter("rows_scored_total", "Total number of activation records scored")
	m.anomalies = m.counter("anomalies_total", "Total number of records labeled anomalous")
	m.degradedRows = m.counter("degraded_rows_total", "Records scored with at least one missing feature")
	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_latency_milliseconds",
		Help:        "Histogram of per-batch scoring latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
	m.schemaErrors = m.counter("schema_errors_total", "Batches rejected for missing required columns")
	m.scoringErrors = m.counter("scoring_errors_total", "Batches that failed for reasons other than schema")

	m.queueSize = m.gauge("queue_size", "Current number of pending scoring jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of pending scoring jobs")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueRejections = m.counter("queue_rejections_total", "Jobs rejected because the queue was full")
	m.workerActive = m.gauge("worker_active_count", "Number of workers currently scoring a batch")

	m.storeSize = m.gauge("result_store_size", "Number of scored batches kept for download")
	m.storeEvictions = m.counter("result_store_evictions_total", "Scored batches evicted from the result store")

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordBatch records one successfully scored batch.
func (m *Manager) RecordBatch(rows, anomalies, degraded int, latencyMs float64) {
	m.batchesScored.Inc()
	m.rowsScored.Add(float64(rows))
	m.anomalies.Add(float64(anomalies))
	m.degradedRows.Add(float64(degraded))
	m.scoringLatency.Observe(latencyMs)
}

// RecordBatch records one successfully scored batch on the global manager.
func RecordBatch(rows, anomalies, degraded int, latencyMs float64) {
	globalManager.RecordBatch(rows, anomalies, degraded, latencyMs)
}

// RecordSchemaError increments the schema errors counter.
func RecordSchemaError() {
	globalManager.schemaErrors.Inc()
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejection increments the queue-full counter.
func RecordQueueRejection() {
	globalManager.queueRejections.Inc()
}

// AddWorkerActive adjusts the active worker gauge by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// UpdateStoreSize sets the number of stored results.
func UpdateStoreSize(size int) {
	globalManager.storeSize.Set(float64(size))
}

// RecordStoreEviction increments the eviction counter.
func RecordStoreEviction() {
	globalManager.storeEvictions.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
