// Package metrics provides Prometheus metrics for the agent dashboard store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Collection metrics
	mutations      *prometheus.CounterVec
	collectionSize *prometheus.GaugeVec

	// Persistence metrics
	persistenceWrites   *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec

	// Import metrics
	imports        *prometheus.CounterVec
	importRows     *prometheus.CounterVec
	importLatency  prometheus.Histogram
	importQueue    prometheus.Gauge
	importQueueCap prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
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
		namespace:        "agentdesk",
		subsystem:        "store",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutations_total",
		Help:      "Collection mutations by collection and operation",
	}, []string{"collection", "op"})

	m.collectionSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collection_size",
		Help:      "Current number of records per collection",
	}, []string{"collection"})

	m.persistenceWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persistence_writes_total",
		Help:      "Successful full-value writes to the backing store",
	}, []string{"key"})

	m.persistenceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persistence_failures_total",
		Help:      "Backing store reads or writes that failed and were dropped",
	}, []string{"key", "op"})

	m.imports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imports_total",
		Help:      "Import attempts by collection, format and outcome",
	}, []string{"collection", "format", "outcome"})

	m.importRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_rows_total",
		Help:      "Records added or restored by imports",
	}, []string{"collection"})

	m.importLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_latency_milliseconds",
		Help:      "Time to apply one queued import job",
		Buckets:   m.histogramBuckets,
	})

	m.importQueue = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_queue_size",
		Help:      "Import jobs waiting to be applied",
	})

	m.importQueueCap = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_queue_capacity",
		Help:      "Maximum number of waiting import jobs",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global returns the global manager.
func Global() *Manager {
	return globalManager
}

// Collection metrics.

func (m *Manager) RecordMutation(collection, op string) {
	if m.enabled {
		m.mutations.WithLabelValues(collection, op).Inc()
	}
}

func (m *Manager) UpdateCollectionSize(collection string, size int) {
	if m.enabled {
		m.collectionSize.WithLabelValues(collection).Set(float64(size))
	}
}

// Persistence metrics.

func (m *Manager) RecordPersistenceWrite(key string) {
	if m.enabled {
		m.persistenceWrites.WithLabelValues(key).Inc()
	}
}

func (m *Manager) RecordPersistenceFailure(key, op string) {
	if m.enabled {
		m.persistenceFailures.WithLabelValues(key, op).Inc()
	}
}

// Import metrics.

func (m *Manager) RecordImport(collection, format, outcome string, rows int) {
	if !m.enabled {
		return
	}
	m.imports.WithLabelValues(collection, format, outcome).Inc()
	if rows > 0 {
		m.importRows.WithLabelValues(collection).Add(float64(rows))
	}
}

func (m *Manager) RecordImportLatency(latencyMs float64) {
	if m.enabled {
		m.importLatency.Observe(latencyMs)
	}
}

func (m *Manager) UpdateImportQueue(size, capacity int) {
	if m.enabled {
		m.importQueue.Set(float64(size))
		m.importQueueCap.Set(float64(capacity))
	}
}

// HTTP metrics.

func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if m.enabled {
		m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// Package-level helpers delegate to the global manager.

func RecordMutation(collection, op string) { globalManager.RecordMutation(collection, op) }
func UpdateCollectionSize(collection string, size int) {
	globalManager.UpdateCollectionSize(collection, size)
}
func RecordPersistenceWrite(key string)       { globalManager.RecordPersistenceWrite(key) }
func RecordPersistenceFailure(key, op string) { globalManager.RecordPersistenceFailure(key, op) }
func RecordImportLatency(latencyMs float64)   { globalManager.RecordImportLatency(latencyMs) }
func UpdateImportQueue(size, capacity int)    { globalManager.UpdateImportQueue(size, capacity) }
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

func RecordImport(collection, format, outcome string, rows int) {
	globalManager.RecordImport(collection, format, outcome, rows)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}
