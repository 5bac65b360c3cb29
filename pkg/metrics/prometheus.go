// Package metrics provides Prometheus metrics for the pitchside service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	imbalanceBuckets []float64
	registry         prometheus.Registerer

	// Roster
	playersTotal      prometheus.Gauge
	scoreComputations prometheus.Counter
	scoreWeight       *prometheus.GaugeVec
	matchesRecorded   prometheus.Counter

	// Team generation
	partitions          *prometheus.CounterVec
	partitionLatency    *prometheus.HistogramVec
	partitionImbalance  prometheus.Histogram
	partitionCandidates prometheus.Counter
	partitionRejected   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var (
	mu             sync.RWMutex
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry
	globalManager  = NewManager(WithPrometheusRegistry(customRegistry))
)

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchside",
		subsystem:        "teams",
		histogramBuckets: prometheus.DefBuckets,
		imbalanceBuckets: []float64{0, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.playersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_total",
		Help:      "Number of players on the roster",
	})
	m.scoreComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_computations_total",
		Help:      "Total number of player ratings computed",
	})
	m.scoreWeight = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_weight",
		Help:      "Current scoring weight by factor",
	}, []string{"factor"})
	m.matchesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_recorded_total",
		Help:      "Total number of matches recorded",
	})

	m.partitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partitions_total",
		Help:      "Total number of team partitions generated by strategy",
	}, []string{"strategy"})
	m.partitionLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partition_latency_milliseconds",
		Help:      "Time spent partitioning a pool in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"strategy"})
	m.partitionImbalance = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partition_imbalance",
		Help:      "Absolute score difference between the generated teams",
		Buckets:   m.imbalanceBuckets,
	})
	m.partitionCandidates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partition_candidates_total",
		Help:      "Size-valid subsets evaluated by the exact partitioner",
	})
	m.partitionRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partition_rejected_total",
		Help:      "Partition requests rejected by reason",
	}, []string{"reason"})

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
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_type_total",
		Help:      "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Allocated heap memory in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

func current() *Manager {
	mu.RLock()
	defer mu.RUnlock()
	return globalManager
}

// UpdatePlayersTotal sets the roster size.
func UpdatePlayersTotal(count int) {
	current().playersTotal.Set(float64(count))
}

// RecordScoreComputations adds n computed ratings.
func RecordScoreComputations(n int) {
	current().scoreComputations.Add(float64(n))
}

// UpdateScoreWeights publishes the active scoring weights.
func UpdateScoreWeights(goalFactor, assistFactor float64) {
	m := current()
	m.scoreWeight.WithLabelValues("goal").Set(goalFactor)
	m.scoreWeight.WithLabelValues("assist").Set(assistFactor)
}

// RecordMatchRecorded increments the recorded matches counter.
func RecordMatchRecorded() {
	current().matchesRecorded.Inc()
}

// RecordPartition records one generated partition.
func RecordPartition(strategy string, latencyMs, imbalance float64) {
	m := current()
	m.partitions.WithLabelValues(strategy).Inc()
	m.partitionLatency.WithLabelValues(strategy).Observe(latencyMs)
	m.partitionImbalance.Observe(imbalance)
}

// RecordPartitionCandidates adds n evaluated subsets.
func RecordPartitionCandidates(n int) {
	current().partitionCandidates.Add(float64(n))
}

// RecordPartitionRejected records a rejected partition request.
func RecordPartitionRejected(reason string) {
	current().partitionRejected.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	current().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	current().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	current().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	current().errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	current().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	current().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	current().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return customRegistry
}

// ResetForTests swaps the global manager for one on a fresh registry. Tests use it to
// read counters from a clean slate.
func ResetForTests() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	m := NewManager(WithPrometheusRegistry(reg))
	mu.Lock()
	customRegistry = reg
	globalManager = m
	mu.Unlock()
	return reg
}
