package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Analysis pipeline metrics
	AnalysisRequestsTotal *prometheus.CounterVec
	AnalysisDuration      *prometheus.HistogramVec
	MetricFillsTotal      *prometheus.CounterVec
	MockFallbacksTotal    prometheus.Counter

	// Provider adapter metrics
	ProviderRequestsTotal *prometheus.CounterVec
	ProviderErrorsTotal   *prometheus.CounterVec
	ProviderDuration      *prometheus.HistogramVec
	RateLimitedTotal      *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// sizeBuckets are histogram buckets for HTTP response sizes (in bytes)
var sizeBuckets = []float64{100, 1_000, 10_000, 100_000, 1_000_000}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		AnalysisRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "analysis",
				Name:      "requests_total",
				Help:      "Total number of stock analysis requests",
			},
			[]string{"symbol"},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "equity_insight",
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Duration of stock analysis in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"symbol", "status"},
		),
		MetricFillsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "analysis",
				Name:      "metric_fills_total",
				Help:      "Metrics filled into analysis records, by category and provenance",
			},
			[]string{"category", "provenance"},
		),
		MockFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "analysis",
				Name:      "mock_fallbacks_total",
				Help:      "Analyses that fell back to a fully mock-generated record",
			},
		),

		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Total number of provider API requests",
			},
			[]string{"provider", "endpoint"},
		),
		ProviderErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "provider",
				Name:      "errors_total",
				Help:      "Total number of provider API failures",
			},
			[]string{"provider", "endpoint", "error_type"},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "equity_insight",
				Subsystem: "provider",
				Name:      "duration_seconds",
				Help:      "Duration of provider API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"provider", "endpoint"},
		),
		RateLimitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "provider",
				Name:      "rate_limited_total",
				Help:      "Provider calls rejected by the local rate limiter",
			},
			[]string{"provider"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Cache hits, by entry kind",
			},
			[]string{"kind"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Cache misses including stale entries, by entry kind",
			},
			[]string{"kind"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "equity_insight",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "equity_insight",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   sizeBuckets,
			},
			[]string{"method", "path"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "equity_insight",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"provider"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "equity_insight",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"provider"},
		),
	}
}

// GetMetrics returns the global metrics instance, creating it on first use
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		if globalMetrics == nil {
			globalMetrics = NewMetrics(nil)
		}
	})
	return globalMetrics
}

// SetGlobalMetrics overrides the global metrics instance (useful for testing
// with a private registry)
func SetGlobalMetrics(m *Metrics) {
	metricsOnce.Do(func() {})
	globalMetrics = m
}

// RecordAnalysisRequest records a stock analysis request
func (m *Metrics) RecordAnalysisRequest(symbol string) {
	m.AnalysisRequestsTotal.WithLabelValues(symbol).Inc()
}

// RecordAnalysisDuration records the duration of an analysis
func (m *Metrics) RecordAnalysisDuration(symbol, status string, duration time.Duration) {
	m.AnalysisDuration.WithLabelValues(symbol, status).Observe(duration.Seconds())
}

// RecordMetricFill records one metric filled into an analysis record
func (m *Metrics) RecordMetricFill(category, provenance string) {
	m.MetricFillsTotal.WithLabelValues(category, provenance).Inc()
}

// RecordMockFallback records an analysis served entirely from mock data
func (m *Metrics) RecordMockFallback() {
	m.MockFallbacksTotal.Inc()
}

// RecordProviderRequest records a provider API request
func (m *Metrics) RecordProviderRequest(provider, endpoint string) {
	m.ProviderRequestsTotal.WithLabelValues(provider, endpoint).Inc()
}

// RecordProviderError records a provider API failure
func (m *Metrics) RecordProviderError(provider, endpoint, errorType string) {
	m.ProviderErrorsTotal.WithLabelValues(provider, endpoint, errorType).Inc()
}

// RecordProviderDuration records the duration of a provider API call
func (m *Metrics) RecordProviderDuration(provider, endpoint string, duration time.Duration) {
	m.ProviderDuration.WithLabelValues(provider, endpoint).Observe(duration.Seconds())
}

// RecordRateLimited records a locally rejected provider call
func (m *Metrics) RecordRateLimited(provider string) {
	m.RateLimitedTotal.WithLabelValues(provider).Inc()
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit(kind string) {
	m.CacheHitsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss(kind string) {
	m.CacheMissesTotal.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(provider string, state int) {
	m.CircuitBreakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(provider string) {
	m.CircuitBreakerTrips.WithLabelValues(provider).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveAnalysis records the analysis duration and status
func (t *Timer) ObserveAnalysis(symbol, status string) {
	t.metrics.RecordAnalysisDuration(symbol, status, time.Since(t.start))
}

// ObserveProvider records the provider call duration
func (t *Timer) ObserveProvider(provider, endpoint string) {
	t.metrics.RecordProviderDuration(provider, endpoint, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
