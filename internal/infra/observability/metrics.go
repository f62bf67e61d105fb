package observability

import (
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const (
	metricInsightsEmitted = "insights_generated_total"

	// CacheLTVThreshold labels the max_ltv statistic cache.
	CacheLTVThreshold = "ltv_threshold"
)

// Metrics holds all Prometheus metrics for the insights service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	insightsEmitted *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insights_request_duration_seconds",
				Help:    "Duration of insight computations by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_store_errors_total",
				Help: "Total failed store queries.",
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		insightsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricInsightsEmitted,
				Help: "Heuristic insights emitted, by rule.",
			},
			[]string{"rule"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the failed store query counter.
func (m *Metrics) IncrStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrInsight counts one emitted heuristic insight.
func (m *Metrics) IncrInsight(rule string) {
	m.insightsEmitted.WithLabelValues(rule).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetEngineSnapshot returns the cumulative engine counters for the
// GET /api/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	successes := getCounterValue(m.requestsTotal, "success")
	errorCount := getCounterValue(m.requestsTotal, "error")
	totalRequests := successes + errorCount
	hits := getCounterValue(m.cacheHits, CacheLTVThreshold)
	misses := getCounterValue(m.cacheMisses, CacheLTVThreshold)

	errorRate := float64(0)
	hitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.EngineMetrics{
		TotalRequests:     int64(totalRequests),
		ErrorRate:         errorRate,
		StoreErrors:       int64(sumCounterVec(m.Registry, "insights_store_errors_total")),
		ThresholdHitRate:  hitRate,
		InsightsGenerated: m.insightsByRule(),
		Period:            "all_time",
	}
}

// insightsByRule reads every rule label seen so far from the registry.
func (m *Metrics) insightsByRule() map[string]int64 {
	out := make(map[string]int64)
	for _, mf := range gatherFamily(m.Registry, metricInsightsEmitted) {
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "rule" {
					out[lp.GetValue()] = int64(metric.GetCounter().GetValue())
				}
			}
		}
	}
	return out
}

func gatherFamily(reg *prometheus.Registry, name string) []*dto.MetricFamily {
	families, err := reg.Gather()
	if err != nil {
		return nil
	}
	var out []*dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == name {
			out = append(out, mf)
		}
	}
	return out
}

// sumCounterVec adds up every series of a counter family.
func sumCounterVec(reg *prometheus.Registry, name string) float64 {
	total := 0.0
	for _, mf := range gatherFamily(reg, name) {
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
