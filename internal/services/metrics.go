package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the gateway
type Metrics struct {
	// Assistant query metrics
	Queries *prometheus.CounterVec // by intent and final state

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	StaleServes prometheus.Counter

	// Upstream metrics
	TokenRefreshes prometheus.Counter
	UpstreamErrors *prometheus.CounterVec // by error kind
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// InitMetrics initializes the Prometheus metrics. Safe to call more than
// once; registration happens only on the first call.
func InitMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			Queries: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "caregate_queries_total",
				Help: "Total assistant queries by intent and final state",
			}, []string{"intent", "state"}),

			CacheHits: promauto.NewCounter(prometheus.CounterOpts{
				Name: "caregate_cache_hits_total",
				Help: "Fresh cache hits that short-circuited the upstream call",
			}),

			CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
				Name: "caregate_cache_misses_total",
				Help: "Cache misses that required an upstream call",
			}),

			StaleServes: promauto.NewCounter(prometheus.CounterOpts{
				Name: "caregate_cache_stale_serves_total",
				Help: "Requests answered from the stale cache after an upstream failure",
			}),

			TokenRefreshes: promauto.NewCounter(prometheus.CounterOpts{
				Name: "caregate_token_refreshes_total",
				Help: "OAuth2 client-credentials exchanges performed",
			}),

			UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "caregate_upstream_errors_total",
				Help: "Upstream call failures by error kind",
			}, []string{"kind"}), // kind: "unavailable", "client", "token"
		}
	})
	return globalMetrics
}

// The nil-safe helpers below let components carry an optional *Metrics.

// CountQuery records a finished assistant query.
func (m *Metrics) CountQuery(intent, state string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(intent, state).Inc()
}

// CountCacheHit records a fresh cache hit.
func (m *Metrics) CountCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// CountCacheMiss records a cache miss.
func (m *Metrics) CountCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// CountStaleServe records a stale-cache fallback.
func (m *Metrics) CountStaleServe() {
	if m == nil {
		return
	}
	m.StaleServes.Inc()
}

// CountUpstreamError records an upstream failure by kind.
func (m *Metrics) CountUpstreamError(kind string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(kind).Inc()
}
