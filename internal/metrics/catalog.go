package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog source Prometheus metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Total number of upstream catalog requests",
		},
		[]string{"op", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Upstream catalog request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog snapshot cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers Prometheus catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(CatalogRequestsTotal)
	prometheus.MustRegister(CatalogRequestDuration)
	prometheus.MustRegister(CatalogCacheTotal)
	catalogMetricsRegistered = true
}
