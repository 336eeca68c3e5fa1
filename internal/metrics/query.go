package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query relay Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apmgate",
			Name:      "queries_total",
			Help:      "Total number of index queries",
		},
		[]string{"index", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "apmgate",
			Name:      "query_duration_seconds",
			Help:      "Index query duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"index"},
	)

	ProjectedHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apmgate",
			Name:      "projected_hits_total",
			Help:      "Total hits reshaped by field projection",
		},
		[]string{"index"},
	)

	QueryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apmgate",
			Name:      "query_cache_total",
			Help:      "Query cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(ProjectedHitsTotal)
	prometheus.MustRegister(QueryCacheTotal)
	queryMetricsRegistered = true
}
