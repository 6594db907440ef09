// Package observability holds Prometheus metrics shared across the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradepost_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradepost_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	// PurchasesTotal counts purchase attempts by outcome.
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradepost_purchases_total",
		Help: "Total number of purchase attempts by outcome",
	}, []string{"outcome"})
)

// ObserveQuery records the latency of a database query with the given status label.
func ObserveQuery(status string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
