package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	DashboardRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retention_dashboard_requests_total",
		Help: "Dashboard read requests by endpoint and outcome",
	}, []string{"endpoint", "status"})

	ContactEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retention_contact_events_total",
		Help: "Contact events recorded against customers",
	})

	ClientsScoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retention_clients_scored_total",
		Help: "Customer aggregates classified and scored",
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retention_cache_lookups_total",
		Help: "Response cache lookups by result",
	}, []string{"view", "result"})

	CacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retention_cache_operations_total",
		Help: "Cache backend operations by backend, operation and outcome",
	}, []string{"backend", "op", "outcome"})

	// Infrastructure metrics
	AggregationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retention_aggregation_latency_seconds",
		Help:    "Latency of the set-based customer aggregation query",
		Buckets: prometheus.DefBuckets,
	})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retention_database_latency_seconds",
		Help:    "Latency of record store queries",
		Buckets: prometheus.DefBuckets,
	})
)
