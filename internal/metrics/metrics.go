// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kloda_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kloda_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthOperations counts auth outcomes, e.g. {operation="refresh", result="unauthorized"}.
	AuthOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kloda_auth_operations_total",
			Help: "Auth operations by operation and result.",
		},
		[]string{"operation", "result"},
	)

	SessionsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kloda_sessions_cleaned_total",
		Help: "Expired refresh sessions removed by the cleanup worker.",
	})

	CardsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kloda_cards_imported_total",
		Help: "Cards imported from Google Sheets.",
	})

	UptimeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kloda_uptime_ws_connections",
		Help: "Open uptime websocket connections.",
	})

	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kloda_cache_results_total",
			Help: "Cache lookups by key and result (hit, miss, error).",
		},
		[]string{"key", "result"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kloda_circuit_breaker_state",
			Help: "Circuit breaker state by name.",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kloda_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result (success, failure, rejected).",
		},
		[]string{"name", "result"},
	)
)
