// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request latency per route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customer_backend_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// CacheResults counts cache lookups by namespace and outcome (hit, miss, error).
	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_backend_cache_results_total",
			Help: "Number of cache lookups by outcome",
		},
		[]string{"namespace", "result"},
	)

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_backend_rate_limited_total",
			Help: "Number of requests rejected with 429",
		},
		[]string{"route"},
	)
)
