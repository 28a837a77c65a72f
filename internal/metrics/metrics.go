// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Name resolution outcomes: exact, fuzzy, not_found.
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunematch_resolve_total",
			Help: "Total number of song name resolutions by outcome",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tunematch_recommend_duration_seconds",
			Help:    "Time spent ranking the catalog for one request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"}, // "single", "batch"
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunematch_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	CatalogSongs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunematch_catalog_songs",
			Help: "Number of songs in the published catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunematch_catalog_reloads_total",
			Help: "Total number of catalog reload attempts by result",
		},
		[]string{"result"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunematch_cache_requests_total",
			Help: "Recommendation cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// 0 closed, 1 half-open, 2 open.
	CacheBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tunematch_cache_breaker_state",
			Help: "State of the cache circuit breaker",
		},
		[]string{"name"},
	)
)
