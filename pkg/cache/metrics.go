package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by store backend (memory, redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpcache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"store"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheSize tracks the current number of entries by store backend
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "httpcache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"store"},
	)

	// StaleServes tracks stale entries served within the grace window
	StaleServes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_stale_serves_total",
			Help: "Total number of stale cache entries served",
		},
	)

	// Revalidations tracks background revalidation outcomes
	Revalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpcache_revalidations_total",
			Help: "Total number of background revalidations by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	// NotModifiedResponses tracks conditional request 304 short-circuits
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpcache_not_modified_total",
			Help: "Total number of 304 Not Modified short-circuits",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpcache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "invalidate_tag", "clear"
	)
)
