// Package metrics provides the centralized Prometheus metrics registry for
// the cache engine. All metrics are defined in their respective packages
// (cache, middleware) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the cache engine.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - httpcache_hits_total{store} (Counter): Cache hits by store backend
//   - httpcache_misses_total (Counter): Cache misses
//   - httpcache_entries{store} (Gauge): Current number of cache entries
//   - httpcache_stale_serves_total (Counter): Stale entries served within the grace window
//   - httpcache_revalidations_total{result} (Counter): Background revalidation outcomes
//   - httpcache_not_modified_total (Counter): Conditional request 304 short-circuits
//   - httpcache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(httpcache_hits_total[5m])) /
//   (sum(rate(httpcache_hits_total[5m])) + sum(rate(httpcache_misses_total[5m])))
//
//   # Stale Serve Rate
//   rate(httpcache_stale_serves_total[5m])
//
//   # Revalidation Failure Rate
//   rate(httpcache_revalidations_total{result="failure"}[5m])
//
//   # Cache Error Rate by Operation
//   rate(httpcache_errors_total[5m])
