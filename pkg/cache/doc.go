// Package cache provides HTTP response caching with pluggable storage backends.
//
// The cache engine implements TTL-based response caching with the following features:
//
// - Deterministic cache key generation (query parameters sorted, scope suffixes)
// - Content-addressed ETags for conditional requests (If-None-Match)
// - Stale-while-revalidate grace windows on top of hard TTL expiry
// - Tag-based bulk invalidation with a consistent tag index
// - In-memory reference store and a Redis-backed store honoring the same contract
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create a store and a manager on top of it
//	store := cache.NewMemoryStore()
//	manager := cache.NewManager(store)
//
//	// Build a cache key from an incoming request
//	key := manager.GenerateKey(req)
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - call the origin handler
//	}
//
// # Storing Responses
//
//	cfg, _ := cache.PresetMedium.Config()
//	if _, err := manager.Set(ctx, key, body, cfg, headers); err != nil {
//		return err
//	}
//
// # Tag Invalidation
//
//	// Entries written with Tags: []string{"projects"} are removed together
//	if err := manager.InvalidateByTag(ctx, "projects"); err != nil {
//		return err
//	}
//
// # Redis Backend
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	store := cache.NewRedisStore(redisClient)
//
// The Redis store relies on native per-key TTL expiry and keeps the tag index
// in Redis sets, pipelined so entry writes and index updates land together.
//
// # Metrics
//
// The cache exports Prometheus metrics:
//
//   - httpcache_hits_total{store} - Cache hits by store backend
//   - httpcache_misses_total - Cache misses
//   - httpcache_stale_serves_total - Stale entries served within the grace window
//   - httpcache_revalidations_total{result} - Background revalidation outcomes
//   - httpcache_not_modified_total - Conditional request 304 short-circuits
//   - httpcache_errors_total{operation} - Cache operation errors
//
// # Failure Policy
//
// Cache failures are always fail-open: a store or hashing error must never
// surface as a request failure. Callers log and fall through to the origin.
package cache
