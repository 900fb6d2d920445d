package middleware

import "fmt"

// Strategy selects the per-route caching behavior of the executor.
type Strategy string

const (
	// StrategyNoCache bypasses the cache entirely.
	StrategyNoCache Strategy = "no-cache"

	// StrategyCacheFirst serves fresh cached entries, falling through to
	// the origin when the entry is stale or absent.
	StrategyCacheFirst Strategy = "cache-first"

	// StrategyNetworkFirst always calls the origin and writes successful
	// responses back to the cache.
	StrategyNetworkFirst Strategy = "network-first"

	// StrategyStaleWhileRevalidate serves cached entries even when stale,
	// refreshing stale ones in the background when configured to.
	StrategyStaleWhileRevalidate Strategy = "stale-while-revalidate"

	// StrategyCacheOnly serves only from the cache and never calls the
	// origin; a miss is an error response.
	StrategyCacheOnly Strategy = "cache-only"

	// StrategyNetworkOnly always calls the origin and never reads or
	// writes the cache.
	StrategyNetworkOnly Strategy = "network-only"
)

// ParseStrategy converts a string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyNoCache, StrategyCacheFirst, StrategyNetworkFirst,
		StrategyStaleWhileRevalidate, StrategyCacheOnly, StrategyNetworkOnly:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown cache strategy %q", s)
	}
}
