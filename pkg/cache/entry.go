package cache

import (
	"time"
)

// CacheEntry represents a cached HTTP response.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// Timestamp is when the entry was created
	Timestamp time.Time `json:"timestamp"`

	// TTL is how long the entry stays valid after creation
	TTL time.Duration `json:"ttl"`

	// Tags are invalidation groups this entry belongs to
	Tags []string `json:"tags,omitempty"`

	// ETag is the quoted content fingerprint for conditional requests
	ETag string `json:"etag"`

	// Headers are response headers replayed verbatim on cache hits
	Headers map[string]string `json:"headers,omitempty"`
}

// ExpiresAt returns the instant the entry hard-expires.
func (e *CacheEntry) ExpiresAt() time.Time {
	return e.Timestamp.Add(e.TTL)
}

// IsExpired returns true if the entry has passed its hard TTL.
// Expired entries must behave as absent.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt())
}

// Age returns how long the entry has been in the cache.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.Timestamp)
}

// RemainingTTL returns the time until hard expiry.
// Returns 0 if already expired.
func (e *CacheEntry) RemainingTTL() time.Duration {
	ttl := time.Until(e.ExpiresAt())
	if ttl < 0 {
		return 0
	}
	return ttl
}
