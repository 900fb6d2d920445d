package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	// (absent, or present but hard-expired).
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the pluggable persistence contract for cache entries.
//
// Implementations must apply expiry-on-read (an expired entry behaves as
// absent and is lazily removed, including from every tag set it belongs to)
// and must keep the tag index in lock-step with entry writes and deletes:
// no tag set may reference a key whose entry no longer exists.
type Store interface {
	// Get returns the entry if present and not expired.
	// Returns ErrCacheMiss otherwise.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set inserts or replaces the entry at key and (re)indexes all its tags.
	Set(ctx context.Context, key string, entry *CacheEntry) error

	// Delete removes the entry and untags it. No-op if absent.
	Delete(ctx context.Context, key string) error

	// InvalidateByTag deletes every entry currently indexed under tag,
	// then removes the tag itself.
	InvalidateByTag(ctx context.Context, tag string) error

	// Clear removes all entries and the entire tag index.
	Clear(ctx context.Context) error
}
