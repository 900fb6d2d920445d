package cache

import (
	"fmt"
	"time"
)

// CacheConfig controls how responses for a route are cached.
type CacheConfig struct {
	// TTL is the time until hard expiry (required)
	TTL time.Duration

	// StaleWhileRevalidate is the grace window after which a still-unexpired
	// entry counts as stale but may still be served (0 disables staleness)
	StaleWhileRevalidate time.Duration

	// Tags are invalidation groups entries under this config belong to
	Tags []string

	// Vary names headers that should additionally key the cache.
	// Declarative hint only; key derivation does not consume it.
	Vary []string

	// Private scopes the cache key per authenticated subject
	Private bool

	// RevalidateOnStale triggers an asynchronous background refresh when a
	// stale-but-unexpired entry is served
	RevalidateOnStale bool
}

// HasTag reports whether the config carries the given invalidation tag.
func (c CacheConfig) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks that the config is usable.
func (c CacheConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("cache config: ttl must be positive (got %v)", c.TTL)
	}
	return nil
}

// Preset names a predefined cache configuration. Resolution to a concrete
// CacheConfig happens once, before any caching decision runs.
type Preset string

const (
	// PresetShort caches fast-changing data with background refresh.
	PresetShort Preset = "short"

	// PresetMedium caches moderately changing data.
	PresetMedium Preset = "medium"

	// PresetLong caches slow-changing data.
	PresetLong Preset = "long"

	// PresetStatic caches rarely-changing data without background refresh.
	PresetStatic Preset = "static"

	// PresetUser caches per-subject data (key scoped by subject).
	PresetUser Preset = "user"

	// PresetOrganization caches per-organization data (key scoped by org).
	PresetOrganization Preset = "organization"
)

// OrganizationTag is the tag that marks entries as organization-scoped.
// Configs carrying it get a per-organization key suffix when an
// organization scope is available.
const OrganizationTag = "organization"

// Config resolves the preset to its concrete CacheConfig.
func (p Preset) Config() (CacheConfig, error) {
	switch p {
	case PresetShort:
		return CacheConfig{
			TTL:                  60 * time.Second,
			StaleWhileRevalidate: 30 * time.Second,
			RevalidateOnStale:    true,
		}, nil
	case PresetMedium:
		return CacheConfig{
			TTL:                  5 * time.Minute,
			StaleWhileRevalidate: 60 * time.Second,
			RevalidateOnStale:    true,
		}, nil
	case PresetLong:
		return CacheConfig{
			TTL:                  1 * time.Hour,
			StaleWhileRevalidate: 5 * time.Minute,
			RevalidateOnStale:    true,
		}, nil
	case PresetStatic:
		return CacheConfig{
			TTL:                  24 * time.Hour,
			StaleWhileRevalidate: 1 * time.Hour,
			RevalidateOnStale:    false,
		}, nil
	case PresetUser:
		return CacheConfig{
			TTL:     5 * time.Minute,
			Private: true,
		}, nil
	case PresetOrganization:
		return CacheConfig{
			TTL:  10 * time.Minute,
			Tags: []string{OrganizationTag},
		}, nil
	default:
		return CacheConfig{}, fmt.Errorf("unknown cache preset %q", string(p))
	}
}
