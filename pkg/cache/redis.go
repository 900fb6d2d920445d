package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis key namespaces. Entries and tag sets live under a common prefix so
// Clear can remove them without touching unrelated keys in the same DB.
const (
	redisEntryPrefix = "httpcache:entry:"
	redisTagPrefix   = "httpcache:tag:"
)

// RedisStore is a Redis-backed Store implementation.
//
// Entries are stored as JSON values with native Redis TTL expiry, making the
// hard-expiry atomic at the storage layer. The tag index is kept in Redis
// sets; entry writes and tag-index updates are pipelined so they land
// together. InvalidateByTag is a bulk delete of the tag set's members
// followed by deletion of the set itself.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient}
}

// Get returns the entry at key. Redis TTL expiry makes expired entries
// absent; the explicit IsExpired check covers clock skew between writer
// and Redis.
func (s *RedisStore) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := s.redis.Get(ctx, redisEntryPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		_ = s.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("redis").Inc()
	return &entry, nil
}

// Set stores the entry with its remaining TTL and reindexes its tags.
func (s *RedisStore) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	ttl := entry.RemainingTTL()
	if ttl <= 0 {
		// Already expired, don't cache
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	// Replacing an entry drops the old tag memberships first.
	oldTags := s.currentTags(ctx, key)

	pipe := s.redis.TxPipeline()
	for _, tag := range oldTags {
		pipe.SRem(ctx, redisTagPrefix+tag, key)
	}
	pipe.Set(ctx, redisEntryPrefix+key, data, ttl)
	for _, tag := range entry.Tags {
		pipe.SAdd(ctx, redisTagPrefix+tag, key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// currentTags returns the tag memberships of the entry stored at key,
// without touching hit/miss metrics. Best-effort: unreadable entries
// yield no tags.
func (s *RedisStore) currentTags(ctx context.Context, key string) []string {
	data, err := s.redis.Get(ctx, redisEntryPrefix+key).Bytes()
	if err != nil {
		return nil
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	return entry.Tags
}

// Delete removes the entry and untags it. No-op if absent.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	tags := s.currentTags(ctx, key)

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, redisEntryPrefix+key)
	for _, tag := range tags {
		pipe.SRem(ctx, redisTagPrefix+tag, key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// InvalidateByTag deletes every entry in the tag's member set, then the set.
func (s *RedisStore) InvalidateByTag(ctx context.Context, tag string) error {
	members, err := s.redis.SMembers(ctx, redisTagPrefix+tag).Result()
	if err != nil {
		CacheErrors.WithLabelValues("invalidate_tag").Inc()
		return fmt.Errorf("redis smembers: %w", err)
	}

	pipe := s.redis.TxPipeline()
	for _, key := range members {
		pipe.Del(ctx, redisEntryPrefix+key)
	}
	pipe.Del(ctx, redisTagPrefix+tag)

	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("invalidate_tag").Inc()
		return fmt.Errorf("redis invalidate tag: %w", err)
	}
	return nil
}

// Clear removes every entry and tag set under the cache namespaces.
func (s *RedisStore) Clear(ctx context.Context) error {
	for _, pattern := range []string{redisEntryPrefix + "*", redisTagPrefix + "*"} {
		iter := s.redis.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
				CacheErrors.WithLabelValues("clear").Inc()
				return fmt.Errorf("redis clear: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			CacheErrors.WithLabelValues("clear").Inc()
			return fmt.Errorf("redis scan: %w", err)
		}
	}
	return nil
}
