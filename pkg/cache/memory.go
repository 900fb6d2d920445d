package cache

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory reference Store implementation.
//
// Entries live in an ordinary process map guarded by a RWMutex, so a write
// from one request is immediately visible to subsequent reads in the same
// process. Expiry is lazy: an expired entry is removed on the next access
// that observes it. Entry writes and tag-index updates happen under one
// lock, so readers always observe them together.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	tags    map[string]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*CacheEntry),
		tags:    make(map[string]map[string]struct{}),
	}
}

// Get returns the entry at key, applying lazy expiry.
func (s *MemoryStore) Get(_ context.Context, key string) (*CacheEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	if entry.IsExpired() {
		// Lazy expiry: physically remove the entry and its tag memberships.
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if current, ok := s.entries[key]; ok && current.IsExpired() {
			s.removeLocked(key, current)
		}
		s.mu.Unlock()
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	return entry, nil
}

// Set inserts or replaces the entry at key and reindexes its tags.
func (s *MemoryStore) Set(_ context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replacing an entry drops the old tag memberships first.
	if old, ok := s.entries[key]; ok {
		s.untagLocked(key, old)
	}

	s.entries[key] = entry
	for _, tag := range entry.Tags {
		set, ok := s.tags[tag]
		if !ok {
			set = make(map[string]struct{})
			s.tags[tag] = set
		}
		set[key] = struct{}{}
	}

	CacheSize.WithLabelValues("memory").Set(float64(len(s.entries)))
	return nil
}

// Delete removes the entry and untags it. No-op if absent.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		s.removeLocked(key, entry)
	}
	return nil
}

// InvalidateByTag deletes every entry indexed under tag, then the tag itself.
func (s *MemoryStore) InvalidateByTag(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.tags[tag] {
		if entry, ok := s.entries[key]; ok {
			s.removeLocked(key, entry)
		}
	}
	delete(s.tags, tag)

	CacheSize.WithLabelValues("memory").Set(float64(len(s.entries)))
	return nil
}

// Clear removes all entries and the entire tag index.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*CacheEntry)
	s.tags = make(map[string]map[string]struct{})

	CacheSize.WithLabelValues("memory").Set(0)
	return nil
}

// Len returns the number of live entries (expired but unswept entries count).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// removeLocked deletes the entry and all its tag memberships.
// Caller must hold the write lock.
func (s *MemoryStore) removeLocked(key string, entry *CacheEntry) {
	delete(s.entries, key)
	s.untagLocked(key, entry)
}

// untagLocked removes key from every tag set the entry was a member of,
// dropping tag sets that become empty. Caller must hold the write lock.
func (s *MemoryStore) untagLocked(key string, entry *CacheEntry) {
	for _, tag := range entry.Tags {
		set, ok := s.tags[tag]
		if !ok {
			continue
		}
		delete(set, key)
		if len(set) == 0 {
			delete(s.tags, tag)
		}
	}
}
