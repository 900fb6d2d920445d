package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(ttl time.Duration, tags ...string) *CacheEntry {
	return &CacheEntry{
		Data:      []byte(`{"test": "data"}`),
		Timestamp: time.Now(),
		TTL:       ttl,
		Tags:      tags,
		ETag:      ComputeETag([]byte(`{"test": "data"}`)),
	}
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entry := newEntry(time.Minute)
	require.NoError(t, store.Set(ctx, "k1", entry))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.Equal(t, entry.ETag, got.ETag)
}

func TestMemoryStore_Get_Miss(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_Get_LazyExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Millisecond TTL: entry must behave as absent after the window passes
	// and be physically removed by the read that observes it.
	require.NoError(t, store.Set(ctx, "k1", newEntry(time.Millisecond)))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Expiry_RemovesTagMembership(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", newEntry(time.Millisecond, "projects")))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	require.ErrorIs(t, err, ErrCacheMiss)

	store.mu.RLock()
	_, tagExists := store.tags["projects"]
	store.mu.RUnlock()
	assert.False(t, tagExists, "expired entry should be removed from its tag sets")
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", newEntry(time.Minute, "projects")))
	require.NoError(t, store.Delete(ctx, "k1"))

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting an absent key is a no-op.
	assert.NoError(t, store.Delete(ctx, "k1"))
}

func TestMemoryStore_InvalidateByTag(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "e1", newEntry(time.Minute, "user", "profile")))
	require.NoError(t, store.Set(ctx, "e2", newEntry(time.Minute, "user", "settings")))
	require.NoError(t, store.Set(ctx, "e3", newEntry(time.Minute, "other")))

	require.NoError(t, store.InvalidateByTag(ctx, "user"))

	_, err := store.Get(ctx, "e1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "e2")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Entries outside the tag stay retrievable.
	got, err := store.Get(ctx, "e3")
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Sibling tag sets no longer reference the deleted keys.
	store.mu.RLock()
	_, profileExists := store.tags["profile"]
	_, settingsExists := store.tags["settings"]
	store.mu.RUnlock()
	assert.False(t, profileExists)
	assert.False(t, settingsExists)
}

func TestMemoryStore_Set_ReplacesTagMemberships(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", newEntry(time.Minute, "old")))
	require.NoError(t, store.Set(ctx, "k1", newEntry(time.Minute, "new")))

	// Invalidating the stale tag must not remove the replaced entry.
	require.NoError(t, store.InvalidateByTag(ctx, "old"))
	_, err := store.Get(ctx, "k1")
	assert.NoError(t, err)

	require.NoError(t, store.InvalidateByTag(ctx, "new"))
	_, err = store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_Set_NilEntry(t *testing.T) {
	store := NewMemoryStore()
	assert.ErrorIs(t, store.Set(context.Background(), "k1", nil), ErrInvalidEntry)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", newEntry(time.Minute, "a")))
	require.NoError(t, store.Set(ctx, "k2", newEntry(time.Minute, "b")))

	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, store.Len())
	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = store.Set(ctx, "shared", newEntry(time.Minute, "tag"))
		}
	}()

	for i := 0; i < 100; i++ {
		_, _ = store.Get(ctx, "shared")
	}
	<-done

	// A write from one goroutine is visible to subsequent reads.
	got, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
