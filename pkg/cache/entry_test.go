package cache

import (
	"testing"
	"time"
)

func TestCacheEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		ttl       time.Duration
		want      bool
	}{
		{
			name:      "expired entry",
			timestamp: time.Now().Add(-2 * time.Hour),
			ttl:       1 * time.Hour,
			want:      true,
		},
		{
			name:      "valid entry",
			timestamp: time.Now(),
			ttl:       1 * time.Hour,
			want:      false,
		},
		{
			name:      "just expired",
			timestamp: time.Now().Add(-61 * time.Second),
			ttl:       60 * time.Second,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{
				Timestamp: tt.timestamp,
				TTL:       tt.ttl,
			}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_RemainingTTL(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		ttl       time.Duration
		wantMin   time.Duration
		wantMax   time.Duration
	}{
		{
			name:      "one hour remaining",
			timestamp: time.Now(),
			ttl:       1 * time.Hour,
			wantMin:   59 * time.Minute,
			wantMax:   61 * time.Minute,
		},
		{
			name:      "already expired",
			timestamp: time.Now().Add(-2 * time.Hour),
			ttl:       1 * time.Hour,
			wantMin:   0,
			wantMax:   0,
		},
		{
			name:      "half the window consumed",
			timestamp: time.Now().Add(-5 * time.Minute),
			ttl:       10 * time.Minute,
			wantMin:   4*time.Minute + 59*time.Second,
			wantMax:   5*time.Minute + 1*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{
				Timestamp: tt.timestamp,
				TTL:       tt.ttl,
			}
			got := entry.RemainingTTL()
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("RemainingTTL() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCacheEntry_Age(t *testing.T) {
	entry := &CacheEntry{
		Timestamp: time.Now().Add(-10 * time.Second),
		TTL:       time.Minute,
	}

	age := entry.Age()
	if age < 9*time.Second || age > 11*time.Second {
		t.Errorf("Age() = %v, want ~10s", age)
	}
}
