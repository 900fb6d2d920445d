package cache

import (
	"testing"
	"time"
)

func TestPreset_Config(t *testing.T) {
	tests := []struct {
		preset Preset
		want   CacheConfig
	}{
		{
			preset: PresetShort,
			want: CacheConfig{
				TTL:                  60 * time.Second,
				StaleWhileRevalidate: 30 * time.Second,
				RevalidateOnStale:    true,
			},
		},
		{
			preset: PresetMedium,
			want: CacheConfig{
				TTL:                  300 * time.Second,
				StaleWhileRevalidate: 60 * time.Second,
				RevalidateOnStale:    true,
			},
		},
		{
			preset: PresetLong,
			want: CacheConfig{
				TTL:                  3600 * time.Second,
				StaleWhileRevalidate: 300 * time.Second,
				RevalidateOnStale:    true,
			},
		},
		{
			preset: PresetStatic,
			want: CacheConfig{
				TTL:                  86400 * time.Second,
				StaleWhileRevalidate: 3600 * time.Second,
				RevalidateOnStale:    false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			got, err := tt.preset.Config()
			if err != nil {
				t.Fatalf("Config() failed: %v", err)
			}
			if got.TTL != tt.want.TTL {
				t.Errorf("TTL = %v, want %v", got.TTL, tt.want.TTL)
			}
			if got.StaleWhileRevalidate != tt.want.StaleWhileRevalidate {
				t.Errorf("StaleWhileRevalidate = %v, want %v", got.StaleWhileRevalidate, tt.want.StaleWhileRevalidate)
			}
			if got.RevalidateOnStale != tt.want.RevalidateOnStale {
				t.Errorf("RevalidateOnStale = %v, want %v", got.RevalidateOnStale, tt.want.RevalidateOnStale)
			}
		})
	}
}

func TestPreset_Config_User(t *testing.T) {
	cfg, err := PresetUser.Config()
	if err != nil {
		t.Fatalf("Config() failed: %v", err)
	}
	if cfg.TTL != 300*time.Second {
		t.Errorf("TTL = %v, want 300s", cfg.TTL)
	}
	if !cfg.Private {
		t.Error("user preset should be private")
	}
}

func TestPreset_Config_Organization(t *testing.T) {
	cfg, err := PresetOrganization.Config()
	if err != nil {
		t.Fatalf("Config() failed: %v", err)
	}
	if cfg.TTL != 600*time.Second {
		t.Errorf("TTL = %v, want 600s", cfg.TTL)
	}
	if !cfg.HasTag(OrganizationTag) {
		t.Error("organization preset should carry the organization tag")
	}
}

func TestPreset_Config_Unknown(t *testing.T) {
	if _, err := Preset("bogus").Config(); err == nil {
		t.Error("unknown preset should return an error")
	}
}

func TestCacheConfig_Validate(t *testing.T) {
	if err := (CacheConfig{TTL: time.Minute}).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := (CacheConfig{}).Validate(); err == nil {
		t.Error("zero TTL should be rejected")
	}
	if err := (CacheConfig{TTL: -time.Second}).Validate(); err == nil {
		t.Error("negative TTL should be rejected")
	}
}

func TestCacheConfig_HasTag(t *testing.T) {
	cfg := CacheConfig{TTL: time.Minute, Tags: []string{"projects", "organization"}}

	if !cfg.HasTag("projects") {
		t.Error("expected tag 'projects'")
	}
	if cfg.HasTag("users") {
		t.Error("unexpected tag 'users'")
	}
}
