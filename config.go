package stitchgate

import (
	"errors"
	"strings"
	"time"
)

// Config carries every tunable of the session core.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	API     APIConfig
	Token   TokenConfig
	Cache   CacheConfig
	Fetch   FetchConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// APIConfig locates the backend collaborator.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TokenConfig names the storage slot for the raw bearer token.
type TokenConfig struct {
	StorageKey string
}

// CacheConfig controls the persisted profile cache. An entry older than TTL
// is never used to seed the identity at bootstrap.
type CacheConfig struct {
	StorageKey string
	TTL        time.Duration
}

// FetchConfig controls the profile fetch cooldown. Unforced fetches inside
// the window are no-ops so that several mounting UI surfaces do not stampede
// the backend.
type FetchConfig struct {
	Cooldown time.Duration
}

// AuditConfig controls the session event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
}

// MetricsConfig controls counter collection.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the reference behavior: 5 minute cache TTL,
// 5 second fetch cooldown, browser-compatible storage keys.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: 15 * time.Second,
		},
		Token: TokenConfig{
			StorageKey: "token",
		},
		Cache: CacheConfig{
			StorageKey: "cached_user_profile",
			TTL:        5 * time.Minute,
		},
		Fetch: FetchConfig{
			Cooldown: 5 * time.Second,
		},
		Audit: AuditConfig{
			BufferSize: 64,
		},
	}
}

// Validate rejects configurations the manager cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token.StorageKey) == "" {
		return errors.New("token storage key required")
	}
	if strings.TrimSpace(c.Cache.StorageKey) == "" {
		return errors.New("cache storage key required")
	}
	if c.Token.StorageKey == c.Cache.StorageKey {
		return errors.New("token and cache storage keys must differ")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be positive")
	}
	if c.Fetch.Cooldown < 0 {
		return errors.New("fetch cooldown must not be negative")
	}
	if c.API.Timeout < 0 {
		return errors.New("API timeout must not be negative")
	}
	return nil
}

func cloneConfig(c Config) Config {
	// No reference-typed fields yet; a value copy is a deep copy. Kept as a
	// seam so adding one later cannot alias caller state.
	return c
}
