package config

import (
    "testing"
    "time"
)

func TestCacheConfigDefaults(t *testing.T) {
    for _, k := range []string{"CACHE_ENABLED", "CACHE_METHODS", "CACHE_TTL", "CACHE_KEY_STRATEGY", "CACHE_PREFIX"} {
        t.Setenv(k, "")
    }
    cfg := LoadCacheConfig()
    if !cfg.Enabled {
        t.Fatal("cache should default to enabled")
    }
    if cfg.TTL != 15*time.Second {
        t.Fatalf("TTL = %v, want 15s so the booth board stays near-live", cfg.TTL)
    }
    if cfg.Prefix != "workshop:cache" {
        t.Fatalf("prefix = %q, want the service namespace", cfg.Prefix)
    }
    if !cfg.Methods["GET"] || cfg.Methods["POST"] {
        t.Fatalf("methods = %v, want GET only", cfg.Methods)
    }
}

func TestRateLimitConfigDefaults(t *testing.T) {
    for _, k := range []string{"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_KEY_STRATEGY", "RATE_LIMIT_PREFIX", "RATE_LIMIT_TTL"} {
        t.Setenv(k, "")
    }
    cfg := LoadRateLimitConfig()
    if cfg.KeyStrategy != "user_route" {
        t.Fatalf("key strategy = %q, want per-user-per-route", cfg.KeyStrategy)
    }
    if cfg.Prefix != "workshop:rl" {
        t.Fatalf("prefix = %q, want the service namespace", cfg.Prefix)
    }
    if cfg.Capacity != 60 || cfg.RefillTokens != 1 {
        t.Fatalf("bucket = %d/%d, want 60 burst refilling 1", cfg.Capacity, cfg.RefillTokens)
    }
    if cfg.TTL < 5*cfg.RefillInterval {
        t.Fatalf("TTL %v below 5x refill interval %v", cfg.TTL, cfg.RefillInterval)
    }
}
