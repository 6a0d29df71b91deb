package config

import "time"

// RateLimitConfig drives the Redis token bucket guarding the auth
// endpoints against credential stuffing.  Keys combine client IP and
// route so one noisy client cannot starve others.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimitConfig reads RATE_LIMIT_* environment variables and
// clamps nonsensical values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        boolDefault("RATE_LIMIT_ENABLED", true),
        Capacity:       intDefault("RATE_LIMIT_CAPACITY", 20),
        RefillTokens:   intDefault("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: durDefault("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            durDefault("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         getenvDefault("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
        cfg.TTL = minTTL
    }
    return cfg
}
