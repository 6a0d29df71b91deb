package config

import (
    "strconv"
    "strings"
    "time"
)

// CacheConfig controls the Redis response cache applied to listing
// endpoints (menus, user lists).  The 60s default matches how long a
// menu can reasonably lag behind a product edit.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables, using defaults
// when unset.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      getenvDefault("CACHE_ENABLED", "true") == "true",
        Methods:      parseMethods(getenvDefault("CACHE_METHODS", "GET")),
        TTL:          durDefault("CACHE_TTL", 60*time.Second),
        Prefix:       getenvDefault("CACHE_PREFIX", "cache"),
        MaxBodyBytes: intDefault("CACHE_MAX_BODY_BYTES", 1048576),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}

func durDefault(key string, def time.Duration) time.Duration {
    v := getenvDefault(key, "")
    if v == "" {
        return def
    }
    if d, err := time.ParseDuration(v); err == nil && d > 0 {
        return d
    }
    return def
}

func boolDefault(key string, def bool) bool {
    v := getenvDefault(key, "")
    if v == "" {
        return def
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        return def
    }
    return b
}
