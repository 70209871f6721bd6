package config

import "time"

// CacheConfig controls the Redis response cache in front of the
// facility listing endpoints.  Availability never goes through it.
//
// KeyStrategy picks the request parts hashed into the key: "route",
// "method_route", "method_route_query" or the default "route_query".
// Path parameters are always part of the key.  Responses larger than
// MaxBodyBytes are served but not stored.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* settings.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      upperSet(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "cache:facilities"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}
