package config

import (
    "os"
    "time"
)

// Limiter scopes.  Each scope has its own bucket namespace and defaults.
const (
    ScopeReservations = "RESERVATIONS" // reservation submits
    ScopeLogin        = "LOGIN"        // admin logins
)

// RateLimitConfig drives one Redis token bucket limiter.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

var rateLimitDefaults = map[string]RateLimitConfig{
    ScopeReservations: {
        Enabled:        true,
        Capacity:       20,
        RefillTokens:   1,
        RefillInterval: 3 * time.Second,
        TTL:            10 * time.Minute,
        KeyStrategy:    "ip_route",
        Prefix:         "rl:reservations",
    },
    ScopeLogin: {
        Enabled:        true,
        Capacity:       5,
        RefillTokens:   1,
        RefillInterval: time.Minute,
        TTL:            30 * time.Minute,
        KeyStrategy:    "ip",
        Prefix:         "rl:login",
    },
}

// LoadRateLimitConfig reads the limiter settings of scope.  Every
// setting is looked up as RATE_LIMIT_<SCOPE>_<NAME>, then as
// RATE_LIMIT_<NAME>, then taken from the scope defaults.  BURST and
// REFILL_EVERY are shorthands for CAPACITY and a one-token refill.
func LoadRateLimitConfig(scope string) RateLimitConfig {
    def, ok := rateLimitDefaults[scope]
    if !ok {
        def = rateLimitDefaults[ScopeReservations]
    }
    get := func(name string) string {
        if v := os.Getenv("RATE_LIMIT_" + scope + "_" + name); v != "" {
            return v
        }
        return os.Getenv("RATE_LIMIT_" + name)
    }

    cfg := RateLimitConfig{
        Enabled:        parseBool(get("ENABLED"), def.Enabled),
        Capacity:       parseInt(get("CAPACITY"), def.Capacity),
        RefillTokens:   parseInt(get("REFILL_TOKENS"), def.RefillTokens),
        RefillInterval: parseDur(get("REFILL_INTERVAL"), def.RefillInterval),
        TTL:            parseDur(get("TTL"), def.TTL),
        KeyStrategy:    orDefault(get("KEY_STRATEGY"), def.KeyStrategy),
        Prefix:         orDefault(get("PREFIX"), def.Prefix),
        Debug:          parseBool(get("DEBUG"), false),
    }
    if burst := parseInt(get("BURST"), 0); burst > 0 {
        cfg.Capacity = burst
    }
    if every := parseDur(get("REFILL_EVERY"), 0); every > 0 {
        cfg.RefillTokens, cfg.RefillInterval = 1, every
    }

    cfg.Capacity = max(cfg.Capacity, 1)
    cfg.RefillTokens = max(cfg.RefillTokens, 1)
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // A bucket must outlive a full refill or idle clients get a fresh one early.
    cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
    return cfg
}
