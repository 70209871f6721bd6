package config

// Redis backs the rate limiter and the facility response cache.  Both
// degrade to pass-through when NewRedisClient returns nil, so the
// reservation flow never depends on Redis being up.

import (
    "context"
    "crypto/tls"
    "log"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment:
//   REDIS_ADDR – host:port (default localhost:6379)
//   REDIS_HOST and REDIS_PORT – override REDIS_ADDR when both are set
//   REDIS_PASSWORD – optional password
//   REDIS_DB – database number (default 0)
//   REDIS_TLS – enable TLS when "true" or "1"
func RedisOptions() *redis.Options {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
        addr = host + ":" + port
    }
    var tlsConf *tls.Config
    if v := envStr("REDIS_TLS", ""); strings.EqualFold(v, "true") || v == "1" {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    return &redis.Options{
        Addr:      addr,
        Password:  envStr("REDIS_PASSWORD", ""),
        DB:        envInt("REDIS_DB", 0),
        TLSConfig: tlsConf,
    }
}

// NewRedisClient connects with RedisOptions and pings the server.  It
// returns nil when the server cannot be reached.
func NewRedisClient() *redis.Client {
    opts := RedisOptions()
    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("redis: %s unreachable (%v); rate limiting and cache disabled", opts.Addr, err)
        _ = client.Close()
        return nil
    }
    return client
}
