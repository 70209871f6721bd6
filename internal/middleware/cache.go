package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/config"
)

// captureWriter tees the response body into buf while forwarding it to
// the client.  Once more than limit bytes are written the capture is
// abandoned and overflow is set.
type captureWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int64
    overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.overflow {
        if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
            cw.overflow = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds "<prefix>:<sha1>" where the hashed part follows
// cfg.KeyStrategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
    default: // "route_query"
        parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
    }
    // c.Path() is the route pattern, so path params are added explicitly.
    for _, name := range c.ParamNames() {
        parts = append(parts, "p", name, c.Param(name))
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// cachedResponse is what a cache entry holds.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header,omitempty"`
    Body   []byte      `json:"body"`
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    return json.Marshal(cachedResponse{Status: status, Header: header, Body: body})
}

// decodePayload reports ok=false for entries that do not decode or
// carry no status, which are then treated as a miss.
func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    var cr cachedResponse
    if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
        return 0, nil, nil, false
    }
    if cr.Header == nil {
        cr.Header = http.Header{}
    }
    return cr.Status, cr.Header, cr.Body, true
}

// NewRedisCache caches successful responses (headers and body) in Redis
// under cfg.Prefix.  Hits are replayed with X-Cache: HIT.  Responses
// larger than cfg.MaxBodyBytes are served but not stored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, err := c.Response().Write(body)
                    return err
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.overflow {
                return nil
            }
            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
                if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
                    c.Logger().Warnf("[cache] store %s: %v", key, err)
                }
            }
            return nil
        }
    }
}

// InvalidateCache removes every entry stored under prefix.  Admin writes
// call it so facility listings never outlive a create or delete by more
// than the call itself.
func InvalidateCache(ctx context.Context, rdb *redis.Client, prefix string) error {
    if rdb == nil {
        return nil
    }
    iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return err
    }
    if len(keys) == 0 {
        return nil
    }
    return rdb.Del(ctx, keys...).Err()
}
