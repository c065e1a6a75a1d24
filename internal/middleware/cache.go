package middleware

import (
    "crypto/sha1"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/lockerbay/locker-reservation/internal/config"
)

// statusRecorder captures the response status and body while forwarding
// everything to the client, so successful listings can be stored in Redis.
type statusRecorder struct {
    http.ResponseWriter
    status   int
    body     []byte
    limit    int
    overflow bool
}

func (r *statusRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if r.limit > 0 && len(r.body)+len(b) > r.limit {
            r.overflow = true
            r.body = nil
        } else {
            r.body = append(r.body, b...)
        }
    }
    return r.ResponseWriter.Write(b)
}

// NewRedisCache returns a middleware that caches successful GET responses
// in Redis for a short TTL.  It is applied to the locker status listing,
// which is read far more often than occupancy changes.  The TTL bounds
// staleness after an assign or release; keep it to a few seconds.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 5 * time.Second
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
            key := fmt.Sprintf("%s:%x", cfg.Prefix, sum)
            ctx := c.Request().Context()

            if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
                return c.JSONBlob(http.StatusOK, cached)
            }

            rec := &statusRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            if err := next(c); err != nil {
                return err
            }
            if rec.status == http.StatusOK && !rec.overflow && len(rec.body) > 0 {
                // Best effort: a failed write just means the next request
                // hits the handler again.
                _ = rdb.Set(ctx, key, rec.body, ttl).Err()
            }
            return nil
        }
    }
}
