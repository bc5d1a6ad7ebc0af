package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/trailcolombo/booking-api/internal/config"
)

// CounterStore counts requests per key within a fixed window. Incr
// returns the count after this request and how long until the window
// resets.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}

// RedisCounter backs the limiter with Redis so several instances share
// one window.
type RedisCounter struct{ RDB *redis.Client }

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	n, err := r.RDB.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if n == 1 {
		if err := r.RDB.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
	}
	ttl, err := r.RDB.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return n, ttl, nil
}

type memBucket struct {
	count int64
	reset time.Time
}

// MemoryCounter is the in-process fallback used when no Redis address is
// configured. Expired buckets are pruned lazily once the map grows.
type MemoryCounter struct {
	mu      sync.Mutex
	buckets map[string]*memBucket
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{buckets: make(map[string]*memBucket)}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.buckets) > 4096 {
		for k, b := range m.buckets {
			if now.After(b.reset) {
				delete(m.buckets, k)
			}
		}
	}

	b, ok := m.buckets[key]
	if !ok || now.After(b.reset) {
		b = &memBucket{reset: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	return b.count, b.reset.Sub(now), nil
}

// NewRateLimiter returns an Echo middleware enforcing one fixed window
// per caller IP. Excess requests get a 429 with the window's message and
// a Retry-After header; a failing counter backend fails open so the API
// stays available without its limiter.
func NewRateLimiter(cfg config.RateLimitConfig, store CounterStore) echo.MiddlewareFunc {
	if store == nil || cfg.Limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":ip:" + ip

			count, reset, err := store.Incr(c.Request().Context(), key, cfg.Window)
			if err != nil {
				slog.Warn("rate limiter backend unavailable", "key", key, "error", err)
				return next(c)
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				secs := int(math.Ceil(reset.Seconds()))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success": false,
					"error":   cfg.Message,
				})
			}
			return next(c)
		}
	}
}
