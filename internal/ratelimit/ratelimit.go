package ratelimit

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func New(redisClient *redis.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{redis: redisClient, limit: limit, window: window}
}

// Allow increments the caller's counter and reports whether it is still
// within the window limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "rl:" + key
	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

// Middleware limits write requests per authenticated user. Without redis
// the limiter is disabled.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.redis == nil {
			return c.Next()
		}
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return c.Next()
		}
		ok, err := l.Allow(c.Context(), userID)
		if err != nil {
			// Limiter outage must not take down writes.
			return c.Next()
		}
		if !ok {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
