package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// RateLimit describes one limiter: at most Max requests per Window for each client.
// With SkipSuccessful only failed responses (status >= 400) count.
type RateLimit struct {
	Name           string
	Max            int
	Window         time.Duration
	SkipSuccessful bool
}

// Limits used by the routes.
var (
	LoginLimit    = RateLimit{Name: "login", Max: 5, Window: 15 * time.Minute, SkipSuccessful: true}
	RegisterLimit = RateLimit{Name: "register", Max: 3, Window: time.Hour}
	ForgotLimit   = RateLimit{Name: "forgot-password", Max: 3, Window: time.Hour}
	VerifyLimit   = RateLimit{Name: "verify-otp", Max: 5, Window: 15 * time.Minute}
	APILimit      = RateLimit{Name: "api", Max: 100, Window: 15 * time.Minute}
)

// Limiter builds rate limiting middleware, backed by Redis when redisClient is set and by
// fiber's in-memory limiter otherwise.
type Limiter struct {
	redis   *redis.Client
	enabled bool
}

// NewLimiter creates a Limiter. When enabled is false, or on a nil Limiter, every handler it builds is a no-op.
func NewLimiter(redisClient *redis.Client, enabled bool) *Limiter {
	return &Limiter{redis: redisClient, enabled: enabled}
}

// Handler returns the middleware enforcing rl.
func (l *Limiter) Handler(rl RateLimit) fiber.Handler {
	if l == nil || !l.enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if l.redis == nil {
		return limiter.New(limiter.Config{
			Max:                    rl.Max,
			Expiration:             rl.Window,
			SkipSuccessfulRequests: rl.SkipSuccessful,
			LimitReached: func(c *fiber.Ctx) error {
				return tooManyRequests(c, rl.Window)
			},
		})
	}
	return l.redisHandler(rl)
}

func (l *Limiter) redisHandler(rl RateLimit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.IP()
		if userID := c.Locals("user_id"); userID != nil {
			identifier = fmt.Sprintf("user:%v", userID)
		}
		key := fmt.Sprintf("ratelimit:%s:%s", rl.Name, identifier)

		allowed, remaining, member, resetTime, err := l.checkLimit(c.UserContext(), key, rl)
		if err != nil {
			logger.Error(c.UserContext()).Err(err).Str("identifier", identifier).Msg("rate limiter error")
			// On error, allow request but log it
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(c.UserContext()).Str("identifier", identifier).Str("limiter", rl.Name).Msg("rate limit exceeded")
			return tooManyRequests(c, time.Until(resetTime))
		}

		err = c.Next()
		if rl.SkipSuccessful && err == nil && c.Response().StatusCode() < fiber.StatusBadRequest {
			if remErr := l.redis.ZRem(c.UserContext(), key, member).Err(); remErr != nil {
				logger.Warn(c.UserContext()).Err(remErr).Msg("failed to refund rate limit slot")
			}
		}
		return err
	}
}

// checkLimit records the request in a sorted set and counts the requests inside the sliding window.
func (l *Limiter) checkLimit(ctx context.Context, key string, rl RateLimit) (bool, int, string, time.Time, error) {
	now := time.Now()
	windowStart := now.Add(-rl.Window)
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, key, rl.Window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, "", time.Time{}, err
	}

	count := countCmd.Val()
	remaining := rl.Max - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return count < int64(rl.Max), remaining, member, now.Add(rl.Window), nil
}

func tooManyRequests(c *fiber.Ctx, retryAfter time.Duration) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"EC": 1,
		"EM": fmt.Sprintf("too many requests, try again in %v", retryAfter.Round(time.Second)),
		"DT": nil,
	})
}
