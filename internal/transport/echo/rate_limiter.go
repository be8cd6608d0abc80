package echo

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"object-gateway/internal/auth"
)

// RateLimiter implements token bucket rate limiting per identity.
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
	resolver *auth.Resolver
}

func NewRateLimiter(requestsPerSecond, burst int, resolver *auth.Resolver) *RateLimiter {
	return &RateLimiter{
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		resolver: resolver,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, exists := rl.limiters.Load(key)
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Store(key, limiter)
	}
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware limits authenticated callers by subject and anonymous callers
// by client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if subject := rl.resolver.CurrentSubject(auth.CurrentCredential(c), ""); subject != "" {
				key = "subject:" + subject
			}

			if !rl.Allow(key) {
				c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("Retry-After", "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"detail": "rate limit exceeded",
				})
			}

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
			return next(c)
		}
	}
}
