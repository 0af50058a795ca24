package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	apperrors "partsbay/pkg/errors"
	"partsbay/internal/infrastructure/ratelimit"
	"partsbay/pkg/response"
)

// RateLimit applies a token bucket keyed by the authenticated user when
// one is set, falling back to the client IP. Offer creation and auth get
// tighter limiters than general traffic; the buckets live in the shared
// ratelimit package.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get("uid").(string)
			if key == "" {
				key = c.RealIP()
			}
			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				c.Response().Header().Set("Retry-After", retryAfter.Round(time.Second).String())
				return response.Error(c, apperrors.TooManyRequests("Rate limit exceeded, try again later"))
			}
			return next(c)
		}
	}
}
