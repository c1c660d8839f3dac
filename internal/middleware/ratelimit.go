package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github-raw-proxy/internal/service"
)

// RateLimiter returns a per-IP in-memory rate limiter. Rejected requests get
// a plain-text 429 that still carries the CORS headers, so browsers can read it.
func RateLimiter(rps float64) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStore(rate.Limit(rps)),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			service.ApplyCORS(c.Response().Header())
			return c.Blob(http.StatusTooManyRequests, "text/plain; charset=utf-8", []byte("Too Many Requests"))
		},
	})
}
