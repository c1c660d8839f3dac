// Package middleware provides Echo middleware for logging, metrics, CORS and security.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github-raw-proxy/internal/service"
)

// RequestLogger returns an Echo middleware that logs each request with slog.
// Server errors and upstream failures log at error level, client errors at warn.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
			case res.Status >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"remote_ip", c.RealIP(),
				"bytes_out", res.Size,
			}
			if r := req.Header.Get("Range"); r != "" {
				attrs = append(attrs, "range", r)
			}
			if raw := res.Header().Get(service.HeaderRawURL); raw != "" {
				attrs = append(attrs, "raw_url", raw)
			}

			logger.Log(req.Context(), level, "request", attrs...)

			return err
		}
	}
}
