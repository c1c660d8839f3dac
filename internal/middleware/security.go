package middleware

import (
	"github.com/labstack/echo/v4"
)

// responseSecurityHeaders stop proxied files from being rendered as active
// content under the proxy's origin. Upstream values, when present, replace
// these because the handler copies upstream headers afterwards.
var responseSecurityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Content-Security-Policy": "default-src 'none'; style-src 'unsafe-inline'; sandbox",
	"Referrer-Policy":         "no-referrer",
}

// SecurityHeaders returns an Echo middleware that sets the response security
// headers before the handler runs, so streamed responses carry them too.
// Proxy-Authorization is dropped from the inbound request; it is addressed to
// this hop and must never reach a handler that could log or forward it.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Header.Del("Proxy-Authorization")

			h := c.Response().Header()
			for k, v := range responseSecurityHeaders {
				h.Set(k, v)
			}
			return next(c)
		}
	}
}
