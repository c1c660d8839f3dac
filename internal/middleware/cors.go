package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github-raw-proxy/internal/service"
)

// CORS returns an Echo middleware that puts the permissive CORS headers on
// every response and answers preflight requests on any path with 204.
// Handlers that copy upstream headers must re-apply them afterwards.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			service.ApplyCORS(c.Response().Header())

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
