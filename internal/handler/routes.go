package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github-raw-proxy/internal/config"
	"github-raw-proxy/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// Every path not claimed by a fixed route is treated as a blob URL.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, proxy *ProxyHandler, health *HealthHandler) {
	probeMethods := []string{http.MethodGet, http.MethodHead}
	e.Match(probeMethods, "/healthz", health.Healthz)
	e.Match(probeMethods, "/proxy/status", health.Status)

	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	e.Any("/", proxy.Handle)
	e.Any("/*", proxy.Handle)
}
