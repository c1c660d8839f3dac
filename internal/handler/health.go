// Package handler wires HTTP routes to the proxy and health endpoints.
package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github-raw-proxy/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status returns proxy status information.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":            "ok",
		"version":           string(h.version),
		"upstream":          upstreamHost(h.cfg.Upstream.BaseURL),
		"cache_ttl_seconds": h.cfg.Upstream.CacheTTLSeconds,
	})
}

// upstreamHost matches the X-Proxy-Upstream header: host only, no scheme.
func upstreamHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
