package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github-raw-proxy/internal/client"
	"github-raw-proxy/internal/metrics"
	"github-raw-proxy/internal/model"
	"github-raw-proxy/internal/service"
)

const contentTypeText = "text/plain; charset=utf-8"

// ProxyHandler rewrites GitHub blob URLs to raw content fetches.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProxyHandler creates a ProxyHandler.
// The metrics parameter is optional; pass nil to disable byte accounting.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger, m *metrics.Metrics) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
		metrics: m,
	}
}

// Handle serves one request: preflight, method gate, usage page, or a
// blob URL proxied to the raw host with the upstream body streamed back.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	switch req.Method {
	case http.MethodOptions:
		service.ApplyCORS(c.Response().Header())
		return c.NoContent(http.StatusNoContent)
	case http.MethodGet, http.MethodHead:
	default:
		return writeText(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	}

	path := req.URL.EscapedPath()
	if model.IsRoot(path) {
		return writeText(c, http.StatusOK, usage(c.Scheme()+"://"+req.Host))
	}

	bp, err := model.ParseBlobPath(path)
	if err != nil {
		return writeText(c, http.StatusNotFound, err.Error())
	}

	resp, err := h.service.Forward(&model.ProxyRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Blob:   bp,
		Header: req.Header,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	defer func() { _ = resp.Body.Close() }()

	out := c.Response().Header()
	for key, vals := range resp.Header {
		out[key] = vals
	}
	c.Response().WriteHeader(resp.StatusCode)

	// Stream the upstream body directly to the client. If io.Copy fails
	// mid-stream (e.g. client disconnect), the status code has already been
	// sent, so the client receives a truncated response with the upstream
	// status. The request context is canceled on disconnect, which aborts
	// the upstream read as well.
	n, err := io.Copy(c.Response(), resp.Body)
	if h.metrics != nil {
		h.metrics.BytesStreamed.Add(float64(n))
	}
	if err != nil {
		h.logger.Warn("streaming response body",
			"err", err,
			"raw_url", resp.RawURL,
			"bytes", n,
		)
	}

	return nil
}

func (h *ProxyHandler) mapError(c echo.Context, err error) error {
	reason := client.ClassifyError(err)
	level := slog.LevelError
	if reason == "canceled" {
		level = slog.LevelWarn
	}
	h.logger.Log(c.Request().Context(), level, "upstream fetch failed",
		"err", err,
		"reason", reason,
		"path", c.Request().URL.Path,
	)

	return writeText(c, http.StatusBadGateway, "Upstream fetch failed: "+upstreamMessage(err))
}

// upstreamMessage returns the transport error as reported by the HTTP client,
// without the proxy's own wrapping context.
func upstreamMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Error()
	}
	return err.Error()
}

// writeText sends a plain-text response carrying the CORS headers.
func writeText(c echo.Context, code int, body string) error {
	service.ApplyCORS(c.Response().Header())
	return c.Blob(code, contentTypeText, []byte(body))
}

func usage(origin string) string {
	return fmt.Sprintf("GitHub Proxy is running\n\n"+
		"Usage:\n%[1]s/:owner/:repo/blob/:ref/*path\n\n"+
		"Example:\n%[1]s/Guovin/iptv-api/blob/master/output/result.m3u\n", origin)
}
