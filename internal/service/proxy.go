// Package service implements the blob-to-raw rewrite and response shaping.
package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github-raw-proxy/internal/client"
	"github-raw-proxy/internal/config"
	"github-raw-proxy/internal/model"
)

// forwardableRequestHeaders are the only request headers forwarded upstream.
var forwardableRequestHeaders = []string{
	"User-Agent",
	"Accept",
	"Range",
}

// strippedResponseHeaders never reach the client.
var strippedResponseHeaders = []string{
	"Set-Cookie",
	"Set-Cookie2",
	// hop-by-hop
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Diagnostic headers identifying where a response came from.
const (
	HeaderUpstream = "X-Proxy-Upstream"
	HeaderRawURL   = "X-Proxy-Raw-Url"
)

// Content types assigned when the upstream omits one.
const (
	ContentTypePlaylist = "application/vnd.apple.mpegurl; charset=utf-8"
	ContentTypeText     = "text/plain; charset=utf-8"
)

// ProxyService turns parsed blob paths into upstream fetches.
type ProxyService struct {
	client       *client.RawClient
	logger       *slog.Logger
	baseURL      *url.URL
	cacheControl string
}

// NewProxyService creates a ProxyService. The upstream host comes from
// configuration only; clients choose nothing but the path on that host.
func NewProxyService(c *client.RawClient, cfg *config.Config, logger *slog.Logger) (*ProxyService, error) {
	u, err := url.Parse(strings.TrimSuffix(cfg.Upstream.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream base_url %q must be an absolute URL", cfg.Upstream.BaseURL)
	}

	ttl := cfg.Upstream.CacheTTLSeconds
	if ttl == 0 {
		ttl = config.DefaultCacheTTLSeconds
	}

	return &ProxyService{
		client:       c,
		logger:       logger.With("component", "proxy_service"),
		baseURL:      u,
		cacheControl: "public, max-age=" + strconv.Itoa(ttl),
	}, nil
}

// UpstreamHost returns the host blob URLs are rewritten to.
func (s *ProxyService) UpstreamHost() string {
	return s.baseURL.Host
}

// RawURL returns the upstream URL for a parsed blob path.
// Path segments are used exactly as received; nothing is decoded or re-encoded.
func (s *ProxyService) RawURL(bp model.BlobPath) string {
	return s.baseURL.Scheme + "://" + s.baseURL.Host + bp.RawPath()
}

// Forward fetches the raw file for pr and returns the upstream response with
// client-facing headers applied. Any upstream status is returned as-is; only
// transport failures produce an error. The caller is responsible for closing
// the response body.
func (s *ProxyService) Forward(pr *model.ProxyRequest) (*model.ProxyResponse, error) {
	rawURL := s.RawURL(pr.Blob)
	header := s.filterRequestHeaders(pr.Header)

	s.logger.Debug("forwarding request",
		"method", pr.Method,
		"raw_url", rawURL,
	)

	resp, err := s.client.DoStream(pr.Ctx, pr.Method, rawURL, header)
	if err != nil {
		return nil, fmt.Errorf("forward to upstream: %w", err)
	}

	resp.Header = s.transformResponseHeaders(resp.Header, pr.Blob.FilePath, rawURL)
	resp.RawURL = rawURL
	return resp, nil
}

func (s *ProxyService) filterRequestHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for _, key := range forwardableRequestHeaders {
		if v := src.Get(key); v != "" {
			dst.Set(key, v)
		}
	}
	// Go sends its own User-Agent when none is set; an empty value suppresses it
	// so the upstream sees exactly what the client sent.
	if _, ok := dst["User-Agent"]; !ok {
		dst["User-Agent"] = []string{""}
	}
	return dst
}

func (s *ProxyService) transformResponseHeaders(src http.Header, filePath, rawURL string) http.Header {
	dst := src.Clone()
	if dst == nil {
		dst = make(http.Header)
	}
	for _, key := range strippedResponseHeaders {
		dst.Del(key)
	}

	if len(dst.Values("Content-Type")) == 0 {
		dst.Set("Content-Type", ContentTypeFor(filePath))
	}

	dst.Set("Cache-Control", s.cacheControl)
	dst.Set(HeaderUpstream, s.baseURL.Host)
	dst.Set(HeaderRawURL, rawURL)
	ApplyCORS(dst)
	return dst
}

// ContentTypeFor returns the content type for a file served without one.
// HLS playlists get the mpegurl type so players accept them; everything
// else is treated as UTF-8 text.
func ContentTypeFor(filePath string) string {
	if strings.HasSuffix(filePath, ".m3u") || strings.HasSuffix(filePath, ".m3u8") {
		return ContentTypePlaylist
	}
	return ContentTypeText
}
