// Package config handles TOML configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultUpstreamURL is the raw content host blob URLs are rewritten to.
const DefaultUpstreamURL = "https://raw.githubusercontent.com"

// DefaultCacheTTLSeconds is the max-age advertised on proxied responses.
const DefaultCacheTTLSeconds = 300

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/github-raw-proxy/config.toml",
	"configs/config.toml",
}

// reservedRoutes are served by the proxy itself and cannot host the metrics endpoint.
var reservedRoutes = []string{"/healthz", "/proxy/status"}

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Config   string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host     string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port     int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	Upstream string `kong:"help='Raw content base URL (overrides config).',env='UPSTREAM_URL'"`
	LogLevel string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means "use default" (8000); TOML cannot distinguish 0 from unset
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UpstreamConfig holds upstream connection settings.
type UpstreamConfig struct {
	BaseURL         string `toml:"base_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	IdleConnections int    `toml:"idle_connections"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

// CacheTTL returns the configured cache lifetime.
func (u *UpstreamConfig) CacheTTL() time.Duration {
	return time.Duration(u.CacheTTLSeconds) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Load reads the TOML config file and applies CLI overrides.
// When no explicit path is given (via --config or CONFIG_PATH), it searches
// /etc/github-raw-proxy/config.toml then configs/config.toml. If none of them
// exist the built-in defaults are used.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyCLI(cli)
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.Upstream != "" {
		c.Upstream.BaseURL = cli.Upstream
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
}

// validate checks every section and reports all problems at once.
func (c *Config) validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Upstream.validate(),
		c.Log.validate(),
		c.Metrics.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error
	if s.Port < 0 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 0–65535; got %d", s.Port))
	}
	if s.BodyMaxBytes < 0 {
		errs = append(errs, fmt.Errorf("server.body_max_bytes must be non-negative; got %d", s.BodyMaxBytes))
	}
	if s.RateLimit.Enabled && s.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", s.RateLimit.RequestsPerSecond))
	}
	return errors.Join(errs...)
}

// validate requires an HTTPS origin: blob paths are appended to it verbatim,
// so a path of its own would silently change every upstream URL.
func (u *UpstreamConfig) validate() error {
	var errs []error
	base, err := url.Parse(u.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("upstream.base_url is not a valid URL: %w", err))
	case base.Scheme != "https":
		errs = append(errs, fmt.Errorf("upstream.base_url must use HTTPS; got %q", u.BaseURL))
	case base.Host == "":
		errs = append(errs, fmt.Errorf("upstream.base_url has no host; got %q", u.BaseURL))
	case base.Path != "" && base.Path != "/":
		errs = append(errs, fmt.Errorf("upstream.base_url must not contain a path; got %q", base.Path))
	}
	if u.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout_seconds must be non-negative; got %d", u.TimeoutSeconds))
	}
	if u.IdleConnections < 0 {
		errs = append(errs, fmt.Errorf("upstream.idle_connections must be non-negative; got %d", u.IdleConnections))
	}
	if u.CacheTTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("upstream.cache_ttl_seconds must be non-negative; got %d", u.CacheTTLSeconds))
	}
	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}
	return errors.Join(errs...)
}

// validate keeps the metrics endpoint off the usage page and the fixed routes.
// Blob URLs need five segments, so any other short path is free.
func (m *MetricsConfig) validate() error {
	if !m.Enabled {
		return nil
	}
	p := m.Path
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("metrics.path must start with '/'; got %q", p)
	}
	if p == "/" {
		return fmt.Errorf("metrics.path %q conflicts with the usage page", p)
	}
	for _, reserved := range reservedRoutes {
		if p == reserved || strings.HasPrefix(p, reserved+"/") {
			return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
		}
	}
	return nil
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields, zero means "unset" because TOML cannot distinguish
// between an explicit 0 and an omitted key. A cache_ttl_seconds of 0 therefore
// still advertises the default 300 seconds.
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 64 * 1024 // GET/HEAD only; bodies are never forwarded
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultUpstreamURL
	}
	c.Upstream.BaseURL = strings.TrimSuffix(c.Upstream.BaseURL, "/")
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 120
	}
	if c.Upstream.IdleConnections == 0 {
		c.Upstream.IdleConnections = 100
	}
	if c.Upstream.CacheTTLSeconds == 0 {
		c.Upstream.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
