// Package metrics provides Prometheus metrics for the proxy.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default histogram buckets for request latency.
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics holds all Prometheus metric collectors for the proxy.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	UpstreamDuration  *prometheus.HistogramVec
	UpstreamResponses *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	BytesStreamed     prometheus.Counter
	RangeRequests     *prometheus.CounterVec
}

// New creates a Metrics instance with a custom registry and all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "github_raw_proxy_http_requests_total",
			Help: "Total inbound HTTP requests.",
		}, []string{"method", "status_code", "route"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "github_raw_proxy_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency in seconds, including body streaming.",
			Buckets: defaultBuckets,
		}, []string{"method", "status_code", "route"}),

		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "github_raw_proxy_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed.",
		}),

		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "github_raw_proxy_upstream_request_duration_seconds",
			Help:    "Time to upstream response headers in seconds.",
			Buckets: defaultBuckets,
		}, []string{"method"}),

		UpstreamResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "github_raw_proxy_upstream_responses_total",
			Help: "Total upstream responses by method and status code.",
		}, []string{"method", "status_code"}),

		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "github_raw_proxy_upstream_errors_total",
			Help: "Upstream fetches that failed before a response was received.",
		}, []string{"reason"}),

		BytesStreamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "github_raw_proxy_streamed_bytes_total",
			Help: "Response body bytes copied from upstream to clients.",
		}),

		RangeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "github_raw_proxy_range_requests_total",
			Help: "Inbound requests carrying a Range header, by response status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.UpstreamDuration,
		m.UpstreamResponses,
		m.UpstreamErrors,
		m.BytesStreamed,
		m.RangeRequests,
	)

	return m
}

// knownMethods lists the allowed HTTP method label values (bounded cardinality).
var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// NormalizeMethod returns a bounded HTTP method label for Prometheus metrics.
// Non-standard methods are mapped to "other" to prevent cardinality explosion.
func NormalizeMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return "other"
}

// fixedRoutes are served verbatim and used as their own label.
var fixedRoutes = []string{"/healthz", "/proxy/status", "/metrics"}

// RouteBlob labels any request shaped like a blob URL.
const RouteBlob = "/:owner/:repo/blob/:ref/*"

// NormalizePath returns a bounded route label for Prometheus metrics.
// Owners, repositories and file paths never become label values.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	for _, route := range fixedRoutes {
		if path == route {
			return route
		}
	}
	var segs int
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		segs++
		if segs == 3 && s != "blob" {
			return "other"
		}
	}
	if segs >= 5 {
		return RouteBlob
	}
	return "other"
}
