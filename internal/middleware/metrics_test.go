package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github-raw-proxy/internal/metrics"
)

const requestsTotal = "github_raw_proxy_http_requests_total"

// requestLabels returns the label sets recorded for requestsTotal.
func requestLabels(t *testing.T, m *metrics.Metrics) []map[string]string {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var out []map[string]string
	for _, f := range families {
		if f.GetName() != requestsTotal {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, labels)
		}
	}
	return out
}

func TestMetricsMiddleware_IncrementsCounter(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.Any("/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/Guovin/iptv-api/blob/master/output/result.m3u", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	for _, labels := range requestLabels(t, m) {
		if labels["route"] == metrics.RouteBlob {
			if labels["status_code"] != "200" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "200")
			}
			return
		}
	}
	t.Errorf("expected %s with route=%s", requestsTotal, metrics.RouteBlob)
}

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "github_raw_proxy_http_request_duration_seconds" {
			for _, metric := range f.GetMetric() {
				if metric.GetHistogram().GetSampleCount() > 0 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("expected github_raw_proxy_http_request_duration_seconds with at least one sample")
	}
}

func TestMetricsMiddleware_HTTPErrorStatus(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.GET("/healthz", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "draining")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	for _, labels := range requestLabels(t, m) {
		if labels["route"] == "/healthz" {
			if labels["status_code"] != "503" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "503")
			}
			return
		}
	}
	t.Errorf("expected %s with route=/healthz", requestsTotal)
}

func TestMetricsMiddleware_UnknownMethodNormalized(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.Any("/*", func(c echo.Context) error {
		return c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	req := httptest.NewRequest("XYZZY", "/o/r/blob/main/f.txt", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	for _, labels := range requestLabels(t, m) {
		if labels["route"] == metrics.RouteBlob {
			if labels["method"] != "other" {
				t.Errorf("method = %q, want %q", labels["method"], "other")
			}
			return
		}
	}
	t.Errorf("expected %s with route=%s and method=other", requestsTotal, metrics.RouteBlob)
}

func TestMetricsMiddleware_RouterNotFound(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	// No routes registered; request should yield 404.

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	for _, labels := range requestLabels(t, m) {
		if labels["route"] == "other" && labels["method"] == "GET" {
			if labels["status_code"] != "404" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "404")
			}
			return
		}
	}
	t.Errorf("expected %s with route=other, method=GET, status_code=404", requestsTotal)
}

func TestMetricsMiddleware_RangeRequests(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.Any("/*", func(c echo.Context) error {
		return c.String(http.StatusPartialContent, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/o/r/blob/main/f.txt", http.NoBody)
	req.Header.Set("Range", "bytes=0-1")
	e.ServeHTTP(httptest.NewRecorder(), req)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/o/r/blob/main/f.txt", http.NoBody))

	if got := testutil.ToFloat64(m.RangeRequests.WithLabelValues("206")); got != 1 {
		t.Errorf("range_requests_total{status_code=206} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 0 {
		t.Errorf("requests_in_flight = %v, want 0", got)
	}
}
