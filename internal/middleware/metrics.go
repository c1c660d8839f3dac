package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github-raw-proxy/internal/metrics"
)

// MetricsMiddleware returns an Echo middleware that records request counts,
// latency (including body streaming) and range usage. Routes are labelled by
// shape, so owners, repositories and file paths never become label values.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()
			start := time.Now()

			err := next(c)

			req := c.Request()
			status := strconv.Itoa(statusOf(c, err))
			method := metrics.NormalizeMethod(req.Method)
			route := metrics.NormalizePath(req.URL.Path)

			m.RequestsTotal.WithLabelValues(method, status, route).Inc()
			m.RequestDuration.WithLabelValues(method, status, route).Observe(time.Since(start).Seconds())
			if req.Header.Get("Range") != "" {
				m.RangeRequests.WithLabelValues(status).Inc()
			}

			return err
		}
	}
}

// statusOf reports the status the client will see. An *echo.HTTPError is
// written later by Echo's error handler, so its code wins over the response.
func statusOf(c echo.Context, err error) int {
	var he *echo.HTTPError
	if err != nil && errors.As(err, &he) {
		return he.Code
	}
	return c.Response().Status
}
