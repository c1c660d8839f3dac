package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSecurityHeaders_AddsHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if v := rec.Header().Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", v, "nosniff")
	}
	if v := rec.Header().Get("X-Frame-Options"); v != "DENY" {
		t.Errorf("X-Frame-Options = %q, want %q", v, "DENY")
	}
}

func TestSecurityHeaders_ContentPolicy(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	if v := rec.Header().Get("Content-Security-Policy"); v != "default-src 'none'; style-src 'unsafe-inline'; sandbox" {
		t.Errorf("Content-Security-Policy = %q", v)
	}
	if v := rec.Header().Get("Referrer-Policy"); v != "no-referrer" {
		t.Errorf("Referrer-Policy = %q, want %q", v, "no-referrer")
	}
}

func TestSecurityHeaders_DropsProxyAuthorization(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())

	var got string
	e.GET("/test", func(c echo.Context) error {
		got = c.Request().Header.Get("Proxy-Authorization")
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Proxy-Authorization", "Basic abc")
	e.ServeHTTP(httptest.NewRecorder(), req)

	if got != "" {
		t.Errorf("Proxy-Authorization should be dropped, got %q", got)
	}
}

func TestSecurityHeaders_StreamedResponse(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/stream", func(c echo.Context) error {
		c.Response().WriteHeader(http.StatusOK)
		_, err := c.Response().Write([]byte("chunk"))
		return err
	})

	req := httptest.NewRequest(http.MethodGet, "/stream", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if v := rec.Header().Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q on streamed response", v, "nosniff")
	}
}
