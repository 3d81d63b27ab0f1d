package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/metrics"
)

func TestSetupMiddleware(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// リクエストIDが付与される
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSetupMiddleware_RecoversPanic(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e)
	e.GET("/boom", func(echo.Context) error {
		panic("ハンドラー内のバグ")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPrometheusMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	e := echo.New()
	e.Use(PrometheusMiddleware(m))
	e.GET("/api/v1/seats", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/api/v1/missing", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "なし")
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/seats", nil)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil)
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.InDelta(t, 3,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/seats", "200")), 0.001)
	assert.InDelta(t, 1,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/missing", "404")), 0.001)
}

func TestMetricsBasicAuth(t *testing.T) {
	newServer := func() *echo.Echo {
		e := echo.New()
		e.GET("/metrics", func(c echo.Context) error {
			return c.String(http.StatusOK, "metrics")
		}, MetricsBasicAuth())
		return e
	}

	t.Run("認証情報未設定なら素通し", func(t *testing.T) {
		e := newServer()

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("認証情報設定時は認証を要求する", func(t *testing.T) {
		t.Setenv("METRICS_USER", "prom")
		t.Setenv("METRICS_PASSWORD", "secret")
		e := newServer()

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prom", "secret")
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prom", "wrong")
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
