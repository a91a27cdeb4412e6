package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.Use(m.Middleware())
	e.GET("/items/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return apperr.NotFound("item not found")
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/items/:id",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/items/:id",status="404"} 1`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}
