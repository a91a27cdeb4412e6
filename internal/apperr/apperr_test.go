package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad id %q", "x"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("missing")), http.StatusNotFound},
		{"echo error", echo.NewHTTPError(http.StatusForbidden, "nope"), http.StatusForbidden},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"internal", Internal(errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("upload failed")
	err := Internal(cause)

	assert.Equal(t, "upload failed", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPErrorHandler_WritesEnvelope(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.GET("/missing", func(c echo.Context) error {
		return NotFound("Product not found!")
	})
	e.GET("/plain", func(c echo.Context) error {
		return errors.New("mongo: connection reset")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Product not found!", body["message"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mongo: connection reset", body["message"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-route", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body["message"])
}
