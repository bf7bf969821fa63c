package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/empcrud/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(h echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.Use(RequestID(), RequestLogger())
	e.GET("/emps", h)
	return e
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestRequestLogger_TagsHandlerLogs(t *testing.T) {
	var buf bytes.Buffer
	e := newTestServer(func(c echo.Context) error {
		logger.InfoLog(c.Request().Context(), "listing")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/emps", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	req = req.WithContext(zerolog.New(&buf).WithContext(context.Background()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "listing", lines[0]["message"])
	for _, line := range lines {
		assert.Equal(t, "req-42", line["request_id"])
		assert.Equal(t, http.MethodGet, line["method"])
		assert.Equal(t, "/emps", line["path"])
	}
	assert.Contains(t, lines[1]["message"], "status=200")
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	e := newTestServer(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emps", nil))

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestRequestLogger_LogsHandlerErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newTestServer(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})

	req := httptest.NewRequest(http.MethodGet, "/emps", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(context.Background()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Contains(t, lines[0]["message"], "status=503")
}
