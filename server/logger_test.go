package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slimgen/logger"
)

func serveLogged(t *testing.T, path string, h echo.HandlerFunc) (int, []map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logger.NewWithWriter(&buf, "debug", false), HealthPath))
	e.GET(path, h)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	var lines []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		lines = append(lines, m)
	}
	return rec.Code, lines
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		handler    echo.HandlerFunc
		wantStatus int
		wantLevel  string
		wantLines  int
	}{
		{
			name:       "success at debug",
			path:       "/swagger/swagger.json",
			handler:    func(c echo.Context) error { return c.String(http.StatusOK, "{}") },
			wantStatus: http.StatusOK,
			wantLevel:  "debug",
			wantLines:  1,
		},
		{
			name:       "client error at warn",
			path:       "/missing",
			handler:    func(c echo.Context) error { return echo.ErrNotFound },
			wantStatus: http.StatusNotFound,
			wantLevel:  "warn",
			wantLines:  1,
		},
		{
			name:       "handler error at error",
			path:       "/boom",
			handler:    func(c echo.Context) error { return errors.New("boom") },
			wantStatus: http.StatusInternalServerError,
			wantLevel:  "error",
			wantLines:  1,
		},
		{
			name:       "health skipped",
			path:       HealthPath,
			handler:    func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, lines := serveLogged(t, tt.path, tt.handler)
			assert.Equal(t, tt.wantStatus, status)
			require.Len(t, lines, tt.wantLines)
			if tt.wantLines == 0 {
				return
			}
			assert.Equal(t, tt.wantLevel, lines[0]["level"])
			assert.Equal(t, tt.path, lines[0]["path"])
			assert.EqualValues(t, tt.wantStatus, lines[0]["status"])
		})
	}
}

func TestActionMessage(t *testing.T) {
	assert.Equal(t, "GET /health completed in 1.5ms with status 2xx",
		actionMessage("GET", "/health", 1500*time.Microsecond, 204))
}
