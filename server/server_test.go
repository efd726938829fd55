package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/logger"
	"github.com/gaborage/slimgen/openapi"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Project: config.ProjectConfig{Root: root},
		Serve:   config.ServeConfig{Host: "127.0.0.1", Port: 8089},
	}
	return New(cfg, logger.Nop()), root
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, HealthPath)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAddr(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, "127.0.0.1:8089", s.Addr())
}

func TestDocument(t *testing.T) {
	s, root := newTestServer(t)

	t.Run("not generated", func(t *testing.T) {
		rec := get(t, s, JSONPath)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "document not generated")
	})

	doc := openapi.NewDocument(openapi.DefaultInfo("shop-api", "1.0.0"), "")
	written, err := openapi.Write(doc, root, true)
	require.NoError(t, err)
	require.Len(t, written, 2)

	t.Run("json", func(t *testing.T) {
		rec := get(t, s, JSONPath)
		assert.Equal(t, http.StatusOK, rec.Code)
		want, err := os.ReadFile(openapi.JSONPath(root))
		require.NoError(t, err)
		assert.Equal(t, string(want), rec.Body.String())
	})

	t.Run("yaml", func(t *testing.T) {
		rec := get(t, s, YAMLPath)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "openapi: 3.1.1")
	})

	t.Run("rewritten document is served", func(t *testing.T) {
		next := openapi.NewDocument(openapi.DefaultInfo("renamed-api", "2.0.0"), "")
		_, err := openapi.Write(next, root, false)
		require.NoError(t, err)

		rec := get(t, s, JSONPath)
		assert.Contains(t, rec.Body.String(), "renamed-api")
	})
}

func TestCORSHeader(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, HealthPath, http.NoBody)
	req.Header.Set("Origin", "http://editor.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/swagger/other.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOutputLayout(t *testing.T) {
	assert.Equal(t, "/swagger/swagger.json", JSONPath)
	assert.Equal(t, filepath.Join("r", "public", "swagger", "swagger.yaml"), openapi.OutputPath("r", openapi.YAMLFile))
}
