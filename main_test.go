package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, staticDir string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			StaticDir:      staticDir,
			AllowedOrigins: []string{"*"},
		},
		OpenWeatherMap: config.OpenWeatherMapConfig{
			BaseURL: "http://127.0.0.1:1",
			Units:   "metric",
			Timeout: time.Second,
		},
	}
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body["message"]
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(testConfig(t, t.TempDir()), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_MissingAPIKey(t *testing.T) {
	r := newRouter(testConfig(t, t.TempDir()), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/weather", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Weather API key is not configured on the server.", decodeMessage(t, rr))
}

func TestRouter_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<div id="root"></div>`), 0o644))
	r := newRouter(testConfig(t, dir), zap.NewNop().Sugar())

	for _, path := range []string{"/", "/non-existent-route"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Contains(t, rr.Body.String(), `<div id="root"></div>`, path)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/non-existent-endpoint", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found.", decodeMessage(t, rr))
}

func TestRouter_NoStaticDir(t *testing.T) {
	r := newRouter(testConfig(t, filepath.Join(t.TempDir(), "missing")), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newRouter(testConfig(t, t.TempDir()), zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodOptions, "/api/weather", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	r := newRouter(testConfig(t, t.TempDir()), zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRouter_SecurityHeaders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<div id="root"></div>`), 0o644))
	r := newRouter(testConfig(t, dir), zap.NewNop().Sugar())

	for _, path := range []string{"/", "/api/weather", "/api/non-existent-endpoint", "/health"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, middleware.DefaultContentSecurityPolicy, rr.Header().Get("Content-Security-Policy"), path)
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"), path)
		assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"), path)
		assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"), path)
	}
}

func TestRouter_CustomContentSecurityPolicy(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Server.ContentSecurityPolicy = "default-src 'none'"
	r := newRouter(cfg, zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "default-src 'none'", rr.Header().Get("Content-Security-Policy"))
}

func TestRouter_Head(t *testing.T) {
	r := newRouter(testConfig(t, t.TempDir()), zap.NewNop().Sugar())

	tests := []struct {
		path   string
		status int
	}{
		{"/api/weather?city=London", http.StatusInternalServerError},
		{"/api/weather", http.StatusInternalServerError},
		{"/health", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, tt.path, nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}
