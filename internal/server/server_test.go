package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/app"
	"github.com/ternarybob/bosbiss/internal/common"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = filepath.Join(t.TempDir(), "db")
	cfg.Scheduler.Enabled = false

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	return New(application)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantCode: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/api/version", wantCode: http.StatusOK},
		{name: "session", method: http.MethodGet, path: "/api/session", wantCode: http.StatusOK},
		{name: "watchlist", method: http.MethodGet, path: "/api/watchlist", wantCode: http.StatusOK},
		{name: "valuation", method: http.MethodGet, path: "/api/valuation?price=1000&eps=100&bvps=1200", wantCode: http.StatusOK},
		{name: "analyze rejects empty form", method: http.MethodPost, path: "/api/session/analyze", body: `{"ticker":"BBCA"}`, wantCode: http.StatusBadRequest},
		{name: "delete needs confirm", method: http.MethodDelete, path: "/api/watchlist/BBCA", wantCode: http.StatusPreconditionRequired},
		{name: "scheduler jobs", method: http.MethodGet, path: "/api/scheduler/jobs", wantCode: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestVersionRoute(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info common.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, common.Version, info.Version)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/session/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
