package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csvRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/csv"
	"github.com/sh2nam/bree-takehome-nam/internal/generator"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/config"
)

func testConfig(t *testing.T, redisURL string) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	ds, err := generator.New(generator.Config{Users: 40, Seed: 5}).Generate(context.Background())
	require.NoError(t, err)
	require.NoError(t, csvRepo.WriteDataset(dataDir, ds))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", redisURL)
	t.Setenv("FEATURE_SOURCE", "csv")
	t.Setenv("DATA_DIR", dataDir)

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, redisURL string) *app {
	t.Helper()

	a, err := newApp(context.Background(), testConfig(t, redisURL), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func serve(a *app, method, path, idempotencyKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_WithoutBackingServices(t *testing.T) {
	a := newTestApp(t, "")

	rec := serve(a, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")

	rec = serve(a, http.MethodGet, "/api/v1/runs/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(a, http.MethodPost, "/api/v1/runs/", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"csv"`)

	rec = serve(a, http.MethodGet, "/api/v1/quality?summary=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "overall_status")

	rec = serve(a, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "featurestore_http_requests_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestNewApp_RedisEnablesIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newTestApp(t, "redis://"+mr.Addr())

	rec := serve(a, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"redis":"disabled"`)

	first := serve(a, http.MethodPost, "/api/v1/runs/", "run-once")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := serve(a, http.MethodPost, "/api/v1/runs/", "run-once")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestNewApp_BadRedisURL(t *testing.T) {
	cfg := testConfig(t, "redis://127.0.0.1:1")
	cfg.RedisURL = "not a url"

	_, err := newApp(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}
