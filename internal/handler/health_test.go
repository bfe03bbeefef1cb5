package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func TestCheckHealth_AllHealthy(t *testing.T) {
	s := newTestServer()
	h := NewHealthHandler(s)
	db, cache := &fakePinger{}, &fakePinger{}
	h.database, h.redis = db, cache

	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := do(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	decode(t, rec, &body)
	assert.Equal(t, StatusHealthy, body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, StatusHealthy, body.Checks["database"].Status)
	assert.Equal(t, StatusHealthy, body.Checks["redis"].Status)
	assert.Equal(t, 1, db.calls)
	assert.Equal(t, 1, cache.calls)
}

func TestCheckHealth_DatabaseDownIs503(t *testing.T) {
	s := newTestServer()
	h := NewHealthHandler(s)
	h.database = &fakePinger{err: errors.New("connection refused")}
	h.redis = &fakePinger{}

	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := do(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthResponse
	decode(t, rec, &body)
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, "connection refused", body.Checks["database"].Error)
}

func TestCheckHealth_RedisDownStays200(t *testing.T) {
	s := newTestServer()
	h := NewHealthHandler(s)
	h.database = &fakePinger{}
	h.redis = &fakePinger{err: errors.New("dial tcp: refused")}

	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := do(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	decode(t, rec, &body)
	assert.Equal(t, StatusHealthy, body.Status)
	assert.Equal(t, StatusUnhealthy, body.Checks["redis"].Status)
}

func TestCheckHealth_DisabledChecksAreSkipped(t *testing.T) {
	s := newTestServer()
	s.Config.Observability.HealthChecks.Checks = []string{"database"}
	h := NewHealthHandler(s)
	db, cache := &fakePinger{}, &fakePinger{}
	h.database, h.redis = db, cache

	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := do(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	decode(t, rec, &body)
	assert.NotContains(t, body.Checks, "redis")
	assert.Zero(t, cache.calls)
}

func TestServeOpenAPIUI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte("<html>docs</html>"), 0o600))

	s := newTestServer()
	h := NewOpenAPIHandler(s)
	h.dir = dir

	e := newTestEcho(s)
	e.GET("/docs", h.ServeOpenAPIUI)

	rec := do(e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestServeOpenAPIUI_MissingTemplate(t *testing.T) {
	s := newTestServer()
	h := NewOpenAPIHandler(s)
	h.dir = t.TempDir()

	e := newTestEcho(s)
	e.GET("/docs", h.ServeOpenAPIUI)

	rec := do(e, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
