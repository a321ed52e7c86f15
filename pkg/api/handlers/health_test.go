package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jordanlanch/careconnect/pkg/cache"
	"github.com/jordanlanch/careconnect/pkg/jobs"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	_, _, db := setupBilling(t)
	mr := miniredis.RunT(t)
	redisClient, err := cache.NewClient("redis://"+mr.Addr(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	monitor := jobs.NewMonitor(jobs.MonitorConfig{
		DB:      db,
		Pool:    db,
		Redis:   redisClient,
		Wizards: func() int { return 2 },
		Logger:  log.New(io.Discard, "", 0),
	})
	e := echo.New()
	e.GET("/health", NewHealthHandler(monitor).Health)

	rec := doJSON(t, e, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got jobs.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, jobs.StatusOK, got.Status)
	assert.Equal(t, jobs.StatusOK, got.Database)
	assert.Equal(t, jobs.StatusOK, got.Redis)
	assert.Equal(t, 2, got.ActiveWizards)

	mr.Close()

	rec = doJSON(t, e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, jobs.StatusDown, got.Redis)
}

func TestHealth_NoDependencies(t *testing.T) {
	e := echo.New()
	e.GET("/health", NewHealthHandler(jobs.NewMonitor(jobs.MonitorConfig{Logger: log.New(io.Discard, "", 0)})).Health)

	rec := doJSON(t, e, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"disabled","redis":"disabled","active_wizards":0}`, rec.Body.String())
}
