package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/app"
	"github.com/coursekit/media-gateway/config"
	"github.com/coursekit/media-gateway/handlers"
	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/services/audit"
)

// newTestDeps builds just enough wiring to exercise the router; no
// database, no real verifier.
func newTestDeps(t *testing.T, metricsEnabled bool) *app.Dependencies {
	t.Helper()
	logger := zap.NewNop()

	resolver, err := media.NewResolver(t.TempDir())
	require.NoError(t, err)

	auditor := audit.NewService(nil, logger, audit.Config{BufferSize: 10, WorkerCount: 1})
	require.NoError(t, auditor.Start())
	t.Cleanup(func() { _ = auditor.Stop(time.Second) })

	cfg := &config.Config{
		Environment: "development",
		Media:       config.MediaConfig{RootDir: resolver.Root(), CacheMaxAge: time.Hour},
		Observability: config.ObservabilityConfig{
			LogLevel:       "info",
			LogFormat:      "json",
			MetricsEnabled: metricsEnabled,
		},
	}

	streamer := media.NewStreamer(logger)
	return &app.Dependencies{
		Config:        cfg,
		Logger:        logger,
		Resolver:      resolver,
		Streamer:      streamer,
		Auditor:       auditor,
		MediaHandler:  handlers.NewMediaHandler(resolver, streamer, auditor, logger, true),
		HealthHandler: handlers.NewHealthHandler(nil, resolver.Root(), logger),
	}
}

func TestSetupRoutes(t *testing.T) {
	t.Run("health endpoints are mounted", func(t *testing.T) {
		router := SetupRoutes(newTestDeps(t, false))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics endpoint honors the config flag", func(t *testing.T) {
		router := SetupRoutes(newTestDeps(t, true))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		router = SetupRoutes(newTestDeps(t, false))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("media route answers 404 for missing assets", func(t *testing.T) {
		router := SetupRoutes(newTestDeps(t, false))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/media/missing.png", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
