package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/config"
	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "weekly-pool-api",
		HTTPAddr:            "127.0.0.1:0",
		ReadTimeout:         time.Second,
		WriteTimeout:        time.Second,
		StorageDriver:       config.StorageMemory,
		SystemDayStore:      config.SystemDayStoreStorage,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		OperatorToken:       "secret",
		PoolLocation:        time.UTC,
		LockSweepInterval:   time.Minute,
		PredictionRateLimit: 5,
		PredictionRateBurst: 10,
		ReconcileWorkers:    2,
	}
}

func TestNew_MemoryStorageServesRoutes(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	require.NotNil(t, application.Server.ErrorLog)

	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/admin/system-day", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_RedisStoreRejectsBadURL(t *testing.T) {
	cfg := memoryConfig()
	cfg.SystemDayStore = config.SystemDayStoreRedis
	cfg.RedisURL = "://bad"

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
