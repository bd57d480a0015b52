package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alumni/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:            "development",
		Port:           "8080",
		SecretKey:      config.DefaultSecretKey,
		DatabaseDriver: "sqlite",
		DatabaseURL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		Timezone:       "Asia/Kolkata",
		SessionStore:   "gorm",
		SessionMaxAge:  3600,
		FeedCacheTTL:   time.Second,
		LogLevel:       "info",
	}
}

func TestNewServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	srv, gdb, err := newServer(testConfig(), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	assert.Equal(t, ":8080", srv.Addr)

	for _, path := range []string{"/healthz", "/", "/init_sample"} {
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, loc.String(), gdb.NowFunc().Location().String())
}

func TestNewServerRejectsUnknownTimezone(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	_, _, err := newServer(cfg, log)
	assert.Error(t, err)
}

func TestConfigureLogger(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.LogLevel = "debug"

	configureLogger(log, cfg)
	assert.Equal(t, "debug", log.GetLevel().String())

	cfg.LogLevel = "chatty"
	configureLogger(log, cfg)
	assert.Equal(t, "info", log.GetLevel().String())
}
