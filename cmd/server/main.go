package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alumni/internal/config"
	"alumni/internal/db"
	"alumni/internal/middleware"
	"alumni/internal/router"
	"alumni/internal/services"
	"alumni/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, finding env vars from system")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	configureLogger(log, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, gdb, err := newServer(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("setup server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "driver": cfg.DatabaseDriver}).
			Info("Alumni server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newServer opens and migrates the database and wires every component into
// an http.Server that is not yet listening.
func newServer(cfg *config.Config, log *logrus.Logger) (*http.Server, *gorm.DB, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	// Initialize Database
	gdb, err := db.Open(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseURL,
		Location: loc,
		Logger:   log,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(context.Background(), gdb); err != nil {
		return nil, nil, err
	}

	feedCache, err := utils.NewCache(16)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r, err := router.New(router.Deps{
		DB:        gdb,
		Users:     services.NewUserService(gdb, feedCache),
		Posts:     services.NewPostService(gdb, feedCache, cfg.FeedCacheTTL),
		Bootstrap: services.NewBootstrapService(gdb),
		// Setup Sessions
		Sessions: middleware.SessionConfig{
			Backend: cfg.SessionStore,
			Secret:  []byte(cfg.SecretKey),
			MaxAge:  cfg.SessionMaxAge,
			Secure:  cfg.IsProduction(),
			Cleanup: true,
		},
		Registry: reg,
		Log:      log,
	})
	if err != nil {
		return nil, nil, err
	}

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}, gdb, nil
}

func configureLogger(log *logrus.Logger, cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}
