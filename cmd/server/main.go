// The forum server exposes the REST API over the configured storage backend.
//
// Configuration comes from config.yaml and environment variables with the
// FORUM_ prefix, e.g.:
//
//	export FORUM_STORAGE_BACKEND=postgres
//	export FORUM_DATABASE_PASSWORD=postgres
//	go run ./cmd/server
//
// Endpoints:
//   - API: http://localhost:8080/users, /posts, /comments, /auth/login
//   - Health: http://localhost:8080/health/live, /health/ready
//   - Metrics: http://localhost:9090/metrics (when enabled)
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/studhub/forum/pkg/api"
	"github.com/studhub/forum/pkg/auth"
	"github.com/studhub/forum/pkg/cache"
	"github.com/studhub/forum/pkg/config"
	"github.com/studhub/forum/pkg/database"
	"github.com/studhub/forum/pkg/forum"
	"github.com/studhub/forum/pkg/health"
	"github.com/studhub/forum/pkg/logging"
	"github.com/studhub/forum/pkg/metrics"
	"github.com/studhub/forum/pkg/repository"
)

func main() {
	ctx := context.Background()

	cfg := config.MustLoad("config.yaml", "FORUM")

	logger := logging.New(cfg.Log)
	logger.Info().
		Str("backend", cfg.Storage.Backend).
		Msg("Forum service starting")

	metricsConfig := metrics.MetricsConfig{
		Enabled:   cfg.Metrics.Enabled,
		Port:      cfg.Metrics.Port,
		Path:      cfg.Metrics.Path,
		Namespace: cfg.Metrics.Namespace,
	}
	if err := metrics.Init(metricsConfig); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize metrics")
		log.Fatal(err)
	}
	if cfg.Metrics.Enabled {
		logger.Info().Int("port", cfg.Metrics.Port).Msg("Metrics server started")
	}

	// The database pool only exists for the postgres backend; memory and
	// file backends run without one.
	var pool *database.Pool
	if cfg.Storage.Backend == config.StorageBackendPostgres {
		var err error
		pool, err = database.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize database")
			log.Fatal(err)
		}
		defer pool.Close()

		if err := repository.Migrate(ctx, pool); err != nil {
			logger.Error().Err(err).Msg("Failed to run migrations")
			log.Fatal(err)
		}
		logger.Info().Msg("Database connected")
	}

	repos, err := repository.Open(cfg.Storage, pool)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open storage backend")
		log.Fatal(err)
	}

	store := cache.NewMemoryStore()
	defer store.Close()
	if cfg.Cache.JanitorInterval > 0 {
		store.StartJanitor(ctx, cfg.Cache.JanitorInterval)
	}

	issuer := auth.NewIssuer(cfg.Auth)

	services := forum.NewServices(repos, store, cfg.Cache, issuer, logger)

	healthChecker := health.New()
	if pool != nil {
		healthChecker.RegisterChecker("database", health.CheckerFunc(func(ctx context.Context) error {
			return database.CheckHealth(ctx, pool)
		}))
	}
	healthChecker.RegisterChecker("storage", health.CheckerFunc(func(ctx context.Context) error {
		_, err := repos.Users.GetMany(ctx)
		return err
	}))

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:        api.NewServer(services, issuer, cfg.Auth, healthChecker, logger).Handler(cfg.Metrics.Namespace),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Metrics shutdown error")
	}

	logger.Info().Msg("Service stopped")
}
