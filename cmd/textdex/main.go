package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/config"
	"github.com/kailas-cloud/textdex/internal/db"
	dbRedis "github.com/kailas-cloud/textdex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/textdex/internal/db/sqlite"
	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/textdex/internal/logger"
	"github.com/kailas-cloud/textdex/internal/metrics"
	entryrepo "github.com/kailas-cloud/textdex/internal/repository/entry"
	"github.com/kailas-cloud/textdex/internal/textproc"
	chiTransport "github.com/kailas-cloud/textdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/textdex/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/textdex/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/textdex/internal/usecase/search"
	"github.com/kailas-cloud/textdex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting textdex API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	store, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterEngineMetrics()

	pipeline, err := textproc.New(textproc.Config{
		Filters:       cfg.Search.Filters,
		Stopwords:     cfg.Search.Stopwords,
		MinimumLength: cfg.Search.MinimumLength,
		Stemmer:       cfg.Search.Stemmer,
	})
	if err != nil {
		logger.Fatal("Invalid text pipeline", zap.Error(err))
	}
	defaultMode, err := mode.Parse(cfg.Search.DefaultMode)
	if err != nil {
		logger.Fatal("Invalid default search mode", zap.Error(err))
	}
	weights := domain.WeightTable(cfg.Search.Weights)

	repo := entryrepo.New(store, pipeline)
	indexingSvc := indexinguc.New(repo, logger).
		WithWeights(weights).
		WithWorkers(cfg.Search.Workers)
	searchSvc := searchuc.New(store, pipeline, logger).WithWeights(weights)
	healthSvc := healthuc.New(store, store)

	server := chiTransport.NewServer(indexingSvc, searchSvc, healthSvc, chiTransport.Options{
		DefaultMode:     defaultMode,
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		MaxBatchSize:    cfg.Search.MaxBatchSize,
	}, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, metrics.Middleware())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the database store selected by the driver.
func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		s, err := dbSQLite.NewStore(dbSQLite.Config{Path: cfg.Path})
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
