package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/snow-forecast-service/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/snow-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/snow-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/snow-forecast-service/internal/adapter/noaa"
	redisadapter "github.com/couchcryptid/snow-forecast-service/internal/adapter/redis"
	"github.com/couchcryptid/snow-forecast-service/internal/adapter/timezone"
	"github.com/couchcryptid/snow-forecast-service/internal/config"
	"github.com/couchcryptid/snow-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-forecast-service/internal/observability"
	"github.com/couchcryptid/snow-forecast-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := newCacheStore(ctx, cfg, logger)
	defer closeStore()
	if cfg.CacheBackend != config.CacheNone {
		metrics.CacheEnabled.Set(1)
	}

	client := noaa.NewClient(cfg.NOAABaseURL, cfg.NOAAUserAgent, cfg.NOAATimeout, metrics, logger)
	source := noaa.NewCachedSource(client, store, metrics, logger)

	// Report publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.ReportPublisher
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	p := pipeline.New(source, timezone.NewResolver(logger), publisher, pipeline.OptionsFromConfig(cfg), logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache and readiness; request traffic retries on its own.
	go func() {
		if err := p.Warm(ctx); err != nil {
			logger.Warn("startup warm-up incomplete", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newCacheStore selects the gridpoint store for CACHE_BACKEND. An unreachable
// Redis is logged; the gateway degrades to fetching on every request.
func newCacheStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.CacheStore, func()) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		store := redisadapter.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := store.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, continuing without warm cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			logger.Info("gridpoint cache enabled", "backend", "redis", "addr", cfg.RedisAddr)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("redis close error", "error", err)
			}
		}
	case config.CacheMemory:
		logger.Info("gridpoint cache enabled", "backend", "memory", "size", cfg.CacheMemorySize)
		return cache.NewMemoryStore(cfg.CacheMemorySize, nil), func() {}
	default:
		logger.Info("gridpoint cache disabled")
		return cache.NoopStore{}, func() {}
	}
}
