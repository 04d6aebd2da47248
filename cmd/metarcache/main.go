package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/flightline/metar-cache-service/internal/adapter/http"
	"github.com/flightline/metar-cache-service/internal/cache"
	"github.com/flightline/metar-cache-service/internal/config"
	"github.com/flightline/metar-cache-service/internal/feed"
	"github.com/flightline/metar-cache-service/internal/ingest"
	"github.com/flightline/metar-cache-service/internal/observability"
	"github.com/flightline/metar-cache-service/internal/query"
	"github.com/flightline/metar-cache-service/internal/scheduler"
	"github.com/flightline/metar-cache-service/internal/stations"
	"github.com/flightline/metar-cache-service/internal/store"
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

	// Select the product store (DATABASE_URL switches on postgres).
	var productStore store.Store
	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		pg, err := store.NewPostgres(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		productStore = pg
		logger.Info("using postgres product store")
	} else {
		productStore = store.NewMemory()
		logger.Info("using in-memory product store")
	}

	productCache := cache.New(productStore, logger, metrics)
	registry := stations.New(cfg.Stations, cfg.Groups)
	fetcher := feed.NewClient(cfg.FeedURL, cfg.FeedTimeout, cfg.FeedRate, logger)
	ingestor := ingest.New(fetcher, productCache, logger, metrics)
	resolver := query.NewResolver(registry, productCache, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, resolver, ingestor, ingestor, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache once at startup, then hand off to the scheduler.
	go func() {
		cycleCtx, cancel := context.WithTimeout(ctx, cfg.FeedTimeout+time.Minute)
		defer cancel()
		if err := ingestor.RunCycle(cycleCtx); err != nil {
			logger.Error("initial ingestion cycle failed", "error", err)
		}
	}()

	sched := scheduler.New(ingestor, cfg.FetchInterval, cfg.FeedTimeout+time.Minute, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
