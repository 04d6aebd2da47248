// Package ingest orchestrates one fetch-parse-upsert cycle over the bulk
// feed: every identified feature that parses becomes the latest cached
// observation for its station.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flightline/metar-cache-service/internal/domain"
	"github.com/flightline/metar-cache-service/internal/observability"
)

// Fetcher pulls one complete bulk payload from the feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// CacheWriter upserts the latest observation for a station.
type CacheWriter interface {
	Put(ctx context.Context, icao string, m domain.METAR) error
}

// Ingestor runs ingestion cycles against the observation cache. Cycles are
// serialized within the process; read queries run concurrently against the
// cache and may observe a mix of old and newly-updated stations mid-cycle.
type Ingestor struct {
	fetcher Fetcher
	cache   CacheWriter
	logger  *slog.Logger
	metrics *observability.Metrics

	mu    sync.Mutex
	ready atomic.Bool
}

// New creates an Ingestor.
func New(fetcher Fetcher, cache CacheWriter, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	return &Ingestor{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one ingestion cycle has completed
// successfully, or an error describing why the service is not yet ready.
func (i *Ingestor) CheckReadiness(_ context.Context) error {
	if !i.ready.Load() {
		return errors.New("no ingestion cycle has completed yet")
	}
	return nil
}

// RunCycle executes one complete cycle: fetch the bulk feed, parse its
// features, and upsert each observation. A feed-level transport or structural
// failure aborts the cycle and leaves the cache untouched; per-feature
// failures are logged and skipped. The returned error exists for the caller's
// logging only and must never be surfaced to clients.
func (i *Ingestor) RunCycle(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.metrics.IngestRunning.Set(1)
	defer i.metrics.IngestRunning.Set(0)

	start := time.Now()
	i.logger.Info("ingestion cycle started")

	payload, err := i.fetcher.Fetch(ctx)
	if err != nil {
		i.logger.Error("unable to retrieve METARs", "error", err)
		i.metrics.FeedFetchErrors.Inc()
		i.metrics.IngestCycles.WithLabelValues("failure").Inc()
		return fmt.Errorf("fetch bulk feed: %w", err)
	}

	features, err := domain.ParseFeed(payload)
	if err != nil {
		i.logger.Error("unable to parse bulk feed", "error", err)
		i.metrics.FeedFetchErrors.Inc()
		i.metrics.IngestCycles.WithLabelValues("failure").Inc()
		return err
	}
	i.metrics.PayloadFeatures.Observe(float64(len(features)))

	var cached int
	for _, props := range features {
		m, err := domain.ParseMETAR(props)
		if err != nil {
			i.logger.Warn("dropping malformed feature", "error", err)
			i.metrics.FeatureParseErrors.Inc()
			continue
		}
		m = domain.Enrich(m)

		if err := i.cache.Put(ctx, m.Icao, m); err != nil {
			i.logger.Warn("unable to cache METAR", "station", m.Icao, "error", err)
			i.metrics.CacheWriteErrors.Inc()
			continue
		}
		cached++
	}

	i.metrics.MetarsIngested.Add(float64(cached))
	i.metrics.IngestCycles.WithLabelValues("success").Inc()
	i.metrics.IngestCycleDuration.Observe(time.Since(start).Seconds())
	i.ready.Store(true)

	i.logger.Info("ingestion cycle complete",
		"features", len(features),
		"cached", cached,
		"duration", time.Since(start),
	)
	return nil
}
