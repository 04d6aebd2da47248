// Package cache is the observation cache: the latest METAR per station,
// serialized as JSON under a METAR_<code> key in a key-value product store.
// It is the only component that writes products; everything else reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flightline/metar-cache-service/internal/domain"
	"github.com/flightline/metar-cache-service/internal/observability"
	"github.com/flightline/metar-cache-service/internal/store"
)

// metarKeyPrefix prefixes the uppercase station code to form the product key,
// leaving room for other product families in the same store.
const metarKeyPrefix = "METAR_"

// ProductCache caches the latest observation per station on top of a
// key-value store.
type ProductCache struct {
	store   store.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a ProductCache over the given store.
func New(s store.Store, logger *slog.Logger, metrics *observability.Metrics) *ProductCache {
	return &ProductCache{
		store:   s,
		logger:  logger,
		metrics: metrics,
	}
}

// Key returns the product key for a station code.
func Key(icao string) string {
	return metarKeyPrefix + strings.ToUpper(icao)
}

// Put serializes the observation and upserts it under the station's key.
// The store keeps CreatedAt across upserts and bumps UpdatedAt, so staleness
// stays visible to callers without this cache ever evicting.
func (c *ProductCache) Put(ctx context.Context, icao string, m domain.METAR) error {
	value, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("serialize METAR for %s: %w", icao, err)
	}
	if _, err := c.store.Put(ctx, store.Product{Key: Key(icao), Value: string(value)}); err != nil {
		return fmt.Errorf("cache METAR for %s: %w", icao, err)
	}
	return nil
}

// Get looks up the latest observation for a station. Absence is a normal
// outcome, not an error. A stored value that cannot be deserialized, and a
// store that cannot be read, are both logged and reported as a miss; their
// failure never propagates to the caller.
func (c *ProductCache) Get(ctx context.Context, icao string) (domain.METAR, bool) {
	product, err := c.store.GetByKey(ctx, Key(icao))
	if errors.Is(err, store.ErrNotFound) {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.METAR{}, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", "station", icao, "error", err)
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.METAR{}, false
	}

	var m domain.METAR
	if err := json.Unmarshal([]byte(product.Value), &m); err != nil {
		c.logger.Warn("unable to deserialize METAR from cache", "station", icao, "error", err)
		c.metrics.CacheDeserializeErrors.Inc()
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.METAR{}, false
	}

	// Bookkeeping reflects the cache entry, not the serialized copy.
	m.CreatedAt = product.CreatedAt
	m.UpdatedAt = product.UpdatedAt

	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return m, true
}
