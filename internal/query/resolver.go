// Package query resolves client station identifiers against the registry and
// the observation cache, and projects records down to requested attributes.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flightline/metar-cache-service/internal/domain"
	"github.com/flightline/metar-cache-service/internal/stations"
)

// ErrInvalidStation marks an identifier that is neither an allow-listed
// station code nor a known group alias. Maps to a client-error response.
var ErrInvalidStation = errors.New("station is not an accepted identifier")

// ErrNoObservation marks a legitimate identifier with no cached observation:
// a valid station not yet ingested, or a group whose every member misses.
// Maps to a not-found response.
var ErrNoObservation = errors.New("no METAR information found")

// CacheReader is the read side of the observation cache.
type CacheReader interface {
	Get(ctx context.Context, icao string) (domain.METAR, bool)
}

// Resolver answers one identifier at a time: a single station code or a group
// alias expanding to many.
type Resolver struct {
	registry *stations.Registry
	cache    CacheReader
	logger   *slog.Logger
}

// NewResolver creates a Resolver over an immutable registry and a cache.
func NewResolver(registry *stations.Registry, cache CacheReader, logger *slog.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		cache:    cache,
		logger:   logger,
	}
}

// Resolve returns the cached observations for an identifier.
//
// Group aliases expand to their members and tolerate partial misses: members
// without a cached entry are skipped with a warning, and only a group whose
// every member misses is a not-found outcome. A single valid station returns
// exactly one record or not-found. Anything else is invalid input; that
// distinction is preserved because the two map to different error classes at
// the HTTP boundary.
func (r *Resolver) Resolve(ctx context.Context, id string) ([]domain.METAR, error) {
	if members, ok := r.registry.ResolveGroup(id); ok {
		metars := make([]domain.METAR, 0, len(members))
		for _, code := range members {
			m, ok := r.cache.Get(ctx, code)
			if !ok {
				r.logger.Warn("no METAR information found for station", "station", code, "group", id)
				continue
			}
			metars = append(metars, m)
		}
		if len(metars) == 0 {
			return nil, fmt.Errorf("%w for any station in group %q", ErrNoObservation, id)
		}
		return metars, nil
	}

	code := strings.ToUpper(id)
	if !r.registry.IsValid(code) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStation, id)
	}

	m, ok := r.cache.Get(ctx, code)
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoObservation, code)
	}
	return []domain.METAR{m}, nil
}
