// Package http exposes the client-facing weather routes plus health,
// readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flightline/metar-cache-service/internal/domain"
	"github.com/flightline/metar-cache-service/internal/query"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// invalidStationMsg keeps the long-standing client-facing wording for
// identifiers off the allow-list.
const invalidStationMsg = "Provided station [%s] is not on the Atlanta sectional chart. " +
	"Please provide an accepted station identifier"

// MetarResolver answers a station identifier with cached observations.
type MetarResolver interface {
	Resolve(ctx context.Context, id string) ([]domain.METAR, error)
}

// Updater runs one ingestion cycle.
type Updater interface {
	RunCycle(ctx context.Context) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the weather API over a stdlib mux.
type Server struct {
	httpServer *http.Server
	resolver   MetarResolver
	updater    Updater
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the weather routes and the
// /healthz, /readyz, and /metrics operational routes.
func NewServer(addr string, resolver MetarResolver, updater Updater, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		resolver: resolver,
		updater:  updater,
		logger:   logger,
	}

	mux.HandleFunc("GET /weather/metars/{icao}", s.handleMetar)
	mux.HandleFunc("POST /weather/update", s.handleUpdate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleMetar serves GET /weather/metars/{icao}. The identifier may be a
// station code or a group alias; the optional data parameter (repeated
// and/or comma-separated) selects the attributes to return.
func (s *Server) handleMetar(w http.ResponseWriter, r *http.Request) {
	icao := r.PathValue("icao")

	metars, err := s.resolver.Resolve(r.Context(), icao)
	switch {
	case errors.Is(err, query.ErrInvalidStation):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf(invalidStationMsg, icao),
		})
		return
	case errors.Is(err, query.ErrNoObservation):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("resolve failed", "station", icao, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, query.FilterAttributes(metars, dataParams(r)))
}

// handleUpdate serves POST /weather/update: one ingestion cycle, completed
// before responding. A failed cycle is logged and still answers 204; feed
// failures are never surfaced to clients.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := s.updater.RunCycle(r.Context()); err != nil {
		s.logger.Warn("on-demand ingestion cycle failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// dataParams collects the requested attribute names from the data query
// parameter, accepting both repeated parameters and comma-separated lists.
func dataParams(r *http.Request) []string {
	var fields []string
	for _, raw := range r.URL.Query()["data"] {
		for _, f := range strings.Split(raw, ",") {
			f = strings.TrimSpace(f)
			if f != "" {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
