// Package scheduler triggers ingestion cycles on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/flightline/metar-cache-service/internal/ingest"
	"github.com/go-co-op/gocron"
)

// Scheduler periodically runs the ingestion cycle. Jobs run in singleton
// mode, so a slow cycle is never overlapped by the next tick.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ingestor  *ingest.Ingestor
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler that triggers the ingestor every interval, giving
// each cycle at most timeout to complete.
func New(ingestor *ingest.Ingestor, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		ingestor:  ingestor,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler
// asynchronously.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.ingestor.RunCycle(ctx); err != nil {
			s.logger.Error("scheduled ingestion cycle failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("ingestion scheduler started", "interval", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
