package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// RunFunc executes one full pipeline run
type RunFunc func(ctx context.Context) error

// Scheduler reruns the pipeline on a cron schedule so the published
// report stays fresh without manual invocations
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler that invokes run on the given cron spec
func New(spec string, run RunFunc, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}

	_, err := s.cron.AddFunc(spec, func() {
		// A long run may outlast the schedule interval; never overlap
		s.mu.Lock()
		if s.running {
			s.mu.Unlock()
			s.logger.Warn().Msg("Previous run still in progress, skipping scheduled run")
			return
		}
		s.running = true
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		s.logger.Info().Msg("Starting scheduled pipeline run")
		if err := run(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled pipeline run failed")
			return
		}
		s.logger.Info().Msg("Scheduled pipeline run completed")
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start starts the scheduler and blocks until the context is canceled
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")

	<-ctx.Done()
	s.Stop()
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}
