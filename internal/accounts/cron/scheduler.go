package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper closes expired password reset windows.
type Sweeper interface {
	SweepExpiredResets(ctx context.Context) (int, error)
}

type Scheduler struct {
	sweeper  Sweeper
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

func NewScheduler(sweeper Sweeper, schedule string, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the sweep job and starts the cron runner. An empty
// schedule leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		log.Info().Msg("reset token sweeper disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		return err
	}

	log.Info().Str("schedule", s.schedule).Msg("reset token sweeper started")
	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for a sweep in flight.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.sweeper.SweepExpiredResets(ctx)
	if err != nil {
		log.Error().Err(err).Int("cleared", n).Msg("reset token sweep failed")
		return
	}
	log.Debug().Int("cleared", n).Dur("took", time.Since(start)).Msg("reset token sweep completed")
}
