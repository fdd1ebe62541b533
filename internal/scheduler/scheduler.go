package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/internal/config"
	"github.com/staytus-dev/staytus/internal/monitor"
)

// Scheduler owns the two process-wide timers: the monitor cycle every minute
// and the daily roll-up at midnight. The on-demand trigger surface calls the
// same Runner/Aggregator methods the timers do.
type Scheduler struct {
	runner     *monitor.Runner
	aggregator *monitor.Aggregator
	cfg        config.MonitorConfig
	logger     *logrus.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

func New(runner *monitor.Runner, aggregator *monitor.Aggregator, cfg config.MonitorConfig, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers both recurring jobs and begins ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.cfg.CycleSchedule, func() {
		if err := s.runner.RunCycle(context.Background()); err != nil {
			s.logger.WithError(err).Error("Scheduled monitor cycle failed")
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.RollupSchedule, func() {
		if err := s.aggregator.RollUpYesterday(context.Background()); err != nil {
			s.logger.WithError(err).Error("Scheduled roll-up failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithFields(logrus.Fields{
		"cycle_schedule":  s.cfg.CycleSchedule,
		"rollup_schedule": s.cfg.RollupSchedule,
	}).Info("Scheduler started")

	return nil
}

// Stop halts both timers and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info("Scheduler stopped")
}

// RunCycleNow triggers a monitor cycle on demand, using the identical code
// path as the scheduled run.
func (s *Scheduler) RunCycleNow(ctx context.Context) error {
	return s.runner.RunCycle(ctx)
}

// RunRollupNow triggers the aggregation job on demand for the given date.
func (s *Scheduler) RunRollupNow(ctx context.Context, date time.Time) error {
	return s.aggregator.RollUp(ctx, date)
}

// Status reports the driver's current state for the admin surface.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":         s.running,
		"cycle_schedule":  s.cfg.CycleSchedule,
		"rollup_schedule": s.cfg.RollupSchedule,
	}

	if s.cron != nil && s.running {
		entries := s.cron.Entries()
		if len(entries) > 0 {
			status["next_cycle"] = entries[0].Next.Format(time.RFC3339)
		}
	}

	return status
}
