// Package scheduler re-runs the archive batch on a cron schedule so the
// output directory keeps up with new trading days.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MarketArchiver/internal/batch"
	"MarketArchiver/internal/recorder"
)

// Scheduler owns the cron runner and the refresh task.
type Scheduler struct {
	Cron         *cron.Cron
	Orchestrator *batch.Orchestrator
	Recorder     recorder.Recorder
	Symbols      []string
	StartDate    time.Time
	Log          *zap.Logger
	Ctx          context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, orch *batch.Orchestrator, rec recorder.Recorder, symbols []string, startDate time.Time, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Orchestrator: orch,
		Recorder:     rec,
		Symbols:      symbols,
		StartDate:    startDate,
		Log:          log,
		Ctx:          ctx,
	}
}

// Register adds the refresh task on the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

// refreshTask re-runs the batch over the full symbol list and the full
// configured range. Each symbol's CSV is rewritten whole, so repeating a
// refresh is idempotent. A refresh that already ran today is skipped.
func (s *Scheduler) refreshTask() {
	if last, err := s.Recorder.LastRunEnd(); err != nil {
		s.Log.Warn("look up last run", zap.Error(err))
	} else if !last.IsZero() && !last.Before(time.Now().UTC().Truncate(24*time.Hour)) {
		s.Log.Info("refresh skipped, already ran today", zap.Time("last_run_end", last))
		return
	}

	s.Log.Info("running refresh")
	report, err := s.Orchestrator.Run(s.Ctx, s.Symbols, s.StartDate)
	if err != nil {
		s.Log.Error("refresh batch", zap.Error(err))
		return
	}
	if err := s.Recorder.RecordRun(report); err != nil {
		s.Log.Error("record refresh run", zap.Error(err))
	}
}
