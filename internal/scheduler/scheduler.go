// Package scheduler runs the periodic housekeeping jobs: the daily traffic
// report and the pending-speech sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
	sweepFunc  func() int
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetReportFunction sets the daily report generator.
func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// SetSweepFunction sets the mailbox sweep; returns removed entry count.
func (s *Scheduler) SetSweepFunction(f func() int) {
	s.sweepFunc = f
}

func (s *Scheduler) Start() error {
	if s.reportFunc != nil {
		// Daily at 21:00 UTC
		_, err := s.cron.AddFunc("0 21 * * *", func() {
			if err := s.reportFunc(s.ctx); err != nil {
				zap.L().Error("daily report generation failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
	}

	if s.sweepFunc != nil {
		_, err := s.cron.AddFunc("*/5 * * * *", func() {
			if removed := s.sweepFunc(); removed > 0 {
				zap.L().Debug("swept expired pending speech", zap.Int("removed", removed))
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	zap.L().Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
