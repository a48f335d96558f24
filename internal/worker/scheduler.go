package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a job on a standard five-field cron expression.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	job     func(ctx context.Context) error
	timeout time.Duration
}

// NewScheduler validates spec and registers job; nothing runs until Start.
func NewScheduler(spec string, timeout time.Duration, job func(ctx context.Context) error) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), spec: spec, job: job, timeout: timeout}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", "spec", s.spec)
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	slog.Info("Stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("Scheduled job still running at shutdown")
	}
}

// Next returns the next planned run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		slog.Error("Scheduled job failed", "spec", s.spec, "error", err, "duration", time.Since(start))
		return
	}
	slog.Info("Scheduled job completed", "spec", s.spec, "duration", time.Since(start))
}
