// Package scheduler runs the periodic refresh jobs that keep upstream
// data warm: tenant info, categories, menus, and the GeoIP database.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named refresh task.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler wraps a cron runner around the refresh jobs.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	jobs    []Job
	timeout time.Duration
}

// Options configures a Scheduler.
type Options struct {
	Logger *slog.Logger
	// JobTimeout bounds each job run (default: 30 seconds).
	JobTimeout time.Duration
}

// New creates a scheduler.
func New(opts Options) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 30 * time.Second
	}

	return &Scheduler{
		cron:    cron.New(),
		logger:  opts.Logger,
		timeout: opts.JobTimeout,
	}
}

// Add registers a refresh job.
func (s *Scheduler) Add(name string, run func(ctx context.Context) error) {
	s.jobs = append(s.jobs, Job{Name: name, Run: run})
}

// runAll executes every registered job, logging failures without
// aborting the rest.
func (s *Scheduler) runAll() {
	for _, job := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("refresh job failed", "job", job.Name, "error", err)
		} else {
			s.logger.Debug("refresh job finished", "job", job.Name, "duration", time.Since(start))
		}
		cancel()
	}
}

// Start schedules the refresh jobs at the given interval and begins the
// cron loop.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.cron.AddFunc("@every "+interval.String(), s.runAll)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs), "interval", interval)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
