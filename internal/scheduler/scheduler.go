// Package scheduler runs the service's periodic background jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
)

// Job names.
const (
	JobLinkCheck    = "link-check"
	JobStorageProbe = "storage-probe"
)

// Prober checks that the document is readable.
type Prober interface {
	Probe(ctx context.Context) error
}

// Scheduler wraps gocron scheduler for managing periodic tasks.
type Scheduler struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{scheduler: s, ctx: ctx, cancel: cancel}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop cancels running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	s.cancel()
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs fn every interval. Runs never overlap; a run that is
// still going when the next is due delays it.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, immediate bool, fn func(ctx context.Context)) (string, error) {
	if interval <= 0 {
		return "", errors.New("interval must be positive")
	}
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediate {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			start := time.Now()
			slog.Debug("Running scheduled job", logfields.JobName(name))
			fn(s.ctx)
			slog.Debug("Scheduled job finished", logfields.JobName(name),
				logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}),
		opts...,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %s job: %w", name, err)
	}
	return job.ID().String(), nil
}

// ScheduleLinkCheck runs the link monitor every interval, starting now.
func (s *Scheduler) ScheduleLinkCheck(interval time.Duration, monitor *linkcheck.Monitor) (string, error) {
	return s.ScheduleEvery(JobLinkCheck, interval, true, func(ctx context.Context) {
		if _, err := monitor.Run(ctx); err != nil {
			slog.Warn("Scheduled link check skipped", logfields.JobName(JobLinkCheck), logfields.Error(err))
		}
	})
}

// ScheduleStorageProbe checks the document every interval and reports the
// result on the document_valid gauge.
func (s *Scheduler) ScheduleStorageProbe(interval time.Duration, prober Prober, recorder metrics.Recorder) (string, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return s.ScheduleEvery(JobStorageProbe, interval, true, func(ctx context.Context) {
		err := prober.Probe(ctx)
		recorder.SetDocumentValid(err == nil)
		if err != nil {
			slog.Warn("Storage probe failed", logfields.JobName(JobStorageProbe), logfields.Error(err))
		}
	})
}
