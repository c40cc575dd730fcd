package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/fplduel/fplduel-backend/pkg/errors"
	"github.com/fplduel/fplduel-backend/pkg/logger"
	"github.com/fplduel/fplduel-backend/pkg/metrics"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/multierr"
)

// specParser accepts the six-field form with a seconds column, matching the
// expressions the worker has always been configured with.
var specParser = robfig.NewParser(
	robfig.Second | robfig.Minute | robfig.Hour | robfig.Dom | robfig.Month | robfig.Dow,
)

// ServiceParams configure the scheduler service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Metrics  *metrics.JobMetrics
}

// Service drives one timer loop per registered entry. A failing or slow job
// only delays its own next tick; sibling entries keep their own cadence.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	metrics  *metrics.JobMetrics
}

// NewService builds a scheduler service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		metrics:  params.Metrics,
	}, nil
}

type scheduledEntry struct {
	job      Job
	spec     string
	schedule robfig.Schedule
}

// Run parses every registered expression up front, then blocks running the
// per-entry loops until the context is canceled. A single malformed
// expression aborts startup before any job runs.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := s.parseEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.logg.Warn(ctx, "scheduler started with no registered jobs")
	}

	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(entry scheduledEntry) {
			defer wg.Done()
			s.runLoop(ctx, entry)
		}(entry)
	}
	wg.Wait()
	s.logg.Info(ctx, "scheduler stopped")
	return ctx.Err()
}

func (s *Service) parseEntries() ([]scheduledEntry, error) {
	var errs []error
	entries := make([]scheduledEntry, 0, len(s.registry.Entries()))
	for _, entry := range s.registry.Entries() {
		schedule, err := specParser.Parse(entry.Spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("job %s spec %q: %w", entry.Job.Name(), entry.Spec, err))
			continue
		}
		entries = append(entries, scheduledEntry{job: entry.Job, spec: entry.Spec, schedule: schedule})
	}
	if combined := multierr.Combine(errs...); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeScheduleParse, combined, "parsing cron expressions")
	}
	return entries, nil
}

func (s *Service) runLoop(ctx context.Context, entry scheduledEntry) {
	loopCtx := s.logg.WithJob(ctx, entry.job.Name())
	loopCtx = s.logg.WithField(loopCtx, "spec", entry.spec)
	s.logg.Info(loopCtx, "schedule loop starting")

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		wait := time.Until(entry.schedule.Next(time.Now()))
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			s.logg.Info(loopCtx, "schedule loop stopped")
			return
		case <-timer.C:
			s.runJob(ctx, entry.job)
		}
	}
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithJob(ctx, job.Name())
	jobCtx = s.logg.WithField(jobCtx, "event", "scheduler.job")
	s.logg.Info(jobCtx, "job start")
	start := time.Now()
	err := s.safeRun(jobCtx, job)
	duration := time.Since(start)
	s.observeDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.recordFailure(job.Name())
		return
	}
	s.logg.Info(jobCtx, "job completed")
	s.recordSuccess(job.Name())
}

// safeRun converts a panicking job into an error so one bad tick cannot take
// down the sibling loops.
func (s *Service) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Run(ctx)
}

func (s *Service) observeDuration(job string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(job, duration)
}

func (s *Service) recordSuccess(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncSuccess(job)
}

func (s *Service) recordFailure(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncFailure(job)
}
