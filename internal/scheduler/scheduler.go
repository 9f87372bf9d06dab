// Package scheduler triggers the daily allocation and check-out jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// Job names used in logs.
const (
	JobAllocation = "allocation"
	JobCheckout   = "checkout"
)

type allocationRunner interface {
	Run(ctx context.Context, day time.Time) (domain.RunResult, error)
}

type agentCheckouter interface {
	CheckOutAll(ctx context.Context) (int64, error)
}

// Config controls when the jobs fire. An empty spec disables its job.
type Config struct {
	AllocationSpec string
	CheckoutSpec   string
	Location       *time.Location
	JobTimeout     time.Duration
}

// Scheduler runs cron jobs in Config.Location.
type Scheduler struct {
	cron     *cron.Cron
	runner   allocationRunner
	agents   agentCheckouter
	location *time.Location
	timeout  time.Duration
	logger   logx.Logger
	now      func() time.Time
}

// New validates the cron specs and registers the jobs. Call Start to begin firing.
func New(cfg Config, runner allocationRunner, agents agentCheckouter, logger logx.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	cl := cronLogger{l: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		runner:   runner,
		agents:   agents,
		location: loc,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}

	if err := s.add(JobAllocation, cfg.AllocationSpec, s.RunAllocation); err != nil {
		return nil, err
	}
	if err := s.add(JobCheckout, cfg.CheckoutSpec, s.RunCheckout); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) add(name, spec string, fn func(context.Context) error) error {
	if spec == "" {
		s.logger.Info("scheduled job disabled", logx.String("job", name))
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Error("scheduled job failed", logx.String("job", name), logx.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %s schedule %q: %v", apperr.ErrInvalid, name, spec, err)
	}
	s.logger.Info("scheduled job registered", logx.String("job", name), logx.String("spec", spec))
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start begins firing jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", logx.String("location", s.location.String()))
}

// Stop stops firing and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Today is the current calendar date in the scheduler's location.
func (s *Scheduler) Today() time.Time {
	return domain.Day(s.now().In(s.location))
}

// RunAllocation runs allocation for Today. An empty roster is not a job failure.
func (s *Scheduler) RunAllocation(ctx context.Context) error {
	day := s.Today()
	res, err := s.runner.Run(ctx, day)
	if errors.Is(err, apperr.ErrNoAgentsAvailable) {
		s.logger.Warn("scheduled allocation found no agents", logx.String("date", day.Format(time.DateOnly)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("allocation for %s: %w", day.Format(time.DateOnly), err)
	}
	s.logger.Info("scheduled allocation finished",
		logx.String("date", day.Format(time.DateOnly)),
		logx.String("status", string(res.Status)),
		logx.Int("assigned", res.TotalAssigned),
		logx.Int("deferred", res.TotalDeferred),
	)
	return nil
}

// RunCheckout clears every check-in so the next day starts empty.
func (s *Scheduler) RunCheckout(ctx context.Context) error {
	n, err := s.agents.CheckOutAll(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("scheduled checkout finished", logx.Int64("agents", n))
	return nil
}

// cronLogger adapts logx.Logger to cron.Logger.
type cronLogger struct {
	l logx.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), logx.Err(err))...)
}

func kvFields(kv []interface{}) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out = append(out, logx.Any(key, kv[i+1]))
	}
	return out
}

var _ cron.Logger = cronLogger{}
