package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// CheckFunc re-validates something external, such as a remote manifest.
type CheckFunc func(ctx context.Context) error

// Scheduler runs periodic checks while watching.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	ctx       context.Context
}

// NewScheduler creates a scheduler whose jobs receive ctx.
func NewScheduler(ctx context.Context, logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "create scheduler").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{scheduler: s, logger: logger, ctx: ctx}, nil
}

// Every schedules check to run at interval under name.
func (s *Scheduler) Every(name string, interval time.Duration, check CheckFunc) error {
	if interval <= 0 {
		return errors.ConfigError("schedule interval must be positive").
			WithContext("job", name).Build()
	}
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run, name, check),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "schedule job").
			WithContext("job", name).Build()
	}
	return nil
}

func (s *Scheduler) run(name string, check CheckFunc) {
	start := time.Now()
	if err := check(s.ctx); err != nil {
		s.logger.Warn("Scheduled check failed", slog.String("job", name), logfields.Error(err))
		return
	}
	s.logger.Debug("Scheduled check complete", slog.String("job", name),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int { return len(s.scheduler.Jobs()) }

// Start begins running jobs.
func (s *Scheduler) Start() { s.scheduler.Start() }

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "stop scheduler").Build()
	}
	return nil
}
