package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pricing_history/internal/domain"
)

// ErrRunInProgress is returned by RunNow while another invocation holds the lock.
var ErrRunInProgress = errors.New("snapshot run already in progress")

// Runner runs one snapshot invocation.
type Runner interface {
	Run(ctx context.Context, trigger domain.Trigger) (*domain.SnapshotReport, error)
}

type Config struct {
	Interval   time.Duration
	RunTimeout time.Duration
	RunOnStart bool
}

// AfterRunFunc observes every finished invocation, successful or not.
type AfterRunFunc func(ctx context.Context, report *domain.SnapshotReport, err error)

type Option func(*Scheduler)

func WithAfterRun(fn AfterRunFunc) Option {
	return func(s *Scheduler) {
		s.afterRun = fn
	}
}

// Scheduler fires timer invocations and serialises them with manual ones.
type Scheduler struct {
	runner   Runner
	cfg      Config
	afterRun AfterRunFunc
	logger   *slog.Logger

	mu sync.Mutex
}

func NewScheduler(runner Runner, cfg Config, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner: runner,
		cfg:    cfg,
		logger: logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"run_on_start", s.cfg.RunOnStart,
	)

	if s.cfg.RunOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	_, err := s.RunNow(ctx, domain.TriggerTimer)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Warn("previous snapshot still running, skipping tick")
	case err != nil:
		s.logger.Error("snapshot failed", "error", err)
	}
}

// RunNow runs one invocation under the run timeout unless one is already in flight.
func (s *Scheduler) RunNow(ctx context.Context, trigger domain.Trigger) (*domain.SnapshotReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	report, err := s.runner.Run(runCtx, trigger)
	if s.afterRun != nil {
		s.afterRun(context.WithoutCancel(ctx), report, err)
	}
	return report, err
}
