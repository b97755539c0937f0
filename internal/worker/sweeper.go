// Package worker runs the periodic backlog sweep of the delivery store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

type agentCounter interface {
	CountAvailable(ctx context.Context) (int64, error)
}

type taskCounter interface {
	CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error)
}

type gauge interface {
	Set(float64)
}

// Gauges receive the sweep results.
type Gauges struct {
	AvailableAgents gauge
	PendingTasks    gauge
}

// Sweeper publishes how many agents are free and how many tasks still wait for one.
// It only observes; pending tasks are not re-dispatched.
type Sweeper struct {
	agents  agentCounter
	tasks   taskCounter
	gauges  Gauges
	logger  logx.Logger
	timeout time.Duration
	cron    *cron.Cron
}

// NewSweeper creates a Sweeper. Nil gauges are skipped.
func NewSweeper(agents agentCounter, tasks taskCounter, gauges Gauges, logger logx.Logger) *Sweeper {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Sweeper{
		agents:  agents,
		tasks:   tasks,
		gauges:  gauges,
		logger:  logger.With(logx.String("component", "backlog_sweeper")),
		timeout: 5 * time.Second,
		cron:    cron.New(),
	}
}

// Sweep takes one snapshot of the backlog.
func (s *Sweeper) Sweep(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	available, aErr := s.agents.CountAvailable(ctx)
	if aErr == nil && s.gauges.AvailableAgents != nil {
		s.gauges.AvailableAgents.Set(float64(available))
	}
	pending, pErr := s.tasks.CountByStatus(ctx, domain.TaskPending)
	if pErr == nil && s.gauges.PendingTasks != nil {
		s.gauges.PendingTasks.Set(float64(pending))
	}
	if err := errors.Join(aErr, pErr); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	s.logger.Debug("backlog swept",
		logx.Int64("available_agents", available),
		logx.Int64("pending_tasks", pending),
	)
	if pending > 0 && available == 0 {
		s.logger.Warn("pending tasks without available agents",
			logx.Int64("pending_tasks", pending),
		)
	}
	return nil
}

// Run sweeps once, then on every tick of spec until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("backlog sweep failed", logx.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	if err := s.Sweep(ctx); err != nil {
		s.logger.Error("backlog sweep failed", logx.Err(err))
	}

	s.cron.Start()
	s.logger.Info("backlog sweeper started", logx.String("schedule", spec))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("backlog sweeper stopped")
	return ctx.Err()
}
