// Package task drives delivery tasks through their lifecycle.
package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/ports/dispatchtx"
	"service-delivery/internal/service/dispatch"
)

// Dispatch outcomes reported to the DispatchObserver.
const (
	OutcomeAssigned = "assigned"
	OutcomePending  = "pending"
	OutcomeConflict = "conflict"
)

var tracer = otel.Tracer("service-delivery/task")

// Deps are the collaborators of Service.
type Deps struct {
	Runner      dispatchtx.Runner
	Tasks       dispatchtx.TaskRepository
	Agents      AgentRegistry
	Matcher     Matcher
	Orders      OrdersGateway
	Notifier    Notifier
	Observer    DispatchObserver
	Logger      logx.Logger
	Timeout     time.Duration
	MaxAttempts int
}

// Service creates tasks, dispatches them and applies status updates.
type Service struct {
	runner           dispatchtx.Runner
	tasks            dispatchtx.TaskRepository
	agents           AgentRegistry
	matcher          Matcher
	orders           OrdersGateway
	notifier         Notifier
	observer         DispatchObserver
	logger           logx.Logger
	operationTimeout time.Duration
	maxAttempts      int
	now              func() time.Time
}

type nopObserver struct{}

func (nopObserver) ObserveDispatch(string) {}

// NewService creates a task Service.
func NewService(d Deps) *Service {
	if d.Timeout <= 0 {
		d.Timeout = 5 * time.Second
	}
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = 3
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	return &Service{
		runner:           d.Runner,
		tasks:            d.Tasks,
		agents:           d.Agents,
		matcher:          d.Matcher,
		orders:           d.Orders,
		notifier:         d.Notifier,
		observer:         d.Observer,
		logger:           d.Logger,
		operationTimeout: d.Timeout,
		maxAttempts:      d.MaxAttempts,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create builds a task for orderID and assigns it to the nearest available agent, if any.
func (s *Service) Create(ctx context.Context, orderID string) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "task.create")
	defer span.End()
	span.SetAttributes(attribute.String("delivery.order_id", orderID))

	t, err := s.create(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("delivery.task_id", t.ID),
		attribute.String("delivery.status", string(t.Status)),
	)
	return t, nil
}

func (s *Service) create(ctx context.Context, orderID string) (*domain.Task, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperr.WithDetails(apperr.ErrInvalid, "order_id is required", nil)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	coords, err := s.lookupOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var (
		task    *domain.Task
		match   dispatch.Match
		matched bool
	)
	for attempt := 1; ; attempt++ {
		err = s.runner.WithTx(ctx, func(tx dispatchtx.Tx) error {
			now := s.now()
			t := domain.NewTask(orderID, coords, now)

			candidates, err := s.agents.ListAvailable(ctx, tx.Agents())
			if err != nil {
				return err
			}
			m, ok := s.matcher.FindNearest(t.Pickup(), candidates)
			if ok {
				if err := s.agents.Reserve(ctx, tx.Agents(), m.Agent.ID); err != nil {
					return err
				}
				t.Assign(m.Agent.ID, now)
			}
			if err := tx.Tasks().Insert(ctx, t); err != nil {
				return err
			}
			task, match, matched = t, m, ok
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		s.observer.ObserveDispatch(OutcomeConflict)
		if attempt >= s.maxAttempts {
			return nil, apperr.WithDetails(apperr.ErrNoAgentAvailable, "no delivery agent could be reserved", nil)
		}
		s.logger.Warn("agent reservation lost, retrying dispatch",
			logx.String("order_id", orderID),
			logx.Int("attempt", attempt),
		)
	}

	if !matched {
		s.observer.ObserveDispatch(OutcomePending)
		s.logger.Info("task created without agent",
			logx.String("event", "task_pending"),
			logx.Int64("task_id", task.ID),
			logx.String("order_id", task.OrderID),
		)
		return task, nil
	}

	s.observer.ObserveDispatch(OutcomeAssigned)
	s.logger.Info("task assigned",
		logx.String("event", "task_assigned"),
		logx.Int64("task_id", task.ID),
		logx.String("order_id", task.OrderID),
		logx.Int64("agent_id", match.Agent.ID),
		logx.Float64("distance_km", match.DistanceKm),
	)
	s.notifier.Publish(ctx, task.Event(task.UpdatedAt))
	return task, nil
}

func (s *Service) lookupOrder(ctx context.Context, orderID string) (domain.Coordinates, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return domain.Coordinates{}, apperr.WithDetails(apperr.ErrNotFound, "order not found", nil)
		}
		s.logger.Error("order lookup failed",
			logx.String("order_id", orderID),
			logx.Err(err),
		)
		return domain.Coordinates{}, apperr.WithDetails(apperr.ErrDependency, "order service unavailable", nil)
	}
	if order == nil {
		return domain.Coordinates{}, apperr.WithDetails(apperr.ErrNotFound, "order not found", nil)
	}
	coords, ok := order.Coordinates()
	if !ok {
		return domain.Coordinates{}, apperr.WithDetails(apperr.ErrIncompleteOrder,
			"order is missing location data",
			map[string]any{"missing_fields": order.MissingCoordinates()})
	}
	return coords, nil
}

// UpdateStatus moves a task to status on behalf of the agent identified by callerUserID.
func (s *Service) UpdateStatus(ctx context.Context, taskID int64, callerUserID string, status domain.TaskStatus) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "task.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("delivery.task_id", taskID),
		attribute.String("delivery.status", string(status)),
	)

	t, err := s.updateStatus(ctx, taskID, callerUserID, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return t, nil
}

func (s *Service) updateStatus(ctx context.Context, taskID int64, callerUserID string, status domain.TaskStatus) (*domain.Task, error) {
	if strings.TrimSpace(string(status)) == "" {
		return nil, apperr.WithDetails(apperr.ErrInvalid, "status is required", nil)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		task *domain.Task
		from domain.TaskStatus
	)
	err := s.runner.WithTx(ctx, func(tx dispatchtx.Tx) error {
		t, err := tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.WithDetails(apperr.ErrNotFound, "delivery task not found", nil)
		}

		caller, err := s.agents.ResolveCaller(ctx, tx.Agents(), callerUserID)
		if err != nil {
			return err
		}
		if caller == nil || !t.BoundTo(caller.ID) {
			return apperr.WithDetails(apperr.ErrUnauthorized, "not the assigned delivery agent", nil)
		}

		if !status.Settable() {
			return apperr.WithDetails(apperr.ErrIllegalTransition, "invalid status", nil)
		}
		from = t.Status
		change, ok := t.Apply(status, s.now())
		if !ok {
			return apperr.WithDetails(apperr.ErrIllegalTransition, "illegal status transition",
				map[string]any{"from": string(from), "to": string(status)})
		}
		if err := tx.Tasks().ApplyStatus(ctx, change); err != nil {
			return err
		}
		if status == domain.TaskDelivered {
			if err := s.agents.Release(ctx, tx.Agents(), caller.ID); err != nil {
				return err
			}
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task status changed",
		logx.String("event", "task_status_changed"),
		logx.Int64("task_id", task.ID),
		logx.String("order_id", task.OrderID),
		logx.String("from", string(from)),
		logx.String("to", string(task.Status)),
	)
	s.notifier.Publish(ctx, task.Event(task.UpdatedAt))
	return task, nil
}

// Get returns the task with the given id.
func (s *Service) Get(ctx context.Context, taskID int64) (*domain.Task, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", taskID, err)
	}
	if t == nil {
		return nil, apperr.WithDetails(apperr.ErrNotFound, "delivery task not found", nil)
	}
	return t, nil
}
