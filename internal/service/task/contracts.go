//go:generate mockgen -source=contracts.go -destination=task_mocks_test.go -package=task_test

package task

import (
	"context"

	"service-delivery/internal/domain"
	"service-delivery/internal/geo"
	"service-delivery/internal/ports/dispatchtx"
	"service-delivery/internal/service/dispatch"
)

// OrdersGateway looks up orders in the order collaborator.
type OrdersGateway interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// Notifier publishes status events; it must not fail the caller.
type Notifier interface {
	Publish(ctx context.Context, ev domain.StatusEvent)
}

// AgentRegistry is the subset of the agent registry used inside task transactions.
type AgentRegistry interface {
	ListAvailable(ctx context.Context, tx dispatchtx.AgentStore) ([]domain.Agent, error)
	ResolveCaller(ctx context.Context, tx dispatchtx.AgentStore, userID string) (*domain.Agent, error)
	Reserve(ctx context.Context, tx dispatchtx.AgentStore, agentID int64) error
	Release(ctx context.Context, tx dispatchtx.AgentStore, agentID int64) error
}

// Matcher chooses an agent for a pickup point.
type Matcher interface {
	FindNearest(pickup geo.Point, candidates []domain.Agent) (dispatch.Match, bool)
}

// DispatchObserver records dispatch outcomes.
type DispatchObserver interface {
	ObserveDispatch(outcome string)
}
