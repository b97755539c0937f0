package dispatchtx

import (
	"context"

	"service-delivery/internal/domain"
)

// AgentStore is the agent side of a dispatch transaction.
type AgentStore interface {
	// ListAvailableForUpdate returns available agents ordered by id and locks their rows.
	ListAvailableForUpdate(ctx context.Context) ([]domain.Agent, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Agent, error)
	// Reserve flips availability to false only if the agent is still available.
	Reserve(ctx context.Context, id int64) (bool, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

// TaskStore is the task side of a dispatch transaction.
type TaskStore interface {
	Insert(ctx context.Context, t *domain.Task) error
	GetForUpdate(ctx context.Context, id int64) (*domain.Task, error)
	ApplyStatus(ctx context.Context, c domain.StatusChange) error
}

// Tx groups the stores sharing one transaction.
type Tx interface {
	Agents() AgentStore
	Tasks() TaskStore
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// AgentRepository serves agent operations that need no cross-entity transaction.
type AgentRepository interface {
	Create(ctx context.Context, a *domain.Agent) error
	GetByUserID(ctx context.Context, userID string) (*domain.Agent, error)
	// UpdateLocation returns nil when no agent has the given user id.
	UpdateLocation(ctx context.Context, u domain.LocationUpdate) (*domain.Agent, error)
	CountAvailable(ctx context.Context) (int64, error)
}

// TaskRepository serves task reads outside a transaction.
type TaskRepository interface {
	Get(ctx context.Context, id int64) (*domain.Task, error)
	CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error)
}
