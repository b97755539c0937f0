package handlers

import (
	"context"

	"service-delivery/internal/domain"
	"service-delivery/internal/service/agent"
	"service-delivery/internal/service/task"
)

type agentUsecase interface {
	Register(ctx context.Context, userID, vehicleType string) (*domain.Agent, error)
	UpdateLocation(ctx context.Context, userID string, lat, lon float64) (*domain.Agent, error)
	Get(ctx context.Context, userID string) (*domain.Agent, error)
}

// NewAgentUsecase wires an agent registry into an agentUsecase.
func NewAgentUsecase(svc *agent.Service) agentUsecase {
	return svc
}

type taskUsecase interface {
	Create(ctx context.Context, orderID string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, taskID int64, callerUserID string, status domain.TaskStatus) (*domain.Task, error)
	Get(ctx context.Context, taskID int64) (*domain.Task, error)
}

// NewTaskUsecase wires the task lifecycle into a taskUsecase.
func NewTaskUsecase(svc *task.Service) taskUsecase {
	return svc
}
