// Package agent implements the registry of delivery agents.
package agent

import (
	"context"
	"strings"
	"time"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/ports/dispatchtx"
)

// Service registers agents and manages their location and availability.
type Service struct {
	repo             dispatchtx.AgentRepository
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures an agent Service.
func NewService(r dispatchtx.AgentRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Register creates an available agent with no known location.
func (s *Service) Register(ctx context.Context, userID, vehicleType string) (*domain.Agent, error) {
	userID = strings.TrimSpace(userID)
	vehicleType = strings.TrimSpace(vehicleType)
	if userID == "" {
		return nil, apperr.WithDetails(apperr.ErrInvalid, "user id is required", nil)
	}
	if vehicleType == "" {
		return nil, apperr.WithDetails(apperr.ErrInvalid, "vehicle type is required", nil)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.WithDetails(apperr.ErrConflict, "delivery agent already registered", nil)
	}

	a := &domain.Agent{
		UserID:      userID,
		VehicleType: vehicleType,
		IsAvailable: true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("agent registered",
		logx.String("event", "agent_registered"),
		logx.Int64("agent_id", a.ID),
		logx.String("user_id", a.UserID),
		logx.String("vehicle_type", a.VehicleType),
	)
	return a, nil
}

// UpdateLocation records the agent's latest reported position.
func (s *Service) UpdateLocation(ctx context.Context, userID string, lat, lon float64) (*domain.Agent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.UpdateLocation(ctx, domain.LocationUpdate{
		UserID:     userID,
		Latitude:   lat,
		Longitude:  lon,
		ReportedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.WithDetails(apperr.ErrNotFound, "delivery agent not found", nil)
	}
	return a, nil
}

// Get returns the agent registered for userID.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Agent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.WithDetails(apperr.ErrNotFound, "delivery agent not found", nil)
	}
	return a, nil
}

// ListAvailable returns available agents, located or not, locking them for the caller's transaction.
func (s *Service) ListAvailable(ctx context.Context, tx dispatchtx.AgentStore) ([]domain.Agent, error) {
	return tx.ListAvailableForUpdate(ctx)
}

// ResolveCaller maps an external identity to its agent inside tx. Unknown identities yield nil.
func (s *Service) ResolveCaller(ctx context.Context, tx dispatchtx.AgentStore, userID string) (*domain.Agent, error) {
	return tx.GetByUserID(ctx, userID)
}

// Reserve marks the agent unavailable. It fails with ErrConflict if another transaction took it first.
func (s *Service) Reserve(ctx context.Context, tx dispatchtx.AgentStore, agentID int64) error {
	ok, err := tx.Reserve(ctx, agentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrConflict
	}
	return nil
}

// Release makes the agent available again.
func (s *Service) Release(ctx context.Context, tx dispatchtx.AgentStore, agentID int64) error {
	return s.SetAvailability(ctx, tx, agentID, true)
}

// SetAvailability is an idempotent availability setter.
func (s *Service) SetAvailability(ctx context.Context, tx dispatchtx.AgentStore, agentID int64, available bool) error {
	if err := tx.SetAvailability(ctx, agentID, available); err != nil {
		return err
	}
	s.logger.Debug("agent availability changed",
		logx.Int64("agent_id", agentID),
		logx.Bool("available", available),
	)
	return nil
}
