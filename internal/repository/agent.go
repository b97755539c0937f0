package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

const agentColumns = `id, user_id, vehicle_type, latitude, longitude, is_available,
       last_location_update, created_at, updated_at`

// AgentRepo represents delivery agent repository.
type AgentRepo struct{ db *pgxpool.Pool }

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(db *pgxpool.Pool) *AgentRepo { return &AgentRepo{db: db} }

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var a domain.Agent
	err := row.Scan(&a.ID, &a.UserID, &a.VehicleType, &a.Latitude, &a.Longitude, &a.IsAvailable,
		&a.LastLocationUpdate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create - creates a new agent and fills its generated fields.
func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO delivery_agents (user_id, vehicle_type, is_available)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `, a.UserID, a.VehicleType, a.IsAvailable).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

// GetByUserID - returns agent by the external user identity.
func (r *AgentRepo) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM delivery_agents WHERE user_id = $1`, userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent by user %q: %w", userID, err)
	}
	return a, nil
}

// UpdateLocation overwrites the agent's coordinates. Returns nil if the agent does not exist.
func (r *AgentRepo) UpdateLocation(ctx context.Context, u domain.LocationUpdate) (*domain.Agent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx, `
        UPDATE delivery_agents
        SET latitude = $2,
            longitude = $3,
            last_location_update = $4,
            updated_at = $4
        WHERE user_id = $1
        RETURNING `+agentColumns,
		u.UserID, u.Latitude, u.Longitude, u.ReportedAt))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update agent location %q: %w", u.UserID, err)
	}
	return a, nil
}

// CountAvailable returns the number of agents free to take a task.
func (r *AgentRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM delivery_agents WHERE is_available`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count available agents: %w", err)
	}
	return n, nil
}
