package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/domain"
)

const taskColumns = `id, order_id, agent_id, pickup_latitude, pickup_longitude,
       delivery_latitude, delivery_longitude, status, pickup_time, delivery_time,
       created_at, updated_at`

// TaskRepo represents delivery task repository.
type TaskRepo struct{ db *pgxpool.Pool }

// NewTaskRepo creates a new TaskRepo.
func NewTaskRepo(db *pgxpool.Pool) *TaskRepo { return &TaskRepo{db: db} }

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.OrderID, &t.AgentID, &t.PickupLatitude, &t.PickupLongitude,
		&t.DeliveryLatitude, &t.DeliveryLongitude, &t.Status, &t.PickupTime, &t.DeliveryTime,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Get - returns task by its ID, nil if absent.
func (r *TaskRepo) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM delivery_tasks WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// CountByStatus returns how many tasks are in the given status.
func (r *TaskRepo) CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM delivery_tasks WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s tasks: %w", status, err)
	}
	return n, nil
}
