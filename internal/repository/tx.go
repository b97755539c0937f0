package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/domain"
	"service-delivery/internal/ports/dispatchtx"
)

// TxRunner runs dispatch work inside a single database transaction.
type TxRunner struct {
	db *pgxpool.Pool
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *pgxpool.Pool) *TxRunner {
	return &TxRunner{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *TxRunner) WithTx(ctx context.Context, fn func(tx dispatchtx.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// rollback on panic
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return asConflict("commit tx", err)
	}

	return nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// Agents returns the agent store bound to the transaction.
func (r *TxRepo) Agents() dispatchtx.AgentStore { return txAgents{tx: r.tx} }

// Tasks returns the task store bound to the transaction.
func (r *TxRepo) Tasks() dispatchtx.TaskStore { return txTasks{tx: r.tx} }

type txAgents struct{ tx pgx.Tx }

// ListAvailableForUpdate - locks and returns available agents in registration order.
func (r txAgents) ListAvailableForUpdate(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT `+agentColumns+`
        FROM delivery_agents
        WHERE is_available
        ORDER BY id
        FOR UPDATE
    `)
	if err != nil {
		return nil, asConflict("list available agents", err)
	}
	defer rows.Close()

	var out []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r txAgents) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	a, err := scanAgent(r.tx.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM delivery_agents WHERE user_id = $1`, userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent by user %q: %w", userID, err)
	}
	return a, nil
}

// Reserve - marks the agent busy if nobody else did first.
func (r txAgents) Reserve(ctx context.Context, id int64) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_agents
        SET is_available = FALSE, updated_at = now()
        WHERE id = $1 AND is_available
    `, id)
	if err != nil {
		return false, asConflict(fmt.Sprintf("reserve agent %d", id), err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r txAgents) SetAvailability(ctx context.Context, id int64, available bool) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_agents
        SET is_available = $2, updated_at = now()
        WHERE id = $1
    `, id, available)
	if err != nil {
		return asConflict(fmt.Sprintf("set agent %d availability", id), err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("agent %d not found", id)
	}
	return nil
}

type txTasks struct{ tx pgx.Tx }

// Insert - insert a new task and fill its id.
func (r txTasks) Insert(ctx context.Context, t *domain.Task) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO delivery_tasks (order_id, agent_id, pickup_latitude, pickup_longitude,
            delivery_latitude, delivery_longitude, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, t.OrderID, t.AgentID, t.PickupLatitude, t.PickupLongitude,
		t.DeliveryLatitude, t.DeliveryLongitude, string(t.Status), t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r txTasks) GetForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.tx.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM delivery_tasks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, asConflict(fmt.Sprintf("get task %d for update", id), err)
	}
	return t, nil
}

// ApplyStatus writes only the columns a status transition may touch.
func (r txTasks) ApplyStatus(ctx context.Context, c domain.StatusChange) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_tasks
        SET status = $2,
            pickup_time = $3,
            delivery_time = $4,
            updated_at = $5
        WHERE id = $1
    `, c.TaskID, string(c.Status), c.PickupTime, c.DeliveryTime, c.UpdatedAt)
	if err != nil {
		return asConflict(fmt.Sprintf("apply task %d status", c.TaskID), err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("task %d not found", c.TaskID)
	}
	return nil
}
