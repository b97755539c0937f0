package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS delivery_agents (
        id                   BIGSERIAL PRIMARY KEY,
        user_id              TEXT        NOT NULL UNIQUE,
        vehicle_type         TEXT        NOT NULL,
        latitude             DOUBLE PRECISION,
        longitude            DOUBLE PRECISION,
        is_available         BOOLEAN     NOT NULL DEFAULT TRUE,
        last_location_update TIMESTAMPTZ,
        created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS delivery_agents_available_idx
        ON delivery_agents (id) WHERE is_available`,
	`CREATE TABLE IF NOT EXISTS delivery_tasks (
        id                 BIGSERIAL PRIMARY KEY,
        order_id           TEXT             NOT NULL,
        agent_id           BIGINT REFERENCES delivery_agents (id),
        pickup_latitude    DOUBLE PRECISION NOT NULL,
        pickup_longitude   DOUBLE PRECISION NOT NULL,
        delivery_latitude  DOUBLE PRECISION NOT NULL,
        delivery_longitude DOUBLE PRECISION NOT NULL,
        status             TEXT             NOT NULL DEFAULT 'pending'
            CHECK (status IN ('pending', 'assigned', 'picked_up', 'delivered', 'cancelled')),
        pickup_time        TIMESTAMPTZ,
        delivery_time      TIMESTAMPTZ,
        created_at         TIMESTAMPTZ      NOT NULL DEFAULT now(),
        updated_at         TIMESTAMPTZ      NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS delivery_tasks_status_idx ON delivery_tasks (status)`,
	`CREATE INDEX IF NOT EXISTS delivery_tasks_agent_idx ON delivery_tasks (agent_id)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
