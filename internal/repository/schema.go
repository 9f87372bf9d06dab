package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS warehouses (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	city      TEXT NOT NULL DEFAULT '',
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS agents (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	phone         TEXT NOT NULL DEFAULT '',
	warehouse_id  TEXT NOT NULL,
	is_checked_in BOOLEAN NOT NULL DEFAULT false,
	checked_in_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS orders (
	id                TEXT PRIMARY KEY,
	external_ref      TEXT NOT NULL DEFAULT '',
	customer_name     TEXT NOT NULL DEFAULT '',
	delivery_address  TEXT NOT NULL DEFAULT '',
	latitude          DOUBLE PRECISION NOT NULL,
	longitude         DOUBLE PRECISION NOT NULL,
	warehouse_id      TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'assigned', 'deferred', 'delivered')),
	assigned_agent_id TEXT,
	assigned_at       TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS orders_warehouse_status_idx ON orders (warehouse_id, status);

CREATE TABLE IF NOT EXISTS assignments (
	id                TEXT PRIMARY KEY,
	agent_id          TEXT NOT NULL,
	order_ids         TEXT[] NOT NULL CHECK (cardinality(order_ids) > 0),
	assignment_date   DATE NOT NULL,
	total_distance_km DOUBLE PRECISION NOT NULL,
	total_time_hours  DOUBLE PRECISION NOT NULL,
	earning_per_order INTEGER NOT NULL,
	total_earning     INTEGER NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (agent_id, assignment_date),
	CHECK (total_earning = earning_per_order * cardinality(order_ids))
);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
