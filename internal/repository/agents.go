package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
)

const agentColumns = `id, name, phone, warehouse_id, is_checked_in, checked_in_at`

func scanAgent(row pgx.Row) (domain.Agent, error) {
	var (
		a   domain.Agent
		id  string
		wid string
	)
	if err := row.Scan(&id, &a.Name, &a.Phone, &wid, &a.CheckedIn, &a.CheckedInAt); err != nil {
		return domain.Agent{}, err
	}
	a.ID = domain.AgentID(id)
	a.WarehouseID = domain.WarehouseID(wid)
	return a, nil
}

func collectAgents(rows pgx.Rows) ([]domain.Agent, error) {
	defer rows.Close()
	out := make([]domain.Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListEligibleAgents returns checked-in agents ordered by warehouse and name.
func (s *Store) ListEligibleAgents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE is_checked_in ORDER BY warehouse_id, name, id`)
	if err != nil {
		return nil, fmt.Errorf("list eligible agents: %w", err)
	}
	return collectAgents(rows)
}

// ListAgents returns every agent ordered by id.
func (s *Store) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return collectAgents(rows)
}

// GetAgent returns the agent or nil, nil when it does not exist.
func (s *Store) GetAgent(ctx context.Context, id domain.AgentID) (*domain.Agent, error) {
	a, err := scanAgent(s.db.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1`, string(id)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent %s: %w", id, err)
	}
	return &a, nil
}

// CreateAgent inserts a new agent.
func (s *Store) CreateAgent(ctx context.Context, a *domain.Agent) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO agents (id, name, phone, warehouse_id, is_checked_in, checked_in_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(a.ID), a.Name, a.Phone, string(a.WarehouseID), a.CheckedIn, a.CheckedInAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("create agent %s: %w", a.ID, apperr.ErrConflict)
		}
		return fmt.Errorf("create agent %s: %w", a.ID, err)
	}
	return nil
}

// CheckIn marks the agent available. It returns false when the agent does not exist.
func (s *Store) CheckIn(ctx context.Context, id domain.AgentID, at time.Time) (bool, error) {
	ct, err := s.db.Exec(ctx,
		`UPDATE agents SET is_checked_in = true, checked_in_at = $2 WHERE id = $1`, string(id), at)
	if err != nil {
		return false, fmt.Errorf("check in agent %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// CheckOut clears the availability flag of one agent.
func (s *Store) CheckOut(ctx context.Context, id domain.AgentID) (bool, error) {
	ct, err := s.db.Exec(ctx,
		`UPDATE agents SET is_checked_in = false, checked_in_at = NULL WHERE id = $1`, string(id))
	if err != nil {
		return false, fmt.Errorf("check out agent %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// CheckOutAll clears the availability flag of every agent.
func (s *Store) CheckOutAll(ctx context.Context) (int64, error) {
	ct, err := s.db.Exec(ctx,
		`UPDATE agents SET is_checked_in = false, checked_in_at = NULL WHERE is_checked_in`)
	if err != nil {
		return 0, fmt.Errorf("check out all agents: %w", err)
	}
	return ct.RowsAffected(), nil
}
