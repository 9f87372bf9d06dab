package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
)

const assignmentColumns = `id, agent_id, order_ids, assignment_date, total_distance_km,
	total_time_hours, earning_per_order, total_earning, created_at`

// CreateAssignment stores a and moves its orders from pending to assigned in
// one transaction. If any order is no longer pending nothing is written and
// apperr.ErrConflict is returned.
func (s *Store) CreateAssignment(ctx context.Context, a *domain.Assignment) (domain.AssignmentID, error) {
	if len(a.OrderIDs) == 0 {
		return "", fmt.Errorf("create assignment: %w: no orders", apperr.ErrInvalid)
	}
	if a.ID == "" {
		a.ID = domain.AssignmentID(uuid.NewString())
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	err := s.WithTx(ctx, func(tx *TxRepo) error {
		if err := tx.InsertAssignment(ctx, a); err != nil {
			return err
		}
		return tx.AssignOrders(ctx, a.OrderIDs, a.AgentID, a.CreatedAt)
	})
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// InsertAssignment inserts the assignment row.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO assignments (id, agent_id, order_ids, assignment_date, total_distance_km,
			total_time_hours, earning_per_order, total_earning, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, string(a.ID), string(a.AgentID), orderIDStrings(a.OrderIDs), domain.Day(a.Date),
		a.TotalDistanceKm, a.TotalTimeHours, a.EarningPerOrder, a.TotalEarning, a.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("insert assignment for agent %s: %w", a.AgentID, apperr.ErrConflict)
		}
		return fmt.Errorf("insert assignment for agent %s: %w", a.AgentID, err)
	}
	return nil
}

// AssignOrders moves pending orders to assigned. Every order must still be pending.
func (r *TxRepo) AssignOrders(ctx context.Context, ids []domain.OrderID, agentID domain.AgentID, at time.Time) error {
	ct, err := r.tx.Exec(ctx, `
		UPDATE orders
		SET status = 'assigned', assigned_agent_id = $2, assigned_at = $3
		WHERE id = ANY($1) AND status = 'pending'
	`, orderIDStrings(ids), string(agentID), at)
	if err != nil {
		return fmt.Errorf("assign orders to %s: %w", agentID, err)
	}
	if got := ct.RowsAffected(); got != int64(len(ids)) {
		return fmt.Errorf("assign orders to %s: %w: %d of %d orders still pending",
			agentID, apperr.ErrConflict, got, len(ids))
	}
	return nil
}

// HasAssignment reports whether the agent already has an assignment for day.
func (s *Store) HasAssignment(ctx context.Context, agentID domain.AgentID, day time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM assignments WHERE agent_id = $1 AND assignment_date = $2)`,
		string(agentID), domain.Day(day)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check assignment of %s: %w", agentID, err)
	}
	return exists, nil
}

// ListAssignments returns the assignments of day ordered by creation.
func (s *Store) ListAssignments(ctx context.Context, day time.Time) ([]domain.Assignment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE assignment_date = $1 ORDER BY created_at, id`,
		domain.Day(day))
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var (
		a        domain.Assignment
		id, aid  string
		orderIDs []string
	)
	err := row.Scan(&id, &aid, &orderIDs, &a.Date, &a.TotalDistanceKm,
		&a.TotalTimeHours, &a.EarningPerOrder, &a.TotalEarning, &a.CreatedAt)
	if err != nil {
		return domain.Assignment{}, err
	}
	a.ID = domain.AssignmentID(id)
	a.AgentID = domain.AgentID(aid)
	a.Date = domain.Day(a.Date)
	a.OrderIDs = make([]domain.OrderID, len(orderIDs))
	for i, o := range orderIDs {
		a.OrderIDs[i] = domain.OrderID(o)
	}
	return a, nil
}

// Reset removes the assignments of day and returns their orders, together with
// every deferred order, to pending.
func (s *Store) Reset(ctx context.Context, day time.Time) (domain.ResetResult, error) {
	var res domain.ResetResult
	err := s.WithTx(ctx, func(tx *TxRepo) error {
		var err error
		res, err = tx.reset(ctx, domain.Day(day))
		return err
	})
	if err != nil {
		return domain.ResetResult{}, err
	}
	return res, nil
}

func (r *TxRepo) reset(ctx context.Context, day time.Time) (domain.ResetResult, error) {
	var res domain.ResetResult

	ct, err := r.tx.Exec(ctx, `
		UPDATE orders SET status = 'pending', assigned_agent_id = NULL, assigned_at = NULL
		WHERE status = 'assigned' AND id IN (
			SELECT unnest(order_ids) FROM assignments WHERE assignment_date = $1
		)
	`, day)
	if err != nil {
		return res, fmt.Errorf("release assigned orders: %w", err)
	}
	res.Released = ct.RowsAffected()

	ct, err = r.tx.Exec(ctx, `UPDATE orders SET status = 'pending' WHERE status = 'deferred'`)
	if err != nil {
		return res, fmt.Errorf("release deferred orders: %w", err)
	}
	res.Undeferred = ct.RowsAffected()

	ct, err = r.tx.Exec(ctx, `DELETE FROM assignments WHERE assignment_date = $1`, day)
	if err != nil {
		return res, fmt.Errorf("delete assignments: %w", err)
	}
	res.Assignments = ct.RowsAffected()
	return res, nil
}
