package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
)

const orderColumns = `id, external_ref, customer_name, delivery_address, latitude, longitude,
	warehouse_id, status, assigned_agent_id, assigned_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o       domain.Order
		id, wid string
		status  string
		agentID *string
	)
	err := row.Scan(&id, &o.ExternalRef, &o.CustomerName, &o.DeliveryAddress,
		&o.Location.Lat, &o.Location.Lng, &wid, &status, &agentID, &o.AssignedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = domain.OrderID(id)
	o.WarehouseID = domain.WarehouseID(wid)
	o.Status = domain.OrderStatus(status)
	if agentID != nil {
		aid := domain.AgentID(*agentID)
		o.AssignedAgentID = &aid
	}
	return o, nil
}

// ListPendingOrders returns the pending orders of a warehouse in arrival order.
func (s *Store) ListPendingOrders(ctx context.Context, warehouseID domain.WarehouseID) ([]domain.Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE warehouse_id = $1 AND status = 'pending'
		 ORDER BY created_at, id`, string(warehouseID))
	if err != nil {
		return nil, fmt.Errorf("list pending orders of %s: %w", warehouseID, err)
	}
	return collectOrders(rows)
}

// ListOrders returns every order with the given status in arrival order.
// An empty status lists all orders.
func (s *Store) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.ErrInvalid
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE $1::text = '' OR status = $1::text
		 ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows)
}

// ListOrdersByIDs returns the orders among ids that exist. Unknown ids are skipped.
func (s *Store) ListOrdersByIDs(ctx context.Context, ids []domain.OrderID) ([]domain.Order, error) {
	if len(ids) == 0 {
		return []domain.Order{}, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ANY($1) ORDER BY id`, orderIDStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("list orders by id: %w", err)
	}
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetOrder returns the order or nil, nil when it does not exist.
func (s *Store) GetOrder(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, string(id)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return &o, nil
}

// CreateOrder inserts a new order. An empty status defaults to pending.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	status := o.Status
	if status == "" {
		status = domain.OrderPending
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO orders (id, external_ref, customer_name, delivery_address, latitude, longitude, warehouse_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(o.ID), o.ExternalRef, o.CustomerName, o.DeliveryAddress,
		o.Location.Lat, o.Location.Lng, string(o.WarehouseID), string(status))
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("create order %s: %w", o.ID, apperr.ErrConflict)
		}
		return fmt.Errorf("create order %s: %w", o.ID, err)
	}
	return nil
}

// UpdateOrderStatus sets the status of one order. agentID and at are stored
// for assigned orders and cleared otherwise. It returns false when the order
// does not exist.
func (s *Store) UpdateOrderStatus(
	ctx context.Context,
	id domain.OrderID,
	status domain.OrderStatus,
	agentID *domain.AgentID,
	at *time.Time,
) (bool, error) {
	if !status.Valid() {
		return false, apperr.ErrInvalid
	}
	var aid *string
	if agentID != nil && status == domain.OrderAssigned {
		v := string(*agentID)
		aid = &v
	}
	if status != domain.OrderAssigned {
		at = nil
	}
	ct, err := s.db.Exec(ctx,
		`UPDATE orders SET status = $2, assigned_agent_id = $3, assigned_at = $4 WHERE id = $1`,
		string(id), string(status), aid, at)
	if err != nil {
		return false, fmt.Errorf("update order status %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// BulkDeferOrders moves the given pending orders to deferred.
func (s *Store) BulkDeferOrders(ctx context.Context, ids []domain.OrderID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := s.db.Exec(ctx,
		`UPDATE orders SET status = 'deferred', assigned_agent_id = NULL, assigned_at = NULL
		 WHERE id = ANY($1) AND status = 'pending'`, orderIDStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("defer orders: %w", err)
	}
	return ct.RowsAffected(), nil
}

// CountDeferredOrders counts every order currently deferred.
func (s *Store) CountDeferredOrders(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = 'deferred'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count deferred orders: %w", err)
	}
	return n, nil
}

func orderIDStrings(ids []domain.OrderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
