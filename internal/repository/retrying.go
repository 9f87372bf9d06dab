package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// allocationStore is the storage surface read and written by an allocation run.
type allocationStore interface {
	ListEligibleAgents(ctx context.Context) ([]domain.Agent, error)
	ListPendingOrders(ctx context.Context, warehouseID domain.WarehouseID) ([]domain.Order, error)
	GetWarehouse(ctx context.Context, id domain.WarehouseID) (*domain.Warehouse, error)
	HasAssignment(ctx context.Context, agentID domain.AgentID, day time.Time) (bool, error)
	CreateAssignment(ctx context.Context, a *domain.Assignment) (domain.AssignmentID, error)
	BulkDeferOrders(ctx context.Context, ids []domain.OrderID) (int64, error)
	ListAssignments(ctx context.Context, day time.Time) ([]domain.Assignment, error)
	CountDeferredOrders(ctx context.Context) (int, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes how Retrying backs off.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Retrying retries reads of the wrapped store on transient Postgres errors.
// Writes are passed through once: CreateAssignment is transactional and
// BulkDeferOrders only touches pending orders, so the caller decides.
type Retrying struct {
	next    allocationStore
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetrying wraps next. It returns nil when next is nil.
func NewRetrying(next allocationStore, logger logx.Logger, retries counter, cfg RetryConfig) *Retrying {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Retrying{next: next, logger: logger, retries: retries, cfg: cfg}
}

// ListEligibleAgents retries next.ListEligibleAgents.
func (r *Retrying) ListEligibleAgents(ctx context.Context) ([]domain.Agent, error) {
	return retry(ctx, r, "ListEligibleAgents", r.next.ListEligibleAgents)
}

// ListPendingOrders retries next.ListPendingOrders.
func (r *Retrying) ListPendingOrders(ctx context.Context, warehouseID domain.WarehouseID) ([]domain.Order, error) {
	return retry(ctx, r, "ListPendingOrders", func(ctx context.Context) ([]domain.Order, error) {
		return r.next.ListPendingOrders(ctx, warehouseID)
	})
}

// GetWarehouse retries next.GetWarehouse.
func (r *Retrying) GetWarehouse(ctx context.Context, id domain.WarehouseID) (*domain.Warehouse, error) {
	return retry(ctx, r, "GetWarehouse", func(ctx context.Context) (*domain.Warehouse, error) {
		return r.next.GetWarehouse(ctx, id)
	})
}

// HasAssignment retries next.HasAssignment.
func (r *Retrying) HasAssignment(ctx context.Context, agentID domain.AgentID, day time.Time) (bool, error) {
	return retry(ctx, r, "HasAssignment", func(ctx context.Context) (bool, error) {
		return r.next.HasAssignment(ctx, agentID, day)
	})
}

// ListAssignments retries next.ListAssignments.
func (r *Retrying) ListAssignments(ctx context.Context, day time.Time) ([]domain.Assignment, error) {
	return retry(ctx, r, "ListAssignments", func(ctx context.Context) ([]domain.Assignment, error) {
		return r.next.ListAssignments(ctx, day)
	})
}

// CountDeferredOrders retries next.CountDeferredOrders.
func (r *Retrying) CountDeferredOrders(ctx context.Context) (int, error) {
	return retry(ctx, r, "CountDeferredOrders", r.next.CountDeferredOrders)
}

// CreateAssignment is not retried.
func (r *Retrying) CreateAssignment(ctx context.Context, a *domain.Assignment) (domain.AssignmentID, error) {
	return r.next.CreateAssignment(ctx, a)
}

// BulkDeferOrders is not retried.
func (r *Retrying) BulkDeferOrders(ctx context.Context, ids []domain.OrderID) (int64, error) {
	return r.next.BulkDeferOrders(ctx, ids)
}

func retry[T any](ctx context.Context, r *Retrying, method string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(r.cfg.BaseDelay, r.cfg.MaxDelay, attempt)
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.Warn("storage retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

// isRetryable reports connection loss, timeouts and serialization failures.
func isRetryable(err error) bool {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57P01", "08000", "08003", "08006":
			return true
		}
	}
	return false
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
