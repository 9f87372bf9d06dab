//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=allocation_test

package allocation

import (
	"context"
	"time"

	"delivery-allocation/internal/domain"
)

// Storage is everything an allocation run reads from and writes to.
type Storage interface {
	ListEligibleAgents(ctx context.Context) ([]domain.Agent, error)
	ListPendingOrders(ctx context.Context, warehouseID domain.WarehouseID) ([]domain.Order, error)
	// GetWarehouse returns nil, nil when the warehouse does not exist.
	GetWarehouse(ctx context.Context, id domain.WarehouseID) (*domain.Warehouse, error)
	HasAssignment(ctx context.Context, agentID domain.AgentID, day time.Time) (bool, error)
	// CreateAssignment stores the assignment and moves its orders from pending
	// to assigned in one transaction.
	CreateAssignment(ctx context.Context, a *domain.Assignment) (domain.AssignmentID, error)
	BulkDeferOrders(ctx context.Context, ids []domain.OrderID) (int64, error)
	ListAssignments(ctx context.Context, day time.Time) ([]domain.Assignment, error)
	CountDeferredOrders(ctx context.Context) (int, error)
}
