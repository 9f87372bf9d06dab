package catalog

import (
	"context"

	"delivery-allocation/internal/domain"
)

// catalogRepository defines the read-only storage the catalog needs.
type catalogRepository interface {
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListOrdersByIDs(ctx context.Context, ids []domain.OrderID) ([]domain.Order, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
}
