// Package catalog serves read models over warehouses, orders and assignments.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// Service answers listing queries.
type Service struct {
	repo             catalogRepository
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a catalog Service.
func NewService(r catalogRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{repo: r, operationTimeout: timeout, logger: logger}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Warehouses returns every warehouse.
func (s *Service) Warehouses(ctx context.Context) ([]domain.Warehouse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	return list, nil
}

// Orders returns the orders in the given status. An empty status lists every order.
func (s *Service) Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	status = domain.OrderStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", apperr.ErrInvalid, status)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.ListOrders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// Describe joins each assignment with its agent's name and its order records.
func (s *Service) Describe(ctx context.Context, list []domain.Assignment) ([]domain.AssignmentDetail, error) {
	out := make([]domain.AssignmentDetail, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	agents, err := s.repo.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	names := make(map[domain.AgentID]string, len(agents))
	for _, a := range agents {
		names[a.ID] = a.Name
	}

	var ids []domain.OrderID
	for _, a := range list {
		ids = append(ids, a.OrderIDs...)
	}
	orders, err := s.repo.ListOrdersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list assigned orders: %w", err)
	}
	byID := make(map[domain.OrderID]domain.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	missing := 0
	for _, a := range list {
		d := domain.AssignmentDetail{
			Assignment: a,
			AgentName:  names[a.AgentID],
			Orders:     make([]domain.Order, 0, len(a.OrderIDs)),
		}
		for _, id := range a.OrderIDs {
			o, ok := byID[id]
			if !ok {
				missing++
				continue
			}
			d.Orders = append(d.Orders, o)
		}
		out = append(out, d)
	}
	if missing > 0 {
		s.logger.Warn("assigned orders not found", logx.Int("missing", missing))
	}
	return out, nil
}
