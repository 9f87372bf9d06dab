package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
)

// Memory is an in-process store with the same semantics as Store.
// It is safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	warehouses  map[domain.WarehouseID]domain.Warehouse
	agents      map[domain.AgentID]domain.Agent
	orders      map[domain.OrderID]domain.Order
	orderSeq    []domain.OrderID
	assignments []domain.Assignment
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		warehouses: make(map[domain.WarehouseID]domain.Warehouse),
		agents:     make(map[domain.AgentID]domain.Agent),
		orders:     make(map[domain.OrderID]domain.Order),
	}
}

// CreateWarehouse inserts a new warehouse.
func (m *Memory) CreateWarehouse(_ context.Context, w *domain.Warehouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.warehouses[w.ID]; ok {
		return fmt.Errorf("create warehouse %s: %w", w.ID, apperr.ErrConflict)
	}
	m.warehouses[w.ID] = *w
	return nil
}

// CreateAgent inserts a new agent.
func (m *Memory) CreateAgent(_ context.Context, a *domain.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[a.ID]; ok {
		return fmt.Errorf("create agent %s: %w", a.ID, apperr.ErrConflict)
	}
	m.agents[a.ID] = *a
	return nil
}

// CreateOrder inserts a new order. An empty status defaults to pending.
func (m *Memory) CreateOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; ok {
		return fmt.Errorf("create order %s: %w", o.ID, apperr.ErrConflict)
	}
	cp := *o
	if cp.Status == "" {
		cp.Status = domain.OrderPending
	}
	m.orders[o.ID] = cp
	m.orderSeq = append(m.orderSeq, o.ID)
	return nil
}

// GetWarehouse returns the warehouse or nil, nil when it does not exist.
func (m *Memory) GetWarehouse(_ context.Context, id domain.WarehouseID) (*domain.Warehouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// ListWarehouses returns every warehouse ordered by id.
func (m *Memory) ListWarehouses(_ context.Context) ([]domain.Warehouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Warehouse, 0, len(m.warehouses))
	for _, w := range m.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListEligibleAgents returns checked-in agents ordered by warehouse and name.
func (m *Memory) ListEligibleAgents(_ context.Context) ([]domain.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Agent, 0)
	for _, a := range m.agents {
		if a.CheckedIn {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListAgents returns every agent ordered by id.
func (m *Memory) ListAgents(_ context.Context) ([]domain.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Agent, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetAgent returns the agent or nil, nil when it does not exist.
func (m *Memory) GetAgent(_ context.Context, id domain.AgentID) (*domain.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// CheckIn marks the agent available. It returns false when the agent does not exist.
func (m *Memory) CheckIn(_ context.Context, id domain.AgentID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return false, nil
	}
	a.CheckedIn = true
	a.CheckedInAt = &at
	m.agents[id] = a
	return true, nil
}

// CheckOut clears the availability flag of one agent.
func (m *Memory) CheckOut(_ context.Context, id domain.AgentID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return false, nil
	}
	a.CheckedIn = false
	a.CheckedInAt = nil
	m.agents[id] = a
	return true, nil
}

// CheckOutAll clears the availability flag of every agent.
func (m *Memory) CheckOutAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.agents {
		if !a.CheckedIn {
			continue
		}
		a.CheckedIn = false
		a.CheckedInAt = nil
		m.agents[id] = a
		n++
	}
	return n, nil
}

// ListPendingOrders returns the pending orders of a warehouse in arrival order.
func (m *Memory) ListPendingOrders(_ context.Context, warehouseID domain.WarehouseID) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, id := range m.orderSeq {
		o := m.orders[id]
		if o.WarehouseID == warehouseID && o.Status == domain.OrderPending {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListOrders returns every order with the given status in arrival order.
// An empty status lists all orders.
func (m *Memory) ListOrders(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.ErrInvalid
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, id := range m.orderSeq {
		if o := m.orders[id]; status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListOrdersByIDs returns the orders among ids that exist, ordered by id.
func (m *Memory) ListOrdersByIDs(_ context.Context, ids []domain.OrderID) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetOrder returns the order or nil, nil when it does not exist.
func (m *Memory) GetOrder(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// UpdateOrderStatus sets the status of one order. It returns false when the
// order does not exist.
func (m *Memory) UpdateOrderStatus(
	_ context.Context,
	id domain.OrderID,
	status domain.OrderStatus,
	agentID *domain.AgentID,
	at *time.Time,
) (bool, error) {
	if !status.Valid() {
		return false, apperr.ErrInvalid
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	o.AssignedAgentID, o.AssignedAt = nil, nil
	if status == domain.OrderAssigned {
		o.AssignedAgentID, o.AssignedAt = agentID, at
	}
	m.orders[id] = o
	return true, nil
}

// BulkDeferOrders moves the given pending orders to deferred.
func (m *Memory) BulkDeferOrders(_ context.Context, ids []domain.OrderID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		o, ok := m.orders[id]
		if !ok || o.Status != domain.OrderPending {
			continue
		}
		o.Status = domain.OrderDeferred
		m.orders[id] = o
		n++
	}
	return n, nil
}

// CountDeferredOrders counts every order currently deferred.
func (m *Memory) CountDeferredOrders(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, o := range m.orders {
		if o.Status == domain.OrderDeferred {
			n++
		}
	}
	return n, nil
}

// CreateAssignment stores a and moves its orders to assigned. Nothing changes
// unless every order is pending and the agent has no assignment for that date.
func (m *Memory) CreateAssignment(_ context.Context, a *domain.Assignment) (domain.AssignmentID, error) {
	if len(a.OrderIDs) == 0 {
		return "", fmt.Errorf("create assignment: %w: no orders", apperr.ErrInvalid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	day := domain.Day(a.Date)
	for _, existing := range m.assignments {
		if existing.AgentID == a.AgentID && existing.Date.Equal(day) {
			return "", fmt.Errorf("insert assignment for agent %s: %w", a.AgentID, apperr.ErrConflict)
		}
	}
	for _, id := range a.OrderIDs {
		if o, ok := m.orders[id]; !ok || o.Status != domain.OrderPending {
			return "", fmt.Errorf("assign orders to %s: %w: order %s not pending", a.AgentID, apperr.ErrConflict, id)
		}
	}

	if a.ID == "" {
		a.ID = domain.AssignmentID(uuid.NewString())
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	stored := *a
	stored.Date = day
	stored.OrderIDs = append([]domain.OrderID(nil), a.OrderIDs...)
	m.assignments = append(m.assignments, stored)

	agentID := a.AgentID
	at := a.CreatedAt
	for _, id := range a.OrderIDs {
		o := m.orders[id]
		o.Status = domain.OrderAssigned
		o.AssignedAgentID = &agentID
		o.AssignedAt = &at
		m.orders[id] = o
	}
	return a.ID, nil
}

// HasAssignment reports whether the agent already has an assignment for day.
func (m *Memory) HasAssignment(_ context.Context, agentID domain.AgentID, day time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	day = domain.Day(day)
	for _, a := range m.assignments {
		if a.AgentID == agentID && a.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

// ListAssignments returns the assignments of day in creation order.
func (m *Memory) ListAssignments(_ context.Context, day time.Time) ([]domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	day = domain.Day(day)
	out := make([]domain.Assignment, 0)
	for _, a := range m.assignments {
		if a.Date.Equal(day) {
			cp := a
			cp.OrderIDs = append([]domain.OrderID(nil), a.OrderIDs...)
			out = append(out, cp)
		}
	}
	return out, nil
}

// Reset removes the assignments of day and returns their orders, together with
// every deferred order, to pending.
func (m *Memory) Reset(_ context.Context, day time.Time) (domain.ResetResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day = domain.Day(day)

	var res domain.ResetResult
	kept := m.assignments[:0]
	for _, a := range m.assignments {
		if !a.Date.Equal(day) {
			kept = append(kept, a)
			continue
		}
		res.Assignments++
		for _, id := range a.OrderIDs {
			o, ok := m.orders[id]
			if !ok || o.Status != domain.OrderAssigned {
				continue
			}
			o.Status = domain.OrderPending
			o.AssignedAgentID, o.AssignedAt = nil, nil
			m.orders[id] = o
			res.Released++
		}
	}
	m.assignments = kept

	for id, o := range m.orders {
		if o.Status == domain.OrderDeferred {
			o.Status = domain.OrderPending
			m.orders[id] = o
			res.Undeferred++
		}
	}
	return res, nil
}
