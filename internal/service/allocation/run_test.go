package allocation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/metrics"
	"delivery-allocation/internal/repository"
	"delivery-allocation/internal/service/allocation"
	testlog "delivery-allocation/internal/testutil"
)

func newService(t *testing.T, store allocation.Storage, p allocation.Policy) *allocation.Service {
	t.Helper()
	svc, err := allocation.NewService(store, p, logx.Nop(), nil)
	require.NoError(t, err)
	return svc
}

func orderStatuses(t *testing.T, m *repository.Memory, ids []domain.OrderID) map[domain.OrderStatus]int {
	t.Helper()
	out := make(map[domain.OrderStatus]int)
	for _, id := range ids {
		o, err := m.GetOrder(context.Background(), id)
		require.NoError(t, err)
		out[o.Status]++
	}
	return out
}

// failingStore fails ListPendingOrders or CreateAssignment for chosen warehouses.
type failingStore struct {
	*repository.Memory
	listFails   map[domain.WarehouseID]bool
	createFails map[domain.AgentID]bool
}

func (f *failingStore) ListPendingOrders(ctx context.Context, id domain.WarehouseID) ([]domain.Order, error) {
	if f.listFails[id] {
		return nil, errors.New("read timeout")
	}
	return f.Memory.ListPendingOrders(ctx, id)
}

func (f *failingStore) CreateAssignment(ctx context.Context, a *domain.Assignment) (domain.AssignmentID, error) {
	if f.createFails[a.AgentID] {
		return "", errors.New("write failed")
	}
	return f.Memory.CreateAssignment(ctx, a)
}

// shortDeferStore defers only the first order of each batch, like a store
// whose other rows stopped being pending before the update.
type shortDeferStore struct {
	*repository.Memory
}

func (s *shortDeferStore) BulkDeferOrders(ctx context.Context, ids []domain.OrderID) (int64, error) {
	return s.Memory.BulkDeferOrders(ctx, ids[:1])
}

// summaryFailStore fails the deferred backlog count used by Summary.
type summaryFailStore struct {
	*repository.Memory
}

func (s *summaryFailStore) CountDeferredOrders(context.Context) (int, error) {
	return 0, errors.New("count timeout")
}

func TestNewService_RejectsInvalidPolicy(t *testing.T) {
	t.Parallel()

	p := allocation.DefaultPolicy()
	p.Workers = 0
	_, err := allocation.NewService(repository.NewMemory(), p, nil, nil)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestRun_NoAgents_NoWrites(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	store := NewMockStorage(ctrl)
	store.EXPECT().ListEligibleAgents(gomock.Any()).Return(nil, nil)

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.ErrorIs(t, err, apperr.ErrNoAgentsAvailable)
	require.Equal(t, domain.RunFailed, res.Status)
	require.Equal(t, "no agents checked in", res.Message)
	require.Equal(t, runDay, res.Date)
	require.Zero(t, res.TotalAssigned)
	require.Zero(t, res.TotalDeferred)
}

func TestRun_ListAgentsError(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	store := NewMockStorage(ctrl)
	boom := errors.New("db down")
	store.EXPECT().ListEligibleAgents(gomock.Any()).Return(nil, boom)

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.ErrorIs(t, err, boom)
	require.Equal(t, domain.RunFailed, res.Status)
}

func TestRun_ScenarioA_ClusteredOrders(t *testing.T) {
	t.Parallel()

	orders := clusteredOrders("o", "w1", depot, 20)
	store := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")}, orders)

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, domain.RunSuccess, res.Status)
	require.Zero(t, res.TotalDeferred)
	require.GreaterOrEqual(t, res.TotalAssigned, 5)
	require.LessOrEqual(t, res.TotalAssigned, 20)

	list, err := store.ListAssignments(context.Background(), runDay)
	require.NoError(t, err)
	require.Len(t, list, 1)
	asg := list[0]
	if asg.OrderCount() >= 15 {
		require.Equal(t, 35, asg.EarningPerOrder)
	} else {
		require.Equal(t, 30, asg.EarningPerOrder)
	}
	require.Less(t, asg.TotalDistanceKm, 10.0)

	require.Equal(t, 1, res.Summary.TotalAgents)
	require.Equal(t, asg.OrderCount(), res.Summary.TotalOrders)
	require.Equal(t, asg.TotalEarning, res.Summary.TotalCost)
	require.Zero(t, res.Summary.DeferredOrders)
	require.Equal(t, map[domain.OrderStatus]int{domain.OrderAssigned: 20}, orderStatuses(t, store, domain.OrderIDs(orders)))
}

func TestRun_ScenarioB_TooFewOrders(t *testing.T) {
	t.Parallel()

	orders := clusteredOrders("o", "w1", depot, 3)
	store := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")}, orders)

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, domain.RunSuccess, res.Status)
	require.Zero(t, res.TotalAssigned)
	require.Equal(t, 3, res.TotalDeferred)
	require.Zero(t, res.Summary.TotalAgents)
	require.Equal(t, 3, res.Summary.DeferredOrders)
	require.Equal(t, map[domain.OrderStatus]int{domain.OrderDeferred: 3}, orderStatuses(t, store, domain.OrderIDs(orders)))
}

func TestRun_ScenarioC_PrefersTierTwo(t *testing.T) {
	t.Parallel()

	orders := lineOrders("o", "w1", depot, 35, 0.025)
	store := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")}, orders)

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, 30, res.TotalAssigned)
	require.Equal(t, 5, res.TotalDeferred)

	list, err := store.ListAssignments(context.Background(), runDay)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 42, list[0].EarningPerOrder)
	require.Equal(t, 1260, list[0].TotalEarning)
	require.Equal(t, domain.OrderIDs(orders[:30]), list[0].OrderIDs)
}

func TestRun_WarehouseWithoutAgentsKeepsOrdersPending(t *testing.T) {
	t.Parallel()

	w1 := clusteredOrders("a", "w1", depot, 10)
	w2 := clusteredOrders("b", "w2", otherWH.Location, 10)
	store := seedStore(t, []domain.Warehouse{mainWH, otherWH},
		[]domain.Agent{agent("a1", "Anu", "w1")}, append(append([]domain.Order{}, w1...), w2...))

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Len(t, res.Warehouses, 1)
	require.Equal(t, map[domain.OrderStatus]int{domain.OrderPending: 10}, orderStatuses(t, store, domain.OrderIDs(w2)))
}

func TestRun_MissingWarehouseIsSkipped(t *testing.T) {
	t.Parallel()

	ghost := clusteredOrders("g", "w9", depot, 8)
	store := seedStore(t, []domain.Warehouse{mainWH},
		[]domain.Agent{agent("a1", "Anu", "w1"), agent("a9", "Zed", "w9")},
		append(clusteredOrders("o", "w1", depot, 8), ghost...))

	rec := testlog.New()
	svc, err := allocation.NewService(store, allocation.DefaultPolicy(), rec.Logger(), nil)
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, domain.RunSuccess, res.Status)
	require.Len(t, res.Warehouses, 2)
	require.Equal(t, domain.WarehouseID("w9"), res.Warehouses[1].WarehouseID)
	require.True(t, res.Warehouses[1].Skipped)
	require.Equal(t, 8, res.TotalAssigned)
	require.Equal(t, map[domain.OrderStatus]int{domain.OrderPending: 8}, orderStatuses(t, store, domain.OrderIDs(ghost)))

	var warned bool
	for _, e := range rec.Entries() {
		if e.Level == "warn" && e.Msg == "warehouse missing, orders left pending" {
			warned = true
		}
	}
	require.True(t, warned)
}

func TestRun_PartialWhenOneWarehouseFails(t *testing.T) {
	t.Parallel()

	w2 := clusteredOrders("b", "w2", otherWH.Location, 10)
	mem := seedStore(t, []domain.Warehouse{mainWH, otherWH},
		[]domain.Agent{agent("a1", "Anu", "w1"), agent("a2", "Bala", "w2")},
		append(clusteredOrders("a", "w1", depot, 10), w2...))
	store := &failingStore{Memory: mem, listFails: map[domain.WarehouseID]bool{"w2": true}}

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, domain.RunPartial, res.Status)
	require.Equal(t, "1 of 2 warehouses failed", res.Message)
	require.Equal(t, 10, res.TotalAssigned)
	require.False(t, res.Warehouses[0].Failed())
	require.True(t, res.Warehouses[1].Failed())
	require.Contains(t, res.Warehouses[1].Error, "list pending orders")
	require.Equal(t, map[domain.OrderStatus]int{domain.OrderPending: 10}, orderStatuses(t, mem, domain.OrderIDs(w2)))
}

func TestRun_StatusIgnoresSkippedWarehouses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		warehouses  []domain.Warehouse
		agents      []domain.Agent
		listFails   map[domain.WarehouseID]bool
		wantStatus  domain.RunStatus
		wantMessage string
	}{
		{
			name:        "skipped and failed",
			warehouses:  []domain.Warehouse{otherWH},
			agents:      []domain.Agent{agent("a2", "Bala", "w2"), agent("a9", "Zed", "w9")},
			listFails:   map[domain.WarehouseID]bool{"w2": true},
			wantStatus:  domain.RunFailed,
			wantMessage: "every warehouse failed",
		},
		{
			name:        "only skipped",
			agents:      []domain.Agent{agent("a9", "Zed", "w9")},
			wantStatus:  domain.RunFailed,
			wantMessage: "no warehouse could be processed",
		},
		{
			name:        "skipped, failed and succeeded",
			warehouses:  []domain.Warehouse{mainWH, otherWH},
			agents:      []domain.Agent{agent("a1", "Anu", "w1"), agent("a2", "Bala", "w2"), agent("a9", "Zed", "w9")},
			listFails:   map[domain.WarehouseID]bool{"w2": true},
			wantStatus:  domain.RunPartial,
			wantMessage: "1 of 2 warehouses failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orders := append(clusteredOrders("a", "w1", depot, 10), clusteredOrders("b", "w2", otherWH.Location, 10)...)
			mem := seedStore(t, tt.warehouses, tt.agents, orders)
			store := &failingStore{Memory: mem, listFails: tt.listFails}

			res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, res.Status)
			require.Equal(t, tt.wantMessage, res.Message)
			require.True(t, res.Warehouses[len(res.Warehouses)-1].Skipped)
		})
	}
}

func TestRun_DeferredCountComesFromStore(t *testing.T) {
	t.Parallel()

	mem := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")},
		clusteredOrders("o", "w1", depot, 3))

	res, err := newService(t, &shortDeferStore{Memory: mem}, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, 1, res.Warehouses[0].Deferred)
	require.Equal(t, 1, res.TotalDeferred)
}

func TestRun_SummaryFailureKeepsCommittedResult(t *testing.T) {
	t.Parallel()

	mem := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")},
		clusteredOrders("o", "w1", depot, 16))
	rec := testlog.New()
	svc, err := allocation.NewService(&summaryFailStore{Memory: mem}, allocation.DefaultPolicy(), rec.Logger(), nil)
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, domain.RunSuccess, res.Status)
	require.Equal(t, "allocation completed; summary unavailable", res.Message)
	require.Equal(t, 16, res.TotalAssigned)
	require.Equal(t, domain.Summary{Date: runDay}, res.Summary)
	e, ok := rec.Find("build summary failed")
	require.True(t, ok)
	require.Equal(t, "error", e.Level)

	list, err := mem.ListAssignments(context.Background(), runDay)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRun_WriteFailureLeavesOrdersPending(t *testing.T) {
	t.Parallel()

	orders := clusteredOrders("a", "w1", depot, 10)
	mem := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")}, orders)
	store := &failingStore{Memory: mem, createFails: map[domain.AgentID]bool{"a1": true}}

	res, err := newService(t, store, allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Equal(t, domain.RunFailed, res.Status)
	require.Zero(t, res.TotalDeferred)
	require.Equal(t, map[domain.OrderStatus]int{domain.OrderPending: 10}, orderStatuses(t, mem, domain.OrderIDs(orders)))
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	build := func() *repository.Memory {
		third := domain.Warehouse{ID: "w3", Name: "South", Location: domain.Coordinate{Lat: 12.85, Lng: 77.66}}
		var orders []domain.Order
		orders = append(orders, clusteredOrders("a", "w1", depot, 40)...)
		orders = append(orders, clusteredOrders("b", "w2", otherWH.Location, 12)...)
		orders = append(orders, clusteredOrders("c", "w3", third.Location, 3)...)
		return seedStore(t, []domain.Warehouse{mainWH, otherWH, third}, []domain.Agent{
			agent("a1", "Anu", "w1"), agent("a2", "Bala", "w1"),
			agent("b1", "Chitra", "w2"), agent("c1", "Dev", "w3"),
		}, orders)
	}

	seq, err := newService(t, build(), allocation.DefaultPolicy()).Run(context.Background(), runDay)
	require.NoError(t, err)

	p := allocation.DefaultPolicy()
	p.Workers = 3
	par, err := newService(t, build(), p).Run(context.Background(), runDay)
	require.NoError(t, err)

	require.Equal(t, seq.Status, par.Status)
	require.Equal(t, seq.Warehouses, par.Warehouses)
	require.Equal(t, seq.TotalAssigned, par.TotalAssigned)
	require.Equal(t, seq.TotalDeferred, par.TotalDeferred)
	require.Equal(t, seq.Summary, par.Summary)
	require.Equal(t, 52, par.TotalAssigned)
	require.Equal(t, 3, par.TotalDeferred)
}

func TestRun_RecordsMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.NewAllocation()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	store := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")},
		lineOrders("o", "w1", depot, 35, 0.025))
	svc, err := allocation.NewService(store, allocation.DefaultPolicy(), logx.Nop(), m)
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), runDay)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[f.GetName()] += c.GetValue()
			}
		}
	}
	require.Equal(t, 30.0, values["allocation_orders_assigned_total"])
	require.Equal(t, 5.0, values["allocation_orders_deferred_total"])
	require.Equal(t, 1.0, values["allocation_assignments_total"])
	require.Equal(t, 1.0, values["allocation_runs_total"])
}

func TestService_SummaryAndAssignments(t *testing.T) {
	t.Parallel()

	store := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")},
		clusteredOrders("o", "w1", depot, 16))
	svc := newService(t, store, allocation.DefaultPolicy())

	_, err := svc.Run(context.Background(), runDay)
	require.NoError(t, err)

	sum, err := svc.Summary(context.Background(), runDay.Add(13*time.Hour))
	require.NoError(t, err)
	require.Equal(t, runDay, sum.Date)
	require.Equal(t, 16, sum.TotalOrders)
	require.Equal(t, 16*35, sum.TotalCost)
	require.Equal(t, 16.0, sum.AvgOrdersPerAgent)

	list, err := svc.Assignments(context.Background(), runDay)
	require.NoError(t, err)
	require.Len(t, list, 1)

	other, err := svc.Assignments(context.Background(), runDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestRun_SecondRunSkipsAssignedAgents(t *testing.T) {
	t.Parallel()

	store := seedStore(t, []domain.Warehouse{mainWH}, []domain.Agent{agent("a1", "Anu", "w1")},
		clusteredOrders("o", "w1", depot, 10))
	svc := newService(t, store, allocation.DefaultPolicy())

	_, err := svc.Run(context.Background(), runDay)
	require.NoError(t, err)

	require.NoError(t, store.CreateOrder(context.Background(), &domain.Order{ID: "late-1", WarehouseID: "w1", Location: depot}))
	res, err := svc.Run(context.Background(), runDay)
	require.NoError(t, err)
	require.Zero(t, res.TotalAssigned)
	require.Equal(t, 1, res.TotalDeferred)

	list, err := store.ListAssignments(context.Background(), runDay)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
