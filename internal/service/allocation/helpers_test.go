package allocation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/repository"
)

var (
	depot   = domain.Coordinate{Lat: 12.97, Lng: 77.59}
	runDay  = time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	mainWH  = domain.Warehouse{ID: "w1", Name: "Central", City: "Bengaluru", Location: depot}
	otherWH = domain.Warehouse{ID: "w2", Name: "North", City: "Bengaluru", Location: domain.Coordinate{Lat: 13.1, Lng: 77.6}}
)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

// clusteredOrders returns n orders within roughly 1 km of origin.
func clusteredOrders(prefix string, wh domain.WarehouseID, origin domain.Coordinate, n int) []domain.Order {
	out := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Order{
			ID:          domain.OrderID(fmt.Sprintf("%s-%02d", prefix, i)),
			WarehouseID: wh,
			Status:      domain.OrderPending,
			Location: domain.Coordinate{
				Lat: origin.Lat + 0.0015*float64(i%5),
				Lng: origin.Lng + 0.0015*float64(i/5),
			},
		})
	}
	return out
}

// lineOrders returns n orders due north of origin, step degrees apart.
func lineOrders(prefix string, wh domain.WarehouseID, origin domain.Coordinate, n int, step float64) []domain.Order {
	out := make([]domain.Order, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Order{
			ID:          domain.OrderID(fmt.Sprintf("%s-%02d", prefix, i)),
			WarehouseID: wh,
			Status:      domain.OrderPending,
			Location:    domain.Coordinate{Lat: origin.Lat + step*float64(i), Lng: origin.Lng},
		})
	}
	return out
}

func seedStore(t *testing.T, warehouses []domain.Warehouse, agents []domain.Agent, orders []domain.Order) *repository.Memory {
	t.Helper()
	ctx := context.Background()
	m := repository.NewMemory()
	for i := range warehouses {
		require.NoError(t, m.CreateWarehouse(ctx, &warehouses[i]))
	}
	for i := range agents {
		require.NoError(t, m.CreateAgent(ctx, &agents[i]))
	}
	for i := range orders {
		require.NoError(t, m.CreateOrder(ctx, &orders[i]))
	}
	return m
}

func agent(id, name string, wh domain.WarehouseID) domain.Agent {
	return domain.Agent{ID: domain.AgentID(id), Name: name, WarehouseID: wh, CheckedIn: true}
}
