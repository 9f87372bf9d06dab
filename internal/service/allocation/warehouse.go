package allocation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/metrics"
)

// WarehouseOutcome is what Allocate did at one warehouse.
type WarehouseOutcome struct {
	Assigned    int
	Assignments []domain.Assignment
	Leftover    []domain.Order
}

// Allocator hands out one warehouse's pending orders to its agents.
type Allocator struct {
	store   Storage
	search  *Search
	logger  logx.Logger
	metrics *metrics.Allocation
	newID   func() domain.AssignmentID
	now     func() time.Time
}

// NewAllocator creates an Allocator. m may be nil.
func NewAllocator(store Storage, p Policy, logger logx.Logger, m *metrics.Allocation) *Allocator {
	return &Allocator{
		store:   store,
		search:  NewSearch(p, m),
		logger:  logger,
		metrics: m,
		newID:   func() domain.AssignmentID { return domain.AssignmentID(uuid.NewString()) },
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Allocate walks agents in name order and gives each the best feasible set of
// the orders still in the pool. Agents that already hold an assignment for day
// are skipped. A storage error stops this warehouse; assignments committed
// before it stay in the outcome.
func (a *Allocator) Allocate(
	ctx context.Context,
	day time.Time,
	wh domain.Warehouse,
	agents []domain.Agent,
	orders []domain.Order,
) (WarehouseOutcome, error) {
	pool := newOrderPool(orders)
	log := a.logger.With(logx.String("warehouse_id", string(wh.ID)))

	var out WarehouseOutcome
	for _, agent := range sortAgents(agents) {
		if pool.Empty() {
			break
		}

		has, err := a.store.HasAssignment(ctx, agent.ID, day)
		if err != nil {
			out.Leftover = pool.Available()
			return out, fmt.Errorf("check assignment of agent %s: %w", agent.ID, err)
		}
		if has {
			log.Info("agent already assigned for date, skipping",
				logx.String("agent_id", string(agent.ID)),
				logx.String("date", day.Format(domain.DateLayout)),
			)
			continue
		}

		c := a.search.FindBest(agent, wh.Location, pool.Available())
		if c.Empty() {
			log.Debug("no feasible order set",
				logx.String("agent_id", string(agent.ID)),
				logx.Int("available", pool.Len()),
			)
			continue
		}

		asg := domain.Assignment{
			ID:              a.newID(),
			AgentID:         agent.ID,
			OrderIDs:        domain.OrderIDs(c.Orders),
			Date:            day,
			TotalDistanceKm: c.Evaluation.DistanceKm,
			TotalTimeHours:  c.Evaluation.TimeHours,
			EarningPerOrder: c.Evaluation.EarningPerOrder,
			TotalEarning:    c.Evaluation.TotalEarning,
			CreatedAt:       a.now(),
		}
		id, err := a.store.CreateAssignment(ctx, &asg)
		if err != nil {
			out.Leftover = pool.Available()
			return out, fmt.Errorf("create assignment for agent %s: %w", agent.ID, err)
		}
		asg.ID = id

		pool.Remove(asg.OrderIDs)
		out.Assigned += asg.OrderCount()
		out.Assignments = append(out.Assignments, asg)
		a.metrics.AddAssignment(asg.OrderCount())

		log.Info("orders assigned",
			logx.String("agent_id", string(agent.ID)),
			logx.String("agent", agent.Name),
			logx.Int("orders", asg.OrderCount()),
			logx.Float64("distance_km", asg.TotalDistanceKm),
			logx.Int("earning", asg.TotalEarning),
		)
	}

	out.Leftover = pool.Available()
	return out, nil
}

func sortAgents(agents []domain.Agent) []domain.Agent {
	out := append([]domain.Agent(nil), agents...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
