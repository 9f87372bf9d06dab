package allocation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/metrics"
)

// Service runs the daily allocation over every warehouse with checked-in agents.
type Service struct {
	store     Storage
	policy    Policy
	allocator *Allocator
	logger    logx.Logger
	metrics   *metrics.Allocation
	now       func() time.Time
}

// NewService validates p and creates a Service. m may be nil.
func NewService(store Storage, p Policy, logger logx.Logger, m *metrics.Allocation) (*Service, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("allocation policy: %w", err)
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		store:     store,
		policy:    p,
		allocator: NewAllocator(store, p, logger, m),
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}, nil
}

// Policy returns the policy the service was built with.
func (s *Service) Policy() Policy { return s.policy }

type warehouseGroup struct {
	id     domain.WarehouseID
	agents []domain.Agent
}

// Run allocates the pending orders of day. It returns apperr.ErrNoAgentsAvailable
// without writing anything when nobody is checked in. Warehouse failures do not
// stop the run; they are reported per warehouse and reflected in the status.
func (s *Service) Run(ctx context.Context, day time.Time) (domain.RunResult, error) {
	day = domain.Day(day)
	start := s.now()
	log := s.logger.With(logx.String("date", day.Format(domain.DateLayout)))
	log.Info("allocation started")

	res := domain.RunResult{Date: day}

	agents, err := s.store.ListEligibleAgents(ctx)
	if err != nil {
		res.Status = domain.RunFailed
		res.Message = "could not load agents"
		s.metrics.ObserveRun(string(res.Status), s.now().Sub(start))
		return res, fmt.Errorf("list eligible agents: %w", err)
	}
	if len(agents) == 0 {
		log.Warn("no agents checked in")
		res.Status = domain.RunFailed
		res.Message = "no agents checked in"
		s.metrics.ObserveRun(string(res.Status), s.now().Sub(start))
		return res, apperr.ErrNoAgentsAvailable
	}
	log.Info("eligible agents loaded", logx.Int("agents", len(agents)))

	groups := groupByWarehouse(agents)
	res.Warehouses = make([]domain.WarehouseReport, len(groups))

	if s.policy.Workers <= 1 || len(groups) == 1 {
		for i, g := range groups {
			res.Warehouses[i] = s.processWarehouse(ctx, day, g)
		}
	} else {
		// each goroutine owns one slot of res.Warehouses
		var eg errgroup.Group
		eg.SetLimit(s.policy.Workers)
		for i, g := range groups {
			eg.Go(func() error {
				res.Warehouses[i] = s.processWarehouse(ctx, day, g)
				return nil
			})
		}
		_ = eg.Wait()
	}

	for _, r := range res.Warehouses {
		res.TotalAssigned += r.Assigned
		res.TotalDeferred += r.Deferred
	}
	failed := classify(&res)

	summary, err := s.Summary(ctx, day)
	if err != nil {
		// assignments are already committed; report them without the aggregate
		log.Error("build summary failed", logx.Err(err))
		summary = domain.Summary{Date: day}
		res.Message += "; summary unavailable"
	}
	res.Summary = summary

	elapsed := s.now().Sub(start)
	s.metrics.ObserveRun(string(res.Status), elapsed)
	log.Info("allocation finished",
		logx.String("status", string(res.Status)),
		logx.Int("assigned", res.TotalAssigned),
		logx.Int("deferred", res.TotalDeferred),
		logx.Int("failed_warehouses", failed),
		logx.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (s *Service) processWarehouse(ctx context.Context, day time.Time, g warehouseGroup) domain.WarehouseReport {
	report := domain.WarehouseReport{WarehouseID: g.id, Agents: len(g.agents)}
	log := s.logger.With(
		logx.String("date", day.Format(domain.DateLayout)),
		logx.String("warehouse_id", string(g.id)),
	)
	fail := func(err error) domain.WarehouseReport {
		report.Error = err.Error()
		s.metrics.WarehouseFailed()
		log.Error("warehouse allocation failed", logx.Err(err))
		return report
	}

	wh, err := s.store.GetWarehouse(ctx, g.id)
	if err != nil {
		return fail(fmt.Errorf("get warehouse: %w", err))
	}
	if wh == nil {
		report.Skipped = true
		log.Warn("warehouse missing, orders left pending", logx.Err(apperr.ErrWarehouseNotFound))
		return report
	}

	orders, err := s.store.ListPendingOrders(ctx, g.id)
	if err != nil {
		return fail(fmt.Errorf("list pending orders: %w", err))
	}
	report.Pending = len(orders)
	log.Info("processing warehouse", logx.Int("agents", len(g.agents)), logx.Int("pending", len(orders)))
	if len(orders) == 0 {
		return report
	}

	out, err := s.allocator.Allocate(ctx, day, *wh, g.agents, orders)
	report.Assigned = out.Assigned
	if err != nil {
		return fail(err)
	}

	if len(out.Leftover) > 0 {
		n, err := s.store.BulkDeferOrders(ctx, domain.OrderIDs(out.Leftover))
		if err != nil {
			return fail(fmt.Errorf("defer orders: %w", err))
		}
		report.Deferred = int(n)
		s.metrics.AddDeferred(report.Deferred)
		log.Info("orders deferred", logx.Int("deferred", report.Deferred))
	}
	return report
}

// classify sets the run status from the warehouses that were processed.
// Skipped warehouses count neither as success nor as failure. It returns the
// number of failed warehouses.
func classify(res *domain.RunResult) int {
	processed, failed := 0, 0
	for _, r := range res.Warehouses {
		if r.Skipped {
			continue
		}
		processed++
		if r.Failed() {
			failed++
		}
	}
	switch {
	case processed == 0:
		res.Status = domain.RunFailed
		res.Message = "no warehouse could be processed"
	case failed == 0:
		res.Status = domain.RunSuccess
		res.Message = "allocation completed"
	case failed == processed:
		res.Status = domain.RunFailed
		res.Message = "every warehouse failed"
	default:
		res.Status = domain.RunPartial
		res.Message = fmt.Sprintf("%d of %d warehouses failed", failed, processed)
	}
	return failed
}

// Summary aggregates every assignment of day plus the current deferred backlog.
func (s *Service) Summary(ctx context.Context, day time.Time) (domain.Summary, error) {
	day = domain.Day(day)
	assignments, err := s.store.ListAssignments(ctx, day)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("list assignments: %w", err)
	}
	deferred, err := s.store.CountDeferredOrders(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("count deferred orders: %w", err)
	}
	return summarize(day, assignments, deferred), nil
}

// Assignments returns the assignments created for day.
func (s *Service) Assignments(ctx context.Context, day time.Time) ([]domain.Assignment, error) {
	out, err := s.store.ListAssignments(ctx, domain.Day(day))
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

func summarize(day time.Time, assignments []domain.Assignment, deferred int) domain.Summary {
	sum := domain.Summary{
		Date:           day,
		TotalAgents:    len(assignments),
		DeferredOrders: deferred,
	}
	dist := 0.0
	for _, a := range assignments {
		sum.TotalOrders += a.OrderCount()
		sum.TotalCost += a.TotalEarning
		dist += a.TotalDistanceKm
	}
	sum.TotalDistanceKm = round2(dist)
	if sum.TotalAgents > 0 {
		sum.AvgOrdersPerAgent = round2(float64(sum.TotalOrders) / float64(sum.TotalAgents))
	}
	return sum
}

func groupByWarehouse(agents []domain.Agent) []warehouseGroup {
	byID := make(map[domain.WarehouseID][]domain.Agent)
	for _, a := range agents {
		byID[a.WarehouseID] = append(byID[a.WarehouseID], a)
	}
	groups := make([]warehouseGroup, 0, len(byID))
	for id, as := range byID {
		groups = append(groups, warehouseGroup{id: id, agents: as})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].id < groups[j].id })
	return groups
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
