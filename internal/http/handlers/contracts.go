package handlers

import (
	"context"
	"time"

	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/runlock"
	"delivery-allocation/internal/service/agents"
	"delivery-allocation/internal/service/allocation"
	"delivery-allocation/internal/service/catalog"
)

type allocationRunner interface {
	Run(ctx context.Context, day time.Time) (domain.RunResult, error)
}

type allocationQueries interface {
	Summary(ctx context.Context, day time.Time) (domain.Summary, error)
	Assignments(ctx context.Context, day time.Time) ([]domain.Assignment, error)
}

type assignmentDescriber interface {
	Describe(ctx context.Context, list []domain.Assignment) ([]domain.AssignmentDetail, error)
}

type catalogUsecase interface {
	Warehouses(ctx context.Context) ([]domain.Warehouse, error)
	Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

type agentUsecase interface {
	List(ctx context.Context) ([]domain.Agent, error)
	CheckIn(ctx context.Context, id domain.AgentID) error
}

// NewAllocationRunner exposes the lock-guarded run to the handlers.
func NewAllocationRunner(g *runlock.Guard) allocationRunner {
	return g
}

// NewAllocationQueries wires the allocation service read side.
func NewAllocationQueries(svc *allocation.Service) allocationQueries {
	return svc
}

// NewAgentUsecase wires the agents service.
func NewAgentUsecase(svc *agents.Service) agentUsecase {
	return svc
}

// NewAssignmentDescriber wires assignment enrichment.
func NewAssignmentDescriber(svc *catalog.Service) assignmentDescriber {
	return svc
}

// NewCatalogUsecase wires the catalog service.
func NewCatalogUsecase(svc *catalog.Service) catalogUsecase {
	return svc
}
