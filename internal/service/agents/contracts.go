package agents

import (
	"context"
	"time"

	"delivery-allocation/internal/domain"
)

// agentRepository defines storage operations required by the agents service.
type agentRepository interface {
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	GetAgent(ctx context.Context, id domain.AgentID) (*domain.Agent, error)
	CheckIn(ctx context.Context, id domain.AgentID, at time.Time) (bool, error)
	CheckOut(ctx context.Context, id domain.AgentID) (bool, error)
	CheckOutAll(ctx context.Context) (int64, error)
}
