//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=checkin_test
package checkin

import (
	"context"

	"delivery-allocation/internal/domain"
)

// AgentPort abstracts the subset of agent service operations
// needed by Processor when handling availability events.
type AgentPort interface {
	CheckIn(ctx context.Context, id domain.AgentID) error
	CheckOut(ctx context.Context, id domain.AgentID) error
}

// intakeCounter counts processed events by type and outcome.
type intakeCounter interface {
	Inc(eventType, outcome string)
}
