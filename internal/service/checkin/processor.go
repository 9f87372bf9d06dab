// Package checkin turns agent availability events into check-in state changes.
package checkin

import (
	"context"
	"errors"
	"strings"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// Outcomes reported to the intake counter.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"
	OutcomeFailed  = "failed"
)

// Processor processes availability events.
type Processor struct {
	agents  AgentPort
	logger  logx.Logger
	counter intakeCounter
	factory *actionFactory
}

// NewProcessor creates a Processor. counter may be nil.
func NewProcessor(agents AgentPort, logger logx.Logger, counter intakeCounter) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		agents:  agents,
		logger:  logger,
		counter: counter,
	}
	p.factory = newActionFactory(p.onCheckIn, p.onCheckOut)
	return p
}

// Handle processes a single Event. Unknown types and unknown agents are
// acknowledged without error so the message is not redelivered.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Type)
	if !ok {
		p.logger.Debug("unknown event type ignored", logx.String("type", e.Type))
		p.count(e.Type, OutcomeIgnored)
		return nil
	}

	err := fn(ctx, e)
	switch {
	case err == nil:
		p.count(e.Type, OutcomeApplied)
		return nil
	case errors.Is(err, apperr.ErrAgentNotFound), errors.Is(err, apperr.ErrInvalid):
		p.logger.Warn("event for unknown agent ignored",
			logx.String("type", e.Type), logx.String("agent_id", e.AgentID))
		p.count(e.Type, OutcomeIgnored)
		return nil
	default:
		p.count(e.Type, OutcomeFailed)
		return err
	}
}

func (p *Processor) onCheckIn(ctx context.Context, e Event) error {
	return p.agents.CheckIn(ctx, domain.AgentID(e.AgentID))
}

func (p *Processor) onCheckOut(ctx context.Context, e Event) error {
	return p.agents.CheckOut(ctx, domain.AgentID(e.AgentID))
}

func (p *Processor) count(eventType, outcome string) {
	if p.counter == nil {
		return
	}
	eventType = strings.ToLower(strings.TrimSpace(eventType))
	if _, ok := p.factory.get(eventType); !ok {
		eventType = "unknown"
	}
	p.counter.Inc(eventType, outcome)
}
