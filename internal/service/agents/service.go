// Package agents manages delivery agent availability.
package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// Service coordinates agent check-in state and orchestrates repository calls.
type Service struct {
	repo             agentRepository
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures an agents Service.
func NewService(r agentRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func normalizeID(id domain.AgentID) (domain.AgentID, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty agent id", apperr.ErrInvalid)
	}
	return domain.AgentID(trimmed), nil
}

// List returns every known agent.
func (s *Service) List(ctx context.Context) ([]domain.Agent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListAgents(ctx)
}

// Get retrieves an agent by its ID.
func (s *Service) Get(ctx context.Context, id domain.AgentID) (*domain.Agent, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	a, err := s.repo.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.ErrAgentNotFound
	}
	return a, nil
}

// CheckIn marks the agent available for today's allocation.
// Checking in twice is not an error; the check-in time is refreshed.
func (s *Service) CheckIn(ctx context.Context, id domain.AgentID) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.CheckIn(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrAgentNotFound
	}
	s.logger.Info("agent checked in", logx.String("agent_id", string(id)))
	return nil
}

// CheckOut clears the agent's check-in.
func (s *Service) CheckOut(ctx context.Context, id domain.AgentID) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.CheckOut(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrAgentNotFound
	}
	s.logger.Info("agent checked out", logx.String("agent_id", string(id)))
	return nil
}

// CheckOutAll clears every check-in and returns how many agents were affected.
func (s *Service) CheckOutAll(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repo.CheckOutAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("check out all: %w", err)
	}
	s.logger.Info("agents checked out", logx.Int64("count", n))
	return n, nil
}
