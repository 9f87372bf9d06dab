package runlock

import (
	"context"
	"fmt"
	"time"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// DefaultTTL bounds how long a crashed run can block the next one.
const DefaultTTL = 15 * time.Minute

type runner interface {
	Run(ctx context.Context, day time.Time) (domain.RunResult, error)
}

// Guard serializes allocation runs per date.
type Guard struct {
	next   runner
	locker Locker
	ttl    time.Duration
	logger logx.Logger
}

// NewGuard wraps next. A non-positive ttl selects DefaultTTL.
func NewGuard(next runner, locker Locker, ttl time.Duration, logger logx.Logger) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Guard{next: next, locker: locker, ttl: ttl, logger: logger}
}

// Run executes the wrapped run while holding the lock for day.
// A run already in progress for the same date yields apperr.ErrConflict.
func (g *Guard) Run(ctx context.Context, day time.Time) (domain.RunResult, error) {
	key := Key(day)
	release, ok, err := g.locker.Acquire(ctx, key, g.ttl)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		g.logger.Warn("allocation already running", logx.String("key", key))
		return domain.RunResult{}, fmt.Errorf("%w: allocation for %s already running",
			apperr.ErrConflict, day.Format(time.DateOnly))
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			g.logger.Warn("release run lock failed", logx.String("key", key), logx.Err(err))
		}
	}()

	return g.next.Run(ctx, day)
}
