package app

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"delivery-allocation/internal/config"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/repository"
	"delivery-allocation/internal/runlock"
	"delivery-allocation/internal/service/agents"
	"delivery-allocation/internal/service/allocation"
)

// CLIBackend serves allocctl commands from the service container.
type CLIBackend struct {
	pool   *pgxpool.Pool
	store  *repository.Store
	guard  *runlock.Guard
	alloc  *allocation.Service
	agents *agents.Service
	loc    *time.Location
	redis  *redis.Client
	logger logx.Logger
}

type cliBackendIn struct {
	dig.In

	Pool     *pgxpool.Pool
	Store    *repository.Store
	Guard    *runlock.Guard
	Alloc    *allocation.Service
	Agents   *agents.Service
	Location *time.Location
	Logger   logx.Logger
	Redis    *redis.Client `optional:"true"`
}

// OpenCLIBackend builds the service container from the environment.
// Logs go to stderr so command output stays clean.
func OpenCLIBackend(ctx context.Context) (*CLIBackend, error) {
	c, err := NewContainerBuilder().
		WithConfigLoader(config.FromEnv).
		WithLogger(func(cfg *config.Config) logx.Logger {
			return logx.NewJSON(os.Stderr, logx.ParseLevel(cfg.LogLevel))
		}).
		BuildServices(ctx)
	if err != nil {
		return nil, err
	}
	return cliBackendFrom(c)
}

func cliBackendFrom(c *dig.Container) (*CLIBackend, error) {
	var b *CLIBackend
	err := c.Invoke(func(in cliBackendIn) {
		b = &CLIBackend{
			pool:   in.Pool,
			store:  in.Store,
			guard:  in.Guard,
			alloc:  in.Alloc,
			agents: in.Agents,
			loc:    in.Location,
			redis:  in.Redis,
			logger: in.Logger,
		}
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Migrate creates the tables if they do not exist.
func (b *CLIBackend) Migrate(ctx context.Context) error {
	return repository.EnsureSchema(ctx, b.pool)
}

// Run allocates day under the run lock.
func (b *CLIBackend) Run(ctx context.Context, day time.Time) (domain.RunResult, error) {
	return b.guard.Run(ctx, day)
}

// Summary returns the summary of day.
func (b *CLIBackend) Summary(ctx context.Context, day time.Time) (domain.Summary, error) {
	return b.alloc.Summary(ctx, day)
}

// Assignments lists the assignments of day.
func (b *CLIBackend) Assignments(ctx context.Context, day time.Time) ([]domain.Assignment, error) {
	return b.alloc.Assignments(ctx, day)
}

// Reset undoes the assignments of day.
func (b *CLIBackend) Reset(ctx context.Context, day time.Time) (domain.ResetResult, error) {
	res, err := b.store.Reset(ctx, day)
	if err != nil {
		return res, err
	}
	b.logger.Info("allocation reset",
		logx.String("date", domain.Day(day).Format(domain.DateLayout)),
		logx.Int64("assignments", res.Assignments),
		logx.Int64("released", res.Released),
	)
	return res, nil
}

// CheckOutAll marks every agent as checked out.
func (b *CLIBackend) CheckOutAll(ctx context.Context) (int64, error) {
	return b.agents.CheckOutAll(ctx)
}

// SetOrderStatus changes one order's status and clears its agent.
func (b *CLIBackend) SetOrderStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) (bool, error) {
	ok, err := b.store.UpdateOrderStatus(ctx, id, status, nil, nil)
	if err != nil || !ok {
		return ok, err
	}
	b.logger.Info("order status updated", logx.String("order_id", string(id)), logx.String("status", string(status)))
	return true, nil
}

// Today is now in the schedule time zone.
func (b *CLIBackend) Today() time.Time {
	return time.Now().In(b.loc)
}

// Close releases the pool and the Redis client.
func (b *CLIBackend) Close() {
	closeResources(b.pool, b.redis, b.logger)
}
