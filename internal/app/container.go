package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"delivery-allocation/internal/config"
	"delivery-allocation/internal/http/handlers"
	obs "delivery-allocation/internal/http/middleware"
	"delivery-allocation/internal/http/middleware/ratelimit"
	"delivery-allocation/internal/http/pprofserver"
	"delivery-allocation/internal/http/router"
	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/metrics"
	"delivery-allocation/internal/repository"
	"delivery-allocation/internal/runlock"
	"delivery-allocation/internal/service/agents"
	"delivery-allocation/internal/service/allocation"
	"delivery-allocation/internal/service/catalog"
)

// DBConnectFunc opens the Postgres pool, retrying up to retries times.
type DBConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error)

type operationTimeout time.Duration

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  DBConnectFunc
	loadConfig func() (*config.Config, error)
	newLogger  func(*config.Config) logx.Logger
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		loadConfig: config.Load,
		newLogger:  NewLogger,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn DBConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfigLoader replaces config.Load, e.g. with config.FromEnv for the CLI.
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogger replaces the JSON stdout logger.
func (b *ContainerBuilder) WithLogger(fn func(*config.Config) logx.Logger) *ContainerBuilder {
	if fn != nil {
		b.newLogger = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP service container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	return b.must(b.build(ctx))
}

// MustBuildWorker builds the worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	return b.must(b.buildWorker(ctx))
}

// BuildServices builds a container holding storage and domain services only.
func (b *ContainerBuilder) BuildServices(ctx context.Context) (*dig.Container, error) {
	return b.buildWith(ctx)
}

func (b *ContainerBuilder) must(container *dig.Container, err error) *dig.Container {
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	return b.buildWith(ctx, stage{"http", registerHTTP})
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	return b.buildWith(ctx, stage{"worker", registerWorker})
}

type stage struct {
	name     string
	register func(*dig.Container) error
}

func (b *ContainerBuilder) buildWith(ctx context.Context, extra ...stage) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig, b.newLogger); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	for _, s := range extra {
		if err := s.register(container); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return container, nil
}

// MustBuildContainer builds the HTTP service container with defaults.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container with defaults.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func provideNamed(container *dig.Container, name string, provider any) error {
	if err := container.Provide(provider, dig.Name(name)); err != nil {
		return fmt.Errorf("provide %s: %w", name, err)
	}
	return nil
}

func registerCore(
	container *dig.Container,
	ctx context.Context,
	loadConfig func() (*config.Config, error),
	newLogger func(*config.Config) logx.Logger,
) error {
	if err := provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		newLogger,
		newRegistry,
		newAllocationMetrics,
		func(cfg *config.Config) (*time.Location, error) { return cfg.Schedule.Location() },
	); err != nil {
		return err
	}
	if err := provideNamed(container, "storage_retries_total", registerCounter(metrics.NewStorageRetriesTotal)); err != nil {
		return err
	}
	return provideNamed(container, "rate_limit_exceeded_total", registerCounter(metrics.NewRateLimitExceededTotal))
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newAllocationMetrics(reg *prometheus.Registry) (*metrics.Allocation, error) {
	m := metrics.NewAllocation()
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCounter(newCounter func() prometheus.Counter) func(*prometheus.Registry) (prometheus.Counter, error) {
	return func(reg *prometheus.Registry) (prometheus.Counter, error) {
		c := newCounter()
		if err := reg.Register(c); err != nil {
			return nil, err
		}
		return c, nil
	}
}

func registerDb(container *dig.Container, dbConnect DBConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type storageIn struct {
	dig.In

	Store   *repository.Store
	Logger  logx.Logger
	Config  *config.Config
	Retries prometheus.Counter `name:"storage_retries_total"`
}

func newStorage(in storageIn) allocation.Storage {
	r := in.Config.StorageRetry
	return repository.NewRetrying(in.Store, in.Logger, in.Retries, repository.RetryConfig{
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   r.BaseDelay,
		MaxDelay:    r.MaxDelay,
	})
}

func newPolicy(cfg *config.Config) allocation.Policy {
	a := cfg.Allocation
	return allocation.Policy{
		MaxWorkingHours:     a.MaxWorkingHours,
		MaxTravelDistanceKm: a.MaxTravelDistanceKm,
		MinutesPerKm:        a.MinutesPerKm,
		MinDailyEarning:     a.MinDailyEarning,
		Tier1Orders:         a.Tier1Orders,
		Tier1Payment:        a.Tier1Payment,
		Tier2Orders:         a.Tier2Orders,
		Tier2Payment:        a.Tier2Payment,
		DefaultPayment:      a.DefaultPayment,
		MinCandidateSize:    a.MinCandidateSize,
		MaxCandidateSize:    a.MaxCandidateSize,
		Workers:             a.Workers,
	}
}

// newRedisClient returns nil when no Redis address is configured.
func newRedisClient(ctx context.Context, cfg *config.Config, logger logx.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, using in-process run lock")
		return nil, nil
	}
	client, err := runlock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("redis run lock enabled", logx.String("addr", cfg.Redis.Addr))
	return client, nil
}

func newRunLocker(client *redis.Client) runlock.Locker {
	if client == nil {
		return runlock.NewLocal()
	}
	return runlock.NewRedis(client)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewStore,
		newStorage,
		newPolicy,
		allocation.NewService,
		func() operationTimeout { return operationTimeout(3 * time.Second) },
		func(store *repository.Store, timeout operationTimeout, logger logx.Logger) *agents.Service {
			return agents.NewService(store, time.Duration(timeout), logger)
		},
		func(store *repository.Store, timeout operationTimeout, logger logx.Logger) *catalog.Service {
			return catalog.NewService(store, time.Duration(timeout), logger)
		},
		newRedisClient,
		newRunLocker,
		func(svc *allocation.Service, locker runlock.Locker, cfg *config.Config, logger logx.Logger) *runlock.Guard {
			return runlock.NewGuard(svc, locker, cfg.Redis.LockTTL, logger)
		},
	)
}

func newToday(loc *time.Location) handlers.Today {
	return func() time.Time { return time.Now().In(loc) }
}

func newHTTPMetrics(reg *prometheus.Registry) (*obs.HTTPMetrics, error) {
	m := obs.NewHTTPMetrics()
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newMetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

type routerIn struct {
	dig.In

	Base        *handlers.Handlers
	Allocation  *handlers.AllocationHandler
	Agents      *handlers.AgentHandler
	Catalog     *handlers.CatalogHandler
	Logger      logx.Logger
	HTTPMetrics *obs.HTTPMetrics
	RateLimit   *ratelimit.Middleware
	Metrics     http.Handler `name:"metrics_handler"`
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Params{
		Base:        in.Base,
		Allocation:  in.Allocation,
		Agents:      in.Agents,
		Catalog:     in.Catalog,
		Logger:      in.Logger,
		HTTPMetrics: in.HTTPMetrics,
		RateLimit:   in.RateLimit,
		Metrics:     in.Metrics,
	})
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// the run route may take up to the router's run timeout
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

// newPprofServer returns nil unless PPROF_ADDR is set.
func newPprofServer(cfg *config.Config) *http.Server {
	return pprofserver.New(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	})
}

func registerHTTP(container *dig.Container) error {
	if err := provideNamed(container, "metrics_handler", newMetricsHandler); err != nil {
		return err
	}
	if err := provideNamed(container, "pprof_server", newPprofServer); err != nil {
		return err
	}
	return provideAll(container,
		handlers.New,
		handlers.NewAllocationRunner,
		handlers.NewAllocationQueries,
		handlers.NewAgentUsecase,
		handlers.NewAssignmentDescriber,
		handlers.NewCatalogUsecase,
		newToday,
		handlers.NewAllocationHandler,
		handlers.NewAgentHandler,
		handlers.NewCatalogHandler,
		newHTTPMetrics,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServer,
	)
}
