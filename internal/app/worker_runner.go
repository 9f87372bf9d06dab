package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/scheduler"
	"delivery-allocation/internal/transport/kafka"
)

var errNothingToRun = errors.New("worker has neither scheduled jobs nor a kafka consumer")

// WorkerRunner runs the scheduler and the check-in consumer.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker until the container context is done.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type workerIn struct {
	dig.In

	Ctx       context.Context
	Pool      *pgxpool.Pool
	Logger    logx.Logger
	Consumer  *kafka.Consumer
	Scheduler *scheduler.Scheduler
	Server    *http.Server  `name:"worker_server" optional:"true"`
	Pprof     *http.Server  `name:"pprof_server" optional:"true"`
	Redis     *redis.Client `optional:"true"`
}

func runWorker(container *dig.Container) error {
	return container.Invoke(func(in workerIn) error {
		return workerRun(in.Ctx, workerDeps{
			pool:      in.Pool,
			logger:    in.Logger,
			consumer:  in.Consumer,
			scheduler: in.Scheduler,
			server:    in.Server,
			pprof:     in.Pprof,
			redis:     in.Redis,
		})
	})
}

type workerDeps struct {
	pool      *pgxpool.Pool
	logger    logx.Logger
	consumer  *kafka.Consumer
	scheduler *scheduler.Scheduler
	server    *http.Server
	pprof     *http.Server
	redis     *redis.Client
}

func workerRun(ctx context.Context, d workerDeps) error {
	if d.logger == nil {
		d.logger = logx.Nop()
	}
	hasJobs := d.scheduler != nil && d.scheduler.Jobs() > 0
	if d.consumer == nil && !hasJobs {
		return errNothingToRun
	}
	defer closeWorker(d)

	for _, srv := range []*http.Server{d.server, d.pprof} {
		if srv != nil {
			startServer(srv, d.logger)
		}
	}
	if hasJobs {
		d.scheduler.Start()
	}
	d.logger.Info("service-allocation-worker started",
		logx.Int("jobs", jobsOf(d.scheduler)),
		logx.Bool("kafka", d.consumer != nil),
	)

	if d.consumer == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return d.consumer.Run(ctx)
}

func jobsOf(s *scheduler.Scheduler) int {
	if s == nil {
		return 0
	}
	return s.Jobs()
}

func closeWorker(d workerDeps) {
	if d.scheduler != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := d.scheduler.Stop(stopCtx); err != nil {
			d.logger.Error("scheduler stop error", logx.Err(err))
		}
		cancel()
	}
	if d.consumer != nil {
		if err := d.consumer.Close(); err != nil {
			d.logger.Error("kafka close error", logx.Err(err))
		}
	}
	for _, srv := range []*http.Server{d.server, d.pprof} {
		if srv != nil {
			gracefulShutdown(srv, d.logger, shutdownTimeout)
		}
	}
	closeResources(d.pool, d.redis, d.logger)
}
