package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-allocation/internal/config"
	"delivery-allocation/internal/http/handlers"
	"delivery-allocation/internal/logx"
	"delivery-allocation/internal/metrics"
	"delivery-allocation/internal/runlock"
	"delivery-allocation/internal/scheduler"
	"delivery-allocation/internal/service/agents"
	"delivery-allocation/internal/service/checkin"
	"delivery-allocation/internal/transport/kafka"
)

func newIntakeMetrics(reg *prometheus.Registry) (*metrics.Intake, error) {
	m := metrics.NewIntake()
	if err := reg.Register(m.Collector()); err != nil {
		return nil, err
	}
	return m, nil
}

func newCheckinProcessor(svc *agents.Service, logger logx.Logger, intake *metrics.Intake) *checkin.Processor {
	return checkin.NewProcessor(svc, logger, intake)
}

// newCheckinConsumer returns nil when no brokers are configured.
func newCheckinConsumer(cfg *config.Config, logger logx.Logger, p *checkin.Processor) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.Topic, makeCheckinKafka(p, checkinTimeout))
}

func newScheduler(
	cfg *config.Config,
	loc *time.Location,
	guard *runlock.Guard,
	svc *agents.Service,
	logger logx.Logger,
) (*scheduler.Scheduler, error) {
	return scheduler.New(scheduler.Config{
		AllocationSpec: cfg.Schedule.Allocation,
		CheckoutSpec:   cfg.Schedule.Checkout,
		Location:       loc,
		JobTimeout:     cfg.Schedule.JobTimeout,
	}, guard, svc, logger)
}

type workerServerIn struct {
	dig.In

	Config  *config.Config
	Base    *handlers.Handlers
	Metrics http.Handler `name:"metrics_handler"`
}

// newWorkerServer exposes liveness and metrics for the worker process.
func newWorkerServer(in workerServerIn) *http.Server {
	r := chi.NewRouter()
	r.Get("/ping", in.Base.Ping)
	r.Head("/healthcheck", in.Base.HealthcheckHead)
	r.Handle("/metrics", in.Metrics)
	r.NotFound(in.Base.NotFound)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", in.Config.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func registerWorker(container *dig.Container) error {
	if err := provideNamed(container, "metrics_handler", newMetricsHandler); err != nil {
		return err
	}
	if err := provideNamed(container, "worker_server", newWorkerServer); err != nil {
		return err
	}
	if err := provideNamed(container, "pprof_server", newPprofServer); err != nil {
		return err
	}
	return provideAll(container,
		handlers.New,
		newIntakeMetrics,
		newCheckinProcessor,
		newCheckinConsumer,
		newScheduler,
	)
}
