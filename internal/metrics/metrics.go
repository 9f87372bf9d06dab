package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewStorageRetriesTotal returns a Prometheus counter for retried storage reads
func NewStorageRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storage_retries_total",
		Help: "Total number of retry attempts performed on storage reads",
	})
}

// NewIntakeEventsTotal returns a counter of consumed check-in events by type and outcome
func NewIntakeEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_events_total",
		Help: "Total number of consumed agent check-in events",
	}, []string{"type", "outcome"})
}

// Allocation groups the collectors updated by allocation runs.
// A nil *Allocation is valid and records nothing.
type Allocation struct {
	runs              *prometheus.CounterVec
	runDuration       prometheus.Histogram
	ordersAssigned    prometheus.Counter
	ordersDeferred    prometheus.Counter
	assignments       prometheus.Counter
	rejections        *prometheus.CounterVec
	warehouseFailures prometheus.Counter
}

// NewAllocation creates unregistered allocation collectors.
func NewAllocation() *Allocation {
	return &Allocation{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_runs_total",
			Help: "Total number of allocation runs by status",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "allocation_run_duration_seconds",
			Help:    "Duration of allocation runs.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ordersAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "allocation_orders_assigned_total",
			Help: "Total number of orders assigned to agents",
		}),
		ordersDeferred: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "allocation_orders_deferred_total",
			Help: "Total number of orders deferred to a later day",
		}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "allocation_assignments_total",
			Help: "Total number of agent assignments created",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_candidate_rejections_total",
			Help: "Total number of rejected candidate order sets by reason",
		}, []string{"reason"}),
		warehouseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "allocation_warehouse_failures_total",
			Help: "Total number of warehouses that failed during a run",
		}),
	}
}

// Collectors returns every collector for registration.
func (a *Allocation) Collectors() []prometheus.Collector {
	if a == nil {
		return nil
	}
	return []prometheus.Collector{
		a.runs, a.runDuration, a.ordersAssigned, a.ordersDeferred,
		a.assignments, a.rejections, a.warehouseFailures,
	}
}

// Register registers all collectors on reg.
func (a *Allocation) Register(reg prometheus.Registerer) error {
	for _, c := range a.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRun records a finished run.
func (a *Allocation) ObserveRun(status string, d time.Duration) {
	if a == nil {
		return
	}
	a.runs.WithLabelValues(status).Inc()
	a.runDuration.Observe(d.Seconds())
}

// AddAssignment records one created assignment carrying n orders.
func (a *Allocation) AddAssignment(n int) {
	if a == nil {
		return
	}
	a.assignments.Inc()
	a.ordersAssigned.Add(float64(n))
}

// AddDeferred records n deferred orders.
func (a *Allocation) AddDeferred(n int) {
	if a == nil || n <= 0 {
		return
	}
	a.ordersDeferred.Add(float64(n))
}

// Reject records a rejected candidate.
func (a *Allocation) Reject(reason string) {
	if a == nil {
		return
	}
	a.rejections.WithLabelValues(reason).Inc()
}

// WarehouseFailed records a warehouse that could not be processed.
func (a *Allocation) WarehouseFailed() {
	if a == nil {
		return
	}
	a.warehouseFailures.Inc()
}

// Intake counts consumed availability events. The zero value and nil are no-ops.
type Intake struct {
	events *prometheus.CounterVec
}

// NewIntake wraps NewIntakeEventsTotal.
func NewIntake() *Intake {
	return &Intake{events: NewIntakeEventsTotal()}
}

// Collector exposes the underlying vector for registration.
func (i *Intake) Collector() prometheus.Collector {
	return i.events
}

// Inc records one event of the given type with its outcome.
func (i *Intake) Inc(eventType, outcome string) {
	if i == nil || i.events == nil {
		return
	}
	i.events.WithLabelValues(eventType, outcome).Inc()
}
