package domain

import "time"

// RunStatus is the outcome of an allocation run.
type RunStatus string

// List of possible run statuses
const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Summary aggregates all assignments of a date.
type Summary struct {
	Date              time.Time
	TotalAgents       int
	TotalOrders       int
	TotalDistanceKm   float64
	TotalCost         int
	AvgOrdersPerAgent float64
	DeferredOrders    int
}

// WarehouseReport describes what a run did at one warehouse.
type WarehouseReport struct {
	WarehouseID WarehouseID
	Agents      int
	Pending     int
	Assigned    int
	Deferred    int
	Skipped     bool
	Error       string
}

// Failed reports whether the warehouse hit a storage error.
func (r WarehouseReport) Failed() bool { return r.Error != "" }

// RunResult is the output of one allocation run.
type RunResult struct {
	Status        RunStatus
	Date          time.Time
	Message       string
	TotalAssigned int
	TotalDeferred int
	Summary       Summary
	Warehouses    []WarehouseReport
}
