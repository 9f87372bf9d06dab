package allocation

import (
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/geo"
	"delivery-allocation/internal/routing"
)

// RejectReason explains why a candidate order set was refused.
type RejectReason string

// List of possible reject reasons
const (
	RejectNone                RejectReason = ""
	RejectEmptyCandidate      RejectReason = "empty_candidate"
	RejectDistanceExceeded    RejectReason = "distance_exceeded"
	RejectTimeExceeded        RejectReason = "time_exceeded"
	RejectBelowMinimumEarning RejectReason = "below_minimum_earning"
)

// Evaluation is the outcome of checking one candidate order set.
// Metrics computed before a rejection are kept for logging.
type Evaluation struct {
	Accepted        bool
	Reason          RejectReason
	DistanceKm      float64
	TimeHours       float64
	OrderCount      int
	EarningPerOrder int
	TotalEarning    int
	Route           []domain.Coordinate
}

// Checker decides whether one agent can deliver a set of orders in a day.
type Checker struct {
	policy Policy
}

// NewChecker creates a Checker for policy p.
func NewChecker(p Policy) Checker {
	return Checker{policy: p}
}

// Evaluate routes orders from depot and applies the limits in a fixed order:
// distance, time, then minimum earning.
func (c Checker) Evaluate(depot domain.Coordinate, orders []domain.Order) Evaluation {
	if len(orders) == 0 {
		return Evaluation{Reason: RejectEmptyCandidate}
	}

	stops := make([]domain.Coordinate, 0, len(orders))
	for _, o := range orders {
		stops = append(stops, o.Location)
	}
	route := routing.NearestNeighbor(depot, stops)
	dist := routing.Distance(route)

	ev := Evaluation{
		DistanceKm: dist,
		TimeHours:  geo.TravelTime(dist, c.policy.MinutesPerKm),
		OrderCount: len(orders),
		Route:      route,
	}
	if ev.DistanceKm > c.policy.MaxTravelDistanceKm {
		ev.Reason = RejectDistanceExceeded
		return ev
	}
	if ev.TimeHours > c.policy.MaxWorkingHours {
		ev.Reason = RejectTimeExceeded
		return ev
	}

	ev.EarningPerOrder = c.policy.RateFor(ev.OrderCount)
	ev.TotalEarning = ev.OrderCount * ev.EarningPerOrder
	if ev.TotalEarning < c.policy.MinDailyEarning {
		ev.Reason = RejectBelowMinimumEarning
		return ev
	}

	ev.Accepted = true
	return ev
}
