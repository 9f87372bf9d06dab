package allocation

import (
	"fmt"

	"delivery-allocation/internal/apperr"
)

// MaxOrdersPerAgent bounds MaxCandidateSize. Route construction is quadratic
// in the number of stops.
const MaxOrdersPerAgent = 60

// Policy holds the capacity limits and the payment scheme of a run.
type Policy struct {
	MaxWorkingHours     float64
	MaxTravelDistanceKm float64
	MinutesPerKm        float64
	MinDailyEarning     int

	Tier1Orders    int
	Tier1Payment   int
	Tier2Orders    int
	Tier2Payment   int
	DefaultPayment int

	MinCandidateSize int
	MaxCandidateSize int

	// Workers is the number of warehouses processed at once.
	Workers int
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxWorkingHours:     15,
		MaxTravelDistanceKm: 200,
		MinutesPerKm:        3,
		MinDailyEarning:     50,
		Tier1Orders:         15,
		Tier1Payment:        35,
		Tier2Orders:         30,
		Tier2Payment:        42,
		DefaultPayment:      30,
		MinCandidateSize:    5,
		MaxCandidateSize:    30,
		Workers:             1,
	}
}

// Validate reports the first nonsensical setting.
func (p Policy) Validate() error {
	switch {
	case p.MaxWorkingHours <= 0:
		return fmt.Errorf("%w: max working hours must be positive", apperr.ErrInvalid)
	case p.MaxTravelDistanceKm <= 0:
		return fmt.Errorf("%w: max travel distance must be positive", apperr.ErrInvalid)
	case p.MinutesPerKm <= 0:
		return fmt.Errorf("%w: minutes per km must be positive", apperr.ErrInvalid)
	case p.MinDailyEarning < 0:
		return fmt.Errorf("%w: min daily earning must not be negative", apperr.ErrInvalid)
	case p.Tier1Orders <= 0 || p.Tier2Orders <= p.Tier1Orders:
		return fmt.Errorf("%w: tier thresholds must satisfy 0 < tier1 < tier2", apperr.ErrInvalid)
	case p.DefaultPayment <= 0 || p.Tier1Payment <= 0 || p.Tier2Payment <= 0:
		return fmt.Errorf("%w: payments must be positive", apperr.ErrInvalid)
	case p.MinCandidateSize <= 0 || p.MaxCandidateSize < p.MinCandidateSize:
		return fmt.Errorf("%w: candidate sizes must satisfy 0 < min <= max", apperr.ErrInvalid)
	case p.MaxCandidateSize > MaxOrdersPerAgent:
		return fmt.Errorf("%w: max candidate size must not exceed %d", apperr.ErrInvalid, MaxOrdersPerAgent)
	case p.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", apperr.ErrInvalid)
	}
	return nil
}

// RateFor returns the per-order payment for a day with n orders.
func (p Policy) RateFor(n int) int {
	switch {
	case n >= p.Tier2Orders:
		return p.Tier2Payment
	case n >= p.Tier1Orders:
		return p.Tier1Payment
	default:
		return p.DefaultPayment
	}
}

func (p Policy) tierBonus(n int) float64 {
	switch {
	case n >= p.Tier2Orders:
		return 10
	case n >= p.Tier1Orders:
		return 5
	default:
		return 0
	}
}

// Score ranks an accepted evaluation. Earnings, order count and reaching a
// payment tier raise it; distance lowers it.
func (p Policy) Score(e Evaluation) float64 {
	return float64(e.TotalEarning)/100 +
		float64(e.OrderCount)/50 +
		p.tierBonus(e.OrderCount) -
		e.DistanceKm/p.MaxTravelDistanceKm
}
