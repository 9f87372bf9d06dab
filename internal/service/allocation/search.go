package allocation

import (
	"sort"

	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/geo"
)

// Candidate is the order set picked for one agent.
// An empty Orders slice means nothing feasible was found.
type Candidate struct {
	Orders     []domain.Order
	Evaluation Evaluation
	Score      float64
}

// Empty reports whether no feasible order set was found.
func (c Candidate) Empty() bool { return len(c.Orders) == 0 }

type rejectRecorder interface {
	Reject(reason string)
}

// Search tries prefixes of the depot-nearest orders and keeps the best scoring one.
type Search struct {
	policy  Policy
	checker Checker
	rejects rejectRecorder
}

// NewSearch creates a Search for policy p. rejects may be nil.
func NewSearch(p Policy, rejects rejectRecorder) *Search {
	return &Search{policy: p, checker: NewChecker(p), rejects: rejects}
}

// FindBest returns the highest scoring feasible prefix of available, sorted by
// distance from depot. Sizes are tried from MaxCandidateSize down to
// MinCandidateSize; on equal scores the larger set wins.
func (s *Search) FindBest(_ domain.Agent, depot domain.Coordinate, available []domain.Order) Candidate {
	sorted := byDepotDistance(depot, available)

	var best Candidate
	found := false
	for target := s.policy.MaxCandidateSize; target >= s.policy.MinCandidateSize; target-- {
		if target > len(sorted) {
			continue
		}
		candidate := sorted[:target]
		ev := s.checker.Evaluate(depot, candidate)
		if !ev.Accepted {
			if s.rejects != nil {
				s.rejects.Reject(string(ev.Reason))
			}
			continue
		}
		score := s.policy.Score(ev)
		if !found || score > best.Score {
			found = true
			best = Candidate{
				Orders:     append([]domain.Order(nil), candidate...),
				Evaluation: ev,
				Score:      score,
			}
		}
	}
	return best
}

func byDepotDistance(depot domain.Coordinate, orders []domain.Order) []domain.Order {
	type ranked struct {
		order domain.Order
		km    float64
	}
	rs := make([]ranked, 0, len(orders))
	for _, o := range orders {
		rs = append(rs, ranked{order: o, km: geo.Distance(depot, o.Location)})
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].km < rs[j].km })

	out := make([]domain.Order, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.order)
	}
	return out
}
