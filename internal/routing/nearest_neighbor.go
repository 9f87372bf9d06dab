// Package routing builds approximate delivery routes.
//
// Routes are produced with a greedy nearest-neighbor heuristic: from the
// depot, always drive to the closest stop not yet visited. The result is
// deterministic for a given input order but is not an optimal tour.
package routing

import (
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/geo"
)

// NearestNeighbor returns a route that starts at depot and visits every stop
// exactly once. Ties are broken in favour of the stop that appears first in stops.
func NearestNeighbor(depot domain.Coordinate, stops []domain.Coordinate) []domain.Coordinate {
	route := make([]domain.Coordinate, 0, len(stops)+1)
	route = append(route, depot)
	if len(stops) == 0 {
		return route
	}

	visited := make([]bool, len(stops))
	current := depot
	for range stops {
		next := -1
		best := 0.0
		for i, s := range stops {
			if visited[i] {
				continue
			}
			d := geo.Distance(current, s)
			if next == -1 || d < best {
				next, best = i, d
			}
		}
		visited[next] = true
		current = stops[next]
		route = append(route, current)
	}
	return route
}

// Distance sums the leg lengths of route in kilometers.
func Distance(route []domain.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(route); i++ {
		total += geo.Distance(route[i-1], route[i])
	}
	return total
}
