// Package geo provides great-circle distance and travel time helpers.
package geo

import (
	"math"

	"delivery-allocation/internal/domain"
)

// earthRadiusKm is the IUGG mean Earth radius.
const earthRadiusKm = 6371.0088

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula.
func Distance(a, b domain.Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h past 1 for antipodal points
	h = math.Min(1, h)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// TravelTime converts a distance in kilometers to hours.
func TravelTime(distanceKm, minutesPerKm float64) float64 {
	return distanceKm * minutesPerKm / 60
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
