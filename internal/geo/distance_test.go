package geo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/geo"
)

func TestDistance_Identity(t *testing.T) {
	t.Parallel()

	p := domain.Coordinate{Lat: 12.97, Lng: 77.59}
	require.Zero(t, geo.Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Lat: 12.97, Lng: 77.59}
	b := domain.Coordinate{Lat: 13.08, Lng: 80.27}
	require.Equal(t, geo.Distance(a, b), geo.Distance(b, a))
}

func TestDistance_KnownPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   domain.Coordinate
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "one degree of latitude",
			a:      domain.Coordinate{Lat: 0, Lng: 0},
			b:      domain.Coordinate{Lat: 1, Lng: 0},
			wantKm: 111.2,
			tolKm:  0.5,
		},
		{
			name:   "bangalore to chennai",
			a:      domain.Coordinate{Lat: 12.9716, Lng: 77.5946},
			b:      domain.Coordinate{Lat: 13.0827, Lng: 80.2707},
			wantKm: 290.2,
			tolKm:  2,
		},
		{
			name:   "antipodes",
			a:      domain.Coordinate{Lat: 0, Lng: 0},
			b:      domain.Coordinate{Lat: 0, Lng: 180},
			wantKm: 20015.1,
			tolKm:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.wantKm, geo.Distance(tt.a, tt.b), tt.tolKm)
		})
	}
}

func TestDistance_Monotonic(t *testing.T) {
	t.Parallel()

	origin := domain.Coordinate{Lat: 12.97, Lng: 77.59}
	prev := 0.0
	for i := 1; i <= 10; i++ {
		d := geo.Distance(origin, domain.Coordinate{Lat: 12.97 + float64(i)*0.01, Lng: 77.59})
		require.Greater(t, d, prev)
		prev = d
	}
}

func TestTravelTime(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 1.0, geo.TravelTime(20, 3), 1e-9)
	require.InDelta(t, 10.0, geo.TravelTime(200, 3), 1e-9)
	require.Zero(t, geo.TravelTime(0, 3))
}
