package allocation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/service/allocation"
)

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := allocation.DefaultPolicy()
	require.NoError(t, p.Validate())
	require.Equal(t, 15.0, p.MaxWorkingHours)
	require.Equal(t, 200.0, p.MaxTravelDistanceKm)
	require.Equal(t, 3.0, p.MinutesPerKm)
	require.Equal(t, 50, p.MinDailyEarning)
	require.Equal(t, 5, p.MinCandidateSize)
	require.Equal(t, 30, p.MaxCandidateSize)
	require.Equal(t, 1, p.Workers)
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*allocation.Policy)
	}{
		{"zero hours", func(p *allocation.Policy) { p.MaxWorkingHours = 0 }},
		{"negative distance", func(p *allocation.Policy) { p.MaxTravelDistanceKm = -1 }},
		{"zero speed", func(p *allocation.Policy) { p.MinutesPerKm = 0 }},
		{"negative min earning", func(p *allocation.Policy) { p.MinDailyEarning = -5 }},
		{"tiers inverted", func(p *allocation.Policy) { p.Tier2Orders = p.Tier1Orders }},
		{"zero payment", func(p *allocation.Policy) { p.DefaultPayment = 0 }},
		{"min above max", func(p *allocation.Policy) { p.MinCandidateSize = 31 }},
		{"zero workers", func(p *allocation.Policy) { p.Workers = 0 }},
		{"max above per-agent cap", func(p *allocation.Policy) { p.MaxCandidateSize = allocation.MaxOrdersPerAgent + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := allocation.DefaultPolicy()
			tt.mutate(&p)
			require.ErrorIs(t, p.Validate(), apperr.ErrInvalid)
		})
	}
}

func TestPolicy_Validate_AcceptsPerAgentCap(t *testing.T) {
	t.Parallel()

	p := allocation.DefaultPolicy()
	p.MaxCandidateSize = allocation.MaxOrdersPerAgent
	require.NoError(t, p.Validate())
}

func TestPolicy_RateFor_TierBoundaries(t *testing.T) {
	t.Parallel()

	p := allocation.DefaultPolicy()
	cases := map[int]int{1: 30, 14: 30, 15: 35, 29: 35, 30: 42, 60: 42}
	for n, want := range cases {
		require.Equal(t, want, p.RateFor(n), "orders=%d", n)
	}
}

func TestPolicy_Score(t *testing.T) {
	t.Parallel()

	p := allocation.DefaultPolicy()

	got := p.Score(allocation.Evaluation{OrderCount: 30, TotalEarning: 1260, DistanceKm: 100})
	require.InDelta(t, 12.6+0.6+10-0.5, got, 1e-9)

	got = p.Score(allocation.Evaluation{OrderCount: 15, TotalEarning: 525, DistanceKm: 0})
	require.InDelta(t, 5.25+0.3+5, got, 1e-9)

	got = p.Score(allocation.Evaluation{OrderCount: 5, TotalEarning: 150, DistanceKm: 200})
	require.InDelta(t, 1.5+0.1-1, got, 1e-9)
}
