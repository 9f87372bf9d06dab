package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	testlog "delivery-allocation/internal/testutil"
)

type runnerStub struct {
	runFn func(ctx context.Context, day time.Time) (domain.RunResult, error)
}

func (r *runnerStub) Run(ctx context.Context, day time.Time) (domain.RunResult, error) {
	return r.runFn(ctx, day)
}

type checkouterStub struct {
	checkOutAllFn func(ctx context.Context) (int64, error)
}

func (c *checkouterStub) CheckOutAll(ctx context.Context) (int64, error) {
	return c.checkOutAllFn(ctx)
}

func TestNew_RegistersConfiguredJobs(t *testing.T) {
	t.Parallel()

	s, err := New(Config{AllocationSpec: "0 7 * * *", CheckoutSpec: "0 20 * * *"}, &runnerStub{}, &checkouterStub{}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Jobs())

	s, err = New(Config{AllocationSpec: "0 7 * * *"}, &runnerStub{}, &checkouterStub{}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Jobs())
}

func TestNew_InvalidSpec(t *testing.T) {
	t.Parallel()

	_, err := New(Config{AllocationSpec: "every morning"}, &runnerStub{}, &checkouterStub{}, nil)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestScheduler_Today_UsesLocation(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	s, err := New(Config{Location: ist}, &runnerStub{}, &checkouterStub{}, nil)
	require.NoError(t, err)

	// 20:00 UTC on the 3rd is already the 4th in IST.
	s.now = func() time.Time { return time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC) }
	require.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), s.Today())
}

func TestScheduler_RunAllocation(t *testing.T) {
	t.Parallel()

	var gotDay time.Time
	runner := &runnerStub{runFn: func(_ context.Context, day time.Time) (domain.RunResult, error) {
		gotDay = day
		return domain.RunResult{Status: domain.RunSuccess, TotalAssigned: 12, TotalDeferred: 1}, nil
	}}
	rec := testlog.New()
	s, err := New(Config{}, runner, &checkouterStub{}, rec.Logger())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC) }

	require.NoError(t, s.RunAllocation(context.Background()))
	require.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), gotDay)

	entries := rec.Entries()
	require.Equal(t, "scheduled allocation finished", entries[len(entries)-1].Msg)
}

func TestScheduler_RunAllocation_NoAgentsIsNotFailure(t *testing.T) {
	t.Parallel()

	runner := &runnerStub{runFn: func(context.Context, time.Time) (domain.RunResult, error) {
		return domain.RunResult{Status: domain.RunFailed}, apperr.ErrNoAgentsAvailable
	}}
	s, err := New(Config{}, runner, &checkouterStub{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunAllocation(context.Background()))
}

func TestScheduler_RunAllocation_Error(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("db down")
	runner := &runnerStub{runFn: func(context.Context, time.Time) (domain.RunResult, error) {
		return domain.RunResult{}, sentinel
	}}
	s, err := New(Config{}, runner, &checkouterStub{}, nil)
	require.NoError(t, err)

	require.ErrorIs(t, s.RunAllocation(context.Background()), sentinel)
}

func TestScheduler_RunCheckout(t *testing.T) {
	t.Parallel()

	agents := &checkouterStub{checkOutAllFn: func(context.Context) (int64, error) { return 7, nil }}
	s, err := New(Config{}, &runnerStub{}, agents, nil)
	require.NoError(t, err)
	require.NoError(t, s.RunCheckout(context.Background()))

	sentinel := errors.New("boom")
	agents.checkOutAllFn = func(context.Context) (int64, error) { return 0, sentinel }
	require.ErrorIs(t, s.RunCheckout(context.Background()), sentinel)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s, err := New(Config{CheckoutSpec: "0 20 * * *"}, &runnerStub{}, &checkouterStub{}, nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestCronLogger_MapsKeyValues(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	cl := cronLogger{l: rec.Logger()}
	cl.Info("start", "now", 1)
	cl.Error(errors.New("panic"), "recovered", "job", "allocation")

	entries := rec.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "debug", entries[0].Level)
	require.Equal(t, "cron: start", entries[0].Msg)
	require.Equal(t, "now", entries[0].Fields[0].Key)
	require.Equal(t, "error", entries[1].Level)
	require.Len(t, entries[1].Fields, 2)
}
