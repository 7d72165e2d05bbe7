package contact

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistryGetReusesIntakePerKey(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func() *Intake { return NewIntake(SimulatedGateway{}) }, time.Hour)
	a := r.Get("session-a")
	require.Same(t, a, r.Get("session-a"))
	require.NotSame(t, a, r.Get("session-b"))
	require.Equal(t, 2, r.Len())
}

func TestRegistryReleaseClosesIntake(t *testing.T) {
	t.Parallel()

	g := newGate()
	r := NewRegistry(func() *Intake { return NewIntake(g) }, time.Hour)
	in := r.Get("visitor")
	_, err := in.Submit(filled)
	require.NoError(t, err)
	settled := in.Settled()

	require.True(t, r.Release("visitor"))
	<-settled
	require.True(t, in.Closed())
	require.False(t, r.Release("visitor"))

	fresh := r.Get("visitor")
	require.NotSame(t, in, fresh)
	require.Equal(t, StatusIdle, fresh.State().Status)
}

func TestRegistrySweepDropsIdleIntakes(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	g := newGate()
	factory := func() *Intake { return NewIntake(g, WithClock(clock.Now)) }
	r := NewRegistry(factory, 10*time.Minute, WithRegistryClock(clock.Now))

	idle := r.Get("idle")
	busy := r.Get("busy")
	_, err := busy.Submit(filled)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	require.Equal(t, 1, r.Sweep())
	require.True(t, idle.Closed())
	_, ok := r.Peek("busy")
	require.True(t, ok, "pending intakes survive a sweep")

	g.release <- nil
	<-busy.Settled()
	r.Release("busy")
}

func TestRegistryRunClosesEverythingOnShutdown(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil, time.Minute)
	in := r.Get("k")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, 5*time.Millisecond) }()

	cancel()
	require.NoError(t, <-done)
	require.True(t, in.Closed())
	require.Zero(t, r.Len())
}

func TestRegistryReportsSize(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var sizes []int
	r := NewRegistry(func() *Intake { return NewIntake(SimulatedGateway{}) }, time.Hour,
		WithSizeObserver(func(n int) {
			mu.Lock()
			sizes = append(sizes, n)
			mu.Unlock()
		}))

	r.Get("a")
	r.Get("a")
	r.Get("b")
	r.Release("a")
	r.Release("missing")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2, 1}, sizes)
}
