package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the wall and monotonic readings independently.
type fakeClock struct {
	mu   sync.Mutex
	wall time.Time
	mono time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{wall: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wall
}

func (c *fakeClock) Monotonic() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mono
}

// Advance moves both clocks, as normal running time does.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wall = c.wall.Add(d)
	c.mono += d
}

// Suspend moves only the wall clock, as a sleeping host does.
func (c *fakeClock) Suspend(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wall = c.wall.Add(d)
}

func TestDeriveTimeLimit(t *testing.T) {
	tests := []struct {
		items, perItem, want int
	}{
		{20, 120, 2400},
		{10, 120, 1200},
		{3, 120, 360},
		{0, 120, 0},
		{-1, 120, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveTimeLimit(tt.items, tt.perItem), "items=%d perItem=%d", tt.items, tt.perItem)
	}
}

func TestTimer_ExpiresOnceAtDeadline(t *testing.T) {
	clock := newFakeClock()
	var ticks, expiries int
	timer := NewTimer(clock, 60*time.Second,
		func(time.Duration) { ticks++ },
		func() { expiries++ },
	)

	clock.Advance(59 * time.Second)
	assert.Equal(t, time.Second, timer.Poll())
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 0, expiries)

	clock.Advance(time.Second)
	assert.Equal(t, time.Duration(0), timer.Poll())
	assert.Equal(t, 1, expiries)
	assert.True(t, timer.Expired())

	clock.Advance(time.Minute)
	timer.Poll()
	timer.Poll()
	assert.Equal(t, 1, expiries, "expiry must fire once")
	assert.Equal(t, 1, ticks)
}

func TestTimer_NothingFiresAfterStop(t *testing.T) {
	clock := newFakeClock()
	fired := false
	timer := NewTimer(clock, 10*time.Second,
		func(time.Duration) { fired = true },
		func() { fired = true },
	)
	timer.Stop()
	timer.Stop()

	clock.Advance(5 * time.Second)
	timer.Poll()
	clock.Advance(time.Minute)
	timer.Poll()
	assert.False(t, fired)
	assert.False(t, timer.Expired())
}

func TestTimer_RemainingIsRecomputedFromAnchor(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, 2400*time.Second, nil, nil)

	// No polls in between: missed ticks do not stretch the budget.
	clock.Advance(1000 * time.Second)
	assert.Equal(t, 1400*time.Second, timer.Remaining())
}

func TestTimer_ResumeAppliesSuspendedTime(t *testing.T) {
	clock := newFakeClock()
	expired := false
	timer := NewTimer(clock, 60*time.Second, nil, func() { expired = true })

	clock.Advance(10 * time.Second)
	clock.Suspend(30 * time.Second)

	err := timer.Resume()
	var drift *ClockDriftError
	require.True(t, errors.As(err, &drift))
	assert.Equal(t, 30*time.Second, drift.Drift)
	assert.Equal(t, 40*time.Second, drift.Applied)
	assert.Equal(t, 20*time.Second, timer.Remaining())
	assert.False(t, expired)

	clock.Suspend(time.Hour)
	require.Error(t, timer.Resume())
	assert.True(t, expired, "resume past the deadline expires immediately")
}

func TestTimer_ResumeWithinTolerance(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, time.Minute, nil, nil)

	clock.Advance(5 * time.Second)
	clock.Suspend(time.Second)
	assert.NoError(t, timer.Resume())
}

func TestTimer_WallClockMovedBackwards(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, time.Minute, nil, nil)

	clock.mu.Lock()
	clock.wall = clock.wall.Add(-5 * time.Minute)
	clock.mono += 30 * time.Second
	clock.mu.Unlock()

	elapsed, _ := timer.Elapsed()
	assert.Equal(t, 30*time.Second, elapsed)
	assert.Equal(t, 30*time.Second, timer.Remaining())
}
