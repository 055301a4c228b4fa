package session

import (
	"sync"
	"time"
)

// DriftTolerance is how far the wall and monotonic clocks may disagree
// before Resume reports a ClockDriftError.
const DriftTolerance = 2 * time.Second

// DefaultTickInterval is the cadence of remaining-time callbacks.
const DefaultTickInterval = time.Second

// DeriveTimeLimit returns the session budget in seconds.
func DeriveTimeLimit(itemCount, perItemSeconds int) int {
	if itemCount < 0 || perItemSeconds < 0 {
		return 0
	}
	return itemCount * perItemSeconds
}

// Clock supplies both clock readings the timer compares.
type Clock interface {
	// Now returns the wall clock time with no monotonic reading.
	Now() time.Time

	// Monotonic returns a reading that only moves forward while the
	// process is running. It may stall while the host is suspended.
	Monotonic() time.Duration
}

// SystemClock reads the host clocks.
type SystemClock struct{}

var processStart = time.Now()

func (SystemClock) Now() time.Time { return time.Now().Round(0) }

func (SystemClock) Monotonic() time.Duration { return time.Since(processStart) }

// Timer counts down from an absolute deadline. Remaining time is always
// recomputed from the start anchor, never decremented, so missed ticks and
// host suspension cannot stretch the budget.
type Timer struct {
	clock     Clock
	startWall time.Time
	startMono time.Duration
	limit     time.Duration

	onTick   func(remaining time.Duration)
	onExpire func()

	mu      sync.Mutex
	fired   bool
	stopped bool
	stop    chan struct{}
}

// NewTimer anchors a countdown at the clock's current readings.
func NewTimer(clock Clock, limit time.Duration, onTick func(time.Duration), onExpire func()) *Timer {
	return &Timer{
		clock:     clock,
		startWall: clock.Now(),
		startMono: clock.Monotonic(),
		limit:     limit,
		onTick:    onTick,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
	}
}

// StartedAt returns the wall-clock anchor.
func (t *Timer) StartedAt() time.Time {
	return t.startWall
}

// Limit returns the total budget.
func (t *Timer) Limit() time.Duration {
	return t.limit
}

// Elapsed returns the larger of wall and monotonic elapsed time, and the
// absolute difference between them.
func (t *Timer) Elapsed() (elapsed, drift time.Duration) {
	wall := t.clock.Now().Sub(t.startWall)
	mono := t.clock.Monotonic() - t.startMono
	if wall > mono {
		return wall, wall - mono
	}
	return mono, mono - wall
}

// Remaining returns the time left, floored at zero.
func (t *Timer) Remaining() time.Duration {
	elapsed, _ := t.Elapsed()
	if r := t.limit - elapsed; r > 0 {
		return r
	}
	return 0
}

// Poll checks the deadline and fires the tick or expiry callback. Expiry
// fires at most once; nothing fires after Stop.
func (t *Timer) Poll() time.Duration {
	remaining := t.Remaining()

	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return remaining
	}
	expire := remaining == 0
	if expire {
		t.fired = true
	}
	t.mu.Unlock()

	if expire {
		if t.onExpire != nil {
			t.onExpire()
		}
		return 0
	}
	if t.onTick != nil {
		t.onTick(remaining)
	}
	return remaining
}

// Resume re-checks the deadline after the process was paused or the host
// slept. When the clocks disagree by more than DriftTolerance it returns a
// ClockDriftError; the larger elapsed time has already been applied.
func (t *Timer) Resume() error {
	elapsed, drift := t.Elapsed()
	t.Poll()
	if drift > DriftTolerance {
		return &ClockDriftError{Drift: drift, Applied: elapsed}
	}
	return nil
}

// Run polls every interval on a new goroutine until Stop or expiry.
func (t *Timer) Run(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				if t.Poll() == 0 {
					return
				}
			}
		}
	}()
}

// Stop cancels the countdown. Safe to call more than once and from inside
// a callback.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
}

// Expired reports whether the expiry callback has fired.
func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}
