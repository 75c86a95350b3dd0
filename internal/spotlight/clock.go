package spotlight

import (
	"sync"
	"time"
)

// Clock provides the current time to the engine.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the monotonic wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a virtual clock that only moves when told to.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManualClock creates a virtual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{current: start}
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the virtual time forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Periodic reports when a fixed-period activity is due. Hosts that are driven
// by a single update callback (instead of tickers) use it to run the echo
// sampler and the inversion poller at their own cadence.
type Periodic struct {
	period time.Duration
	next   time.Time
}

// NewPeriodic creates a schedule that is first due at start.
func NewPeriodic(period time.Duration, start time.Time) *Periodic {
	return &Periodic{period: period, next: start}
}

// Due reports whether the activity should run at now and, if so, schedules
// the next run. Missed periods are skipped rather than replayed.
func (p *Periodic) Due(now time.Time) bool {
	if now.Before(p.next) {
		return false
	}
	p.next = p.next.Add(p.period)
	if !p.next.After(now) {
		p.next = now.Add(p.period)
	}
	return true
}
