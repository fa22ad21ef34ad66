package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant a DeterministicClock created with a
// zero start returns.
var DefaultEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// DeterministicClock hands out value datetimes for instructions that do not
// carry one. Every instant is UTC and strictly later than the previous one.
//
// DeterministicClock can be reset for test reuse, so the same scenario run
// twice assigns identical datetimes.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	ticks int64
}

// NewDeterministicClock creates a clock whose first Next returns start and
// which advances by step on every call. A zero start uses DefaultEpoch and a
// non-positive step uses one hour.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	if start.IsZero() {
		start = DefaultEpoch
	}
	if step <= 0 {
		step = time.Hour
	}
	return &DeterministicClock{start: start.UTC(), step: step}
}

// Next returns the next instant and advances the clock.
func (c *DeterministicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.ticks) * c.step)
	c.ticks++
	return t
}

// Current returns the instant the last Next returned, or the zero time if
// Next has not been called.
func (c *DeterministicClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticks == 0 {
		return time.Time{}
	}
	return c.start.Add(time.Duration(c.ticks-1) * c.step)
}

// AdvanceTo moves the clock so the next call to Next returns an instant
// strictly after t. It never moves the clock backwards.
func (c *DeterministicClock) AdvanceTo(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.start.Add(time.Duration(c.ticks) * c.step).After(t) {
		c.ticks++
	}
}

// Reset rewinds the clock. After Reset, Next returns the start instant.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
