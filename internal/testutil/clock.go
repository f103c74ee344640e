// Package testutil provides deterministic fakes for engine and queue
// tests: a manually advanced wall clock, scripted submitters, and stub
// gateway collaborators.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a settable wall clock for tests.
//
// Unlike engine.SystemClock it never reads the host time: tests place it
// at an exact civil instant ("2025-03-10 08:00:00 in the terminal zone")
// and advance it explicitly, so window and duration rules are exercised at
// their precise boundaries.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex (the queue's Run loop may read it while the test advances it).
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock pinned at the given instant.
func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

// At is a convenience constructor: a clock at "HH:MM:SS" on an arbitrary
// fixed day in the local test zone.
func At(hhmmss string) *ManualClock {
	t, err := time.Parse("2006-01-02 15:04:05", "2025-03-10 "+hhmmss)
	if err != nil {
		panic("testutil.At: " + err.Error())
	}
	return NewManualClock(t)
}

// Now implements engine.Clock and queue.Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to an absolute instant.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SetTimeOfDay moves the clock to "HH:MM:SS" on its current day.
func (c *ManualClock) SetTimeOfDay(hhmmss string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := time.Parse("2006-01-02 15:04:05", c.now.Format("2006-01-02")+" "+hhmmss)
	if err != nil {
		panic("testutil.SetTimeOfDay: " + err.Error())
	}
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NextDay moves the clock to 00:00:01 of the following day, crossing the
// ledger's midnight rollover boundary.
func (c *ManualClock) NextDay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	midnight := time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 1, 0, c.now.Location())
	c.now = midnight.AddDate(0, 0, 1)
}
