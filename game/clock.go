package game

import "time"

// Clock supplies monotonic time elapsed since the start of a round
type Clock interface {
	Elapsed() time.Duration
}

// SystemClock reads the process monotonic clock
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock that starts at zero now
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Elapsed implements Clock
func (c *SystemClock) Elapsed() time.Duration {
	return time.Since(c.start)
}

// ManualClock is advanced explicitly. Used by tests and replays.
type ManualClock struct {
	now time.Duration
}

// Elapsed implements Clock
func (c *ManualClock) Elapsed() time.Duration {
	return c.now
}

// Set moves the clock to an absolute elapsed time
func (c *ManualClock) Set(d time.Duration) {
	c.now = d
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
}
