package game

import "time"

// Cooldown gates an action so that two successive triggers are more than
// Interval apart. The gate is open until the first trigger.
type Cooldown struct {
	Interval time.Duration
	last     time.Duration
	armed    bool
}

// Ready returns true if the action may be triggered at now
func (c *Cooldown) Ready(now time.Duration) bool {
	return !c.armed || now-c.last > c.Interval
}

// Trigger records an action at now if the gate is open and reports whether it did
func (c *Cooldown) Trigger(now time.Duration) bool {
	if !c.Ready(now) {
		return false
	}
	c.last = now
	c.armed = true
	return true
}

// Last returns the time of the last trigger and whether there was one
func (c *Cooldown) Last() (time.Duration, bool) {
	return c.last, c.armed
}
