package game

import (
	"testing"
	"time"
)

func TestCooldownOpenUntilFirstTrigger(t *testing.T) {
	c := Cooldown{Interval: time.Second}
	if _, ok := c.Last(); ok {
		t.Error("new cooldown should have no last trigger")
	}
	if !c.Ready(0) {
		t.Error("new cooldown should be ready at zero")
	}
	if !c.Trigger(0) {
		t.Fatal("first trigger should fire")
	}
	if last, ok := c.Last(); !ok || last != 0 {
		t.Errorf("expected last=0, got %v %v", last, ok)
	}
}

func TestCooldownStrictInterval(t *testing.T) {
	c := Cooldown{Interval: 500 * time.Millisecond}
	c.Trigger(time.Second)

	tests := []struct {
		at   time.Duration
		want bool
	}{
		{time.Second, false},
		{1499 * time.Millisecond, false},
		{1500 * time.Millisecond, false},
		{1501 * time.Millisecond, true},
	}
	for _, tt := range tests {
		if got := c.Ready(tt.at); got != tt.want {
			t.Errorf("Ready(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestCooldownZeroInterval(t *testing.T) {
	c := Cooldown{}
	c.Trigger(0)
	if c.Trigger(0) {
		t.Error("same instant should not fire twice")
	}
	if !c.Trigger(time.Nanosecond) {
		t.Error("any later instant should fire")
	}
}

func TestManualClock(t *testing.T) {
	var c ManualClock
	c.Advance(3 * time.Second)
	c.Advance(time.Second)
	if c.Elapsed() != 4*time.Second {
		t.Errorf("expected 4s, got %v", c.Elapsed())
	}
	c.Set(time.Millisecond)
	if c.Elapsed() != time.Millisecond {
		t.Errorf("expected 1ms, got %v", c.Elapsed())
	}
}
