package app

import (
	"time"

	"github.com/loov/hrtime"
)

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

type hrClock struct {
	start time.Duration
}

// NewClock returns a high-resolution clock that starts at zero.
func NewClock() Clock {
	return &hrClock{start: hrtime.Now()}
}

func (c *hrClock) Now() time.Duration { return hrtime.Now() - c.start }

// ManualClock is a Clock advanced by hand.
type ManualClock struct {
	T time.Duration
}

// Now returns T.
func (c *ManualClock) Now() time.Duration { return c.T }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.T += d }
