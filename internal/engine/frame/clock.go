// Package frame provides the cooperative frame scheduler: a clock, a loop
// that runs one frame callback at a time with queued tasks drained between
// frames, and futures whose continuations run through that queue.
package frame

import (
	"sync"
	"time"
)

// Clock reports milliseconds elapsed since Start. Readings never decrease.
type Clock struct {
	mu    sync.Mutex
	now   func() time.Time
	start time.Time
	last  float64
}

// NewClock creates a clock reading the system monotonic time.
func NewClock() *Clock {
	return newClockWith(time.Now)
}

func newClockWith(now func() time.Time) *Clock {
	c := &Clock{now: now}
	c.start = now()
	return c
}

// Start resets the origin to now.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = c.now()
	c.last = 0
}

// Elapsed returns milliseconds since Start.
func (c *Clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := float64(c.now().Sub(c.start)) / float64(time.Millisecond)
	if ms < c.last {
		ms = c.last
	}
	c.last = ms
	return ms
}
