package chart

import "sync/atomic"

// Clock is a monotonic logical clock stamping interactions.
//
// Sequence numbers order trace events without wall-clock time. The counter is
// atomic so a test goroutine may read it while the owning goroutine drives the
// chart.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
