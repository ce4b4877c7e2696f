package engine

import "sync/atomic"

// Sequencer hands out strictly increasing seq numbers.
// *Clock is the production implementation.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for stamping stage steps.
//
// Every StageStep an Executor records gets a strictly increasing seq number.
// Steps from several runs that share one Clock therefore interleave in a
// single total order, which is what the run history store keys on.
// Wall-clock time is never used for ordering.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to resume numbering after the last step already stored.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
