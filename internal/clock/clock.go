package clock

import "sync/atomic"

// Source is the free-running 16-bit hardware counter behind the clock.
// Low returns the live register value; OverflowPending reports whether the
// counter has wrapped since the last acknowledgement; AcknowledgeOverflow
// atomically clears one pending overflow and reports whether one was set.
type Source interface {
	Low() uint16
	OverflowPending() bool
	AcknowledgeOverflow() bool
}

// Clock extends a Source to an overflow-safe 32-bit tick counter.
//
// The high word counts completed 16-bit wraps and is the only state shared
// between the overflow event context and the polling context. The overflow
// handler's sole effect is one atomic increment of it.
type Clock struct {
	src  Source
	high atomic.Uint32
}

// New creates a Clock over the given counter source.
func New(src Source) *Clock {
	return &Clock{src: src}
}

// HandleOverflow is the asynchronous overflow event handler. It applies at
// most one pending overflow: acknowledge, then bump the high word. Bounded,
// constant time, no other side effects.
func (c *Clock) HandleOverflow() {
	if c.src.AcknowledgeOverflow() {
		c.high.Add(1)
	}
}

// Now returns the current tick, monotonically non-decreasing modulo 2^32.
//
// Reading a multi-word counter while the overflow event can fire mid-read
// is inherently racy, so Now samples high then low, re-checks whether an
// overflow became pending in that window, applies the pending increment
// itself if so, and retries the sample. A high word that moved under the
// read also forces a retry.
func (c *Clock) Now() Tick {
	for {
		high := c.high.Load()
		low := c.src.Low()
		if c.src.OverflowPending() {
			c.HandleOverflow()
			continue
		}
		if c.high.Load() != high {
			continue
		}
		return Tick(high<<16 | uint32(low))
	}
}
