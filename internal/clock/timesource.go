package clock

import (
	"sync/atomic"
	"time"
)

// TimerSource derives the 16-bit counter from the Go monotonic clock at
// TicksPerSecond. It stands in for the prescaled hardware timer: Low is the
// live register, and a wrap that has not been acknowledged yet shows up as
// a pending overflow.
type TimerSource struct {
	start time.Time
	acked atomic.Uint32 // completed wraps already applied to the high word
}

// NewTimerSource creates a TimerSource with its epoch at the current time.
func NewTimerSource() *TimerSource {
	return &TimerSource{start: time.Now()}
}

func (s *TimerSource) total() uint64 {
	return uint64(time.Since(s.start)) * TicksPerSecond / uint64(time.Second)
}

// Low returns the live 16-bit counter value.
func (s *TimerSource) Low() uint16 {
	return uint16(s.total())
}

// OverflowPending reports whether the counter has wrapped more times than
// have been acknowledged.
func (s *TimerSource) OverflowPending() bool {
	return s.acked.Load() != uint32(s.total()>>16)
}

// AcknowledgeOverflow consumes one pending wrap. More than one wrap can be
// pending after a long stall; each acknowledgement applies exactly one, so
// the Now retry loop drains the rest.
func (s *TimerSource) AcknowledgeOverflow() bool {
	wraps := uint32(s.total() >> 16)
	acked := s.acked.Load()
	if acked == wraps {
		return false
	}
	return s.acked.CompareAndSwap(acked, acked+1)
}
