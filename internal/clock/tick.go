// Package clock provides the monotonic tick counter used for all timing
// decisions. A 16-bit free-running hardware counter is extended to 32 bits
// in software across an asynchronous overflow event; everything else in the
// daemon only ever sees Tick values from Now().
package clock

// Tick is one increment of the monotonic clock. It wraps at 2^32;
// comparisons must go through After/Before/Reached, never raw subtraction.
type Tick uint32

// TicksPerSecond is the calibration constant for the tick rate.
// One tick is one microsecond.
const TicksPerSecond = 1_000_000

const microsPerSecond = 1_000_000

// After reports whether a is later than b. The tick space is circular with
// a 2^31-tick horizon: the result is correct whenever the true distance
// between a and b is under half the wraparound period, which always holds
// here because debounce timeouts are tiny compared to the period.
func After(a, b Tick) bool {
	return int32(b-a) < 0
}

// Before reports whether a is earlier than b.
func Before(a, b Tick) bool {
	return After(b, a)
}

// Reached reports whether now is at or past deadline.
func Reached(now, deadline Tick) bool {
	return int32(now-deadline) >= 0
}

// FromMicros converts microseconds to ticks, rounding half up.
func FromMicros(us uint32) Tick {
	return Tick((uint64(us)*TicksPerSecond + microsPerSecond/2) / microsPerSecond)
}

// FromMillis converts milliseconds to ticks, rounding half up.
func FromMillis(ms uint32) Tick {
	return Tick((uint64(ms)*TicksPerSecond + 500) / 1000)
}

// Micros converts a tick count to microseconds, rounding half up.
func (t Tick) Micros() uint32 {
	return uint32((uint64(t)*microsPerSecond + TicksPerSecond/2) / TicksPerSecond)
}

// Millis converts a tick count to milliseconds, rounding half up.
func (t Tick) Millis() uint32 {
	return uint32((uint64(t)*1000 + TicksPerSecond/2) / TicksPerSecond)
}
