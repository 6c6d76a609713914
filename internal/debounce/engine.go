package debounce

import "github.com/sweeney/switch-debounce/internal/clock"

// Scan advances the connection's state machine by one sample. raw is the
// input pin's electrical level at tick now. Returns whether the connection
// transitioned, and the aggregator's pin-write error if it did.
//
// The deadline is an absolute tick compared with wraparound-safe ordering,
// never a countdown: lost or late scan passes self-correct, and nothing
// here needs to synchronize with the clock's overflow event.
func (c *Connection) Scan(now clock.Tick, raw bool, agg *Aggregator) (bool, error) {
	asserted := c.Input.Normalize(raw)

	if !c.primed {
		c.primed = true
		c.deadline = now + c.Active
	}

	switch c.state {
	case Deasserted:
		if !asserted {
			// Keep pushing the deadline out: the input must stay
			// asserted for a full Active window to be believed.
			c.deadline = now + c.Active
			return false, nil
		}
		if !clock.Reached(now, c.deadline) {
			return false, nil
		}
		c.state = Asserted
		c.deadline = now + c.Dwell
		return true, agg.Increment(c.Out)

	case Asserted:
		if asserted {
			// Input still live: hold for Dwell past the last sighting.
			c.deadline = now + c.Dwell
			return false, nil
		}
		if !clock.Reached(now, c.deadline) {
			return false, nil
		}
		c.state = Deasserted
		c.deadline = now + c.Active
		return true, agg.Decrement(c.Out)
	}
	return false, nil
}
