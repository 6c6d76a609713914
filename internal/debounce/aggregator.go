package debounce

import "fmt"

// PinWriter drives a single output pin. Satisfied by gpio.IO.
type PinWriter interface {
	Write(pin int, value bool) error
}

// Aggregator reference-counts assertions on shared outputs. Several
// connections may OR into one output; the physical pin is written only on
// the 0->1 and 1->0 edges of the count, so a shared output is driven
// exactly once per net change.
type Aggregator struct {
	w PinWriter
}

// NewAggregator creates an Aggregator writing through w.
func NewAggregator(w PinWriter) *Aggregator {
	return &Aggregator{w: w}
}

// Increment records one more connection asserting out, driving the pin if
// the count just left zero.
func (a *Aggregator) Increment(out *OutputChannel) error {
	out.asserts++
	if out.asserts == 1 {
		return a.w.Write(out.Pin, out.Level(true))
	}
	return nil
}

// Decrement records one fewer connection asserting out, releasing the pin
// if the count just reached zero. Every Decrement must be paired with a
// prior Increment by the same connection; an underflow is a logic defect,
// not a runtime condition, so it panics.
func (a *Aggregator) Decrement(out *OutputChannel) error {
	if out.asserts == 0 {
		panic(fmt.Sprintf("debounce: assertion count underflow on output %q", out.Name))
	}
	out.asserts--
	if out.asserts == 0 {
		return a.w.Write(out.Pin, out.Level(false))
	}
	return nil
}
