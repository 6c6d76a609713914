// Package debounce contains the per-connection debounce state machine and
// the shared-output assertion aggregator. This package is pure logic: no
// GPIO, no OS, no wall clock. Time is always injected as clock.Tick values.
package debounce

import "github.com/sweeney/switch-debounce/internal/clock"

// State is the debounced state of a connection.
type State uint8

const (
	Deasserted State = iota
	Asserted
)

func (s State) String() string {
	if s == Asserted {
		return "asserted"
	}
	return "deasserted"
}

// InputChannel describes one debounced input pin. Immutable after
// construction; runtime state lives on the Connection.
type InputChannel struct {
	Pin    int
	Pullup bool
	Invert bool
}

// Normalize converts a raw electrical level to a logical asserted flag.
// A pulled-up input is active low, and the user invert flips on top.
func (in InputChannel) Normalize(raw bool) bool {
	asserted := raw
	if in.Pullup {
		asserted = !asserted
	}
	if in.Invert {
		asserted = !asserted
	}
	return asserted
}

// OutputChannel is one physical output pin, possibly shared by several
// connections. The assertion count is mutated only by the Aggregator.
type OutputChannel struct {
	Name     string
	Pin      int
	Invert   bool
	Failsafe bool

	asserts uint
}

// Asserted reports whether any connection currently asserts this output.
func (o *OutputChannel) Asserted() bool {
	return o.asserts > 0
}

// AssertCount returns the number of connections currently asserting this
// output.
func (o *OutputChannel) AssertCount() uint {
	return o.asserts
}

// Level returns the electrical level for a logical asserted flag.
func (o *OutputChannel) Level(asserted bool) bool {
	if o.Invert {
		return !asserted
	}
	return asserted
}

// Connection pairs one input channel with a shared output channel plus its
// debounce state. Active is the minimum continuous assertion before a new
// assertion is believed; Dwell is the hold time after the input releases.
type Connection struct {
	Name   string
	Input  InputChannel
	Out    *OutputChannel
	Active clock.Tick
	Dwell  clock.Tick

	state    State
	deadline clock.Tick
	primed   bool
}

// State returns the connection's current debounced state.
func (c *Connection) State() State {
	return c.state
}
