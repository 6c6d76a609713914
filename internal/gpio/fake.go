package gpio

import "fmt"

// PinWrite records one Write call in order.
type PinWrite struct {
	Pin   int
	Value bool
}

// FakeIO is a test double holding pin state in maps.
type FakeIO struct {
	// Inputs holds the raw electrical level of each input pin. Tests
	// mutate it between scans.
	Inputs map[int]bool

	// Outputs holds the last written level per output pin.
	Outputs map[int]bool

	// Writes is the ordered log of every Write call.
	Writes []PinWrite

	// Pullups records the pullup flag passed to ConfigureInput.
	Pullups map[int]bool

	outputPins map[int]bool

	// ReadErr, if set, is returned by every Read.
	ReadErr error

	// WriteErr, if set, is returned by every Write.
	WriteErr error

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeIO creates an empty FakeIO.
func NewFakeIO() *FakeIO {
	return &FakeIO{
		Inputs:     make(map[int]bool),
		Outputs:    make(map[int]bool),
		Pullups:    make(map[int]bool),
		outputPins: make(map[int]bool),
	}
}

// ConfigureInput records the pin as an input with its pullup flag.
func (f *FakeIO) ConfigureInput(pin int, pullup bool) error {
	if f.outputPins[pin] {
		return fmt.Errorf("pin %d already configured as output", pin)
	}
	if _, ok := f.Pullups[pin]; ok {
		return fmt.Errorf("pin %d already configured", pin)
	}
	f.Pullups[pin] = pullup
	if _, ok := f.Inputs[pin]; !ok {
		// Idle level: pulled-up pins read high, others low.
		f.Inputs[pin] = pullup
	}
	return nil
}

// ConfigureOutput records the pin as an output, initially low.
func (f *FakeIO) ConfigureOutput(pin int) error {
	if f.outputPins[pin] {
		return fmt.Errorf("pin %d already configured", pin)
	}
	f.outputPins[pin] = true
	f.Outputs[pin] = false
	return nil
}

// Read returns the scripted level for the pin.
func (f *FakeIO) Read(pin int) (bool, error) {
	if f.ReadErr != nil {
		return false, f.ReadErr
	}
	v, ok := f.Inputs[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	return v, nil
}

// Write records the level and appends to the write log.
func (f *FakeIO) Write(pin int, value bool) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	if !f.outputPins[pin] {
		return fmt.Errorf("pin %d not configured as output", pin)
	}
	f.Outputs[pin] = value
	f.Writes = append(f.Writes, PinWrite{Pin: pin, Value: value})
	return nil
}

// Close marks the fake as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// FakeWatchdog counts kicks.
type FakeWatchdog struct {
	Kicks int
}

// Kick increments the kick counter.
func (w *FakeWatchdog) Kick() {
	w.Kicks++
}
