// Package gpio provides single-bit digital I/O with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// IO is the pin-level hardware boundary. Configure calls are made once
// during initialization; Read and Write are the per-scan operations.
type IO interface {
	// ConfigureInput sets the pin as a digital input, optionally with the
	// internal pull-up enabled.
	ConfigureInput(pin int, pullup bool) error

	// ConfigureOutput sets the pin as a digital output.
	ConfigureOutput(pin int) error

	// Read returns the raw electrical level of an input pin.
	Read(pin int) (bool, error)

	// Write drives an output pin to the given electrical level.
	Write(pin int, value bool) error

	// Close releases all requested pins.
	Close() error
}

// Watchdog receives liveness signals from the scan loop. Kick must be
// called more often than the watchdog's configured timeout.
type Watchdog interface {
	Kick()
}

// NopWatchdog is used when watchdog feeding is disabled.
type NopWatchdog struct{}

// Kick does nothing.
func (NopWatchdog) Kick() {}

// ResetCause identifies why the device last reset.
type ResetCause int

const (
	ResetPowerOn ResetCause = iota
	ResetWatchdog
	ResetBrownout
	ResetOther
)

func (c ResetCause) String() string {
	switch c {
	case ResetPowerOn:
		return "power_on"
	case ResetWatchdog:
		return "watchdog"
	case ResetBrownout:
		return "brownout"
	default:
		return "other"
	}
}

// ResetSource reports the cause of the last reset. Read once at boot.
type ResetSource interface {
	Cause() ResetCause
}
