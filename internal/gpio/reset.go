package gpio

import "os"

// Env var written by the boot wrapper before the daemon starts. There is
// no portable last-reset-cause register on a Linux host, so the wrapper
// derives it (e.g. from the SoC's PM status) and hands it to us.
const envResetCause = "RESET_CAUSE"

// EnvResetSource reads the reset cause from the RESET_CAUSE environment
// variable. Unset means a normal power-on.
type EnvResetSource struct{}

// Cause maps RESET_CAUSE to a ResetCause.
func (EnvResetSource) Cause() ResetCause {
	switch os.Getenv(envResetCause) {
	case "", "power_on":
		return ResetPowerOn
	case "watchdog":
		return ResetWatchdog
	case "brownout":
		return ResetBrownout
	default:
		return ResetOther
	}
}

// StaticResetSource returns a fixed cause. Used in tests and for the
// -reset-cause override.
type StaticResetSource struct {
	C ResetCause
}

// Cause returns the fixed cause.
func (s StaticResetSource) Cause() ResetCause {
	return s.C
}
