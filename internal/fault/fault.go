// Package fault handles abnormal reset causes at boot. If the last reset
// was a watchdog expiry or a brown-out, the fail-safe outputs are forced
// asserted and the daemon must halt before the scan loop ever starts;
// recovery is an external power-cycle.
package fault

import (
	"github.com/sweeney/switch-debounce/internal/debounce"
	"github.com/sweeney/switch-debounce/internal/gpio"
)

// Abnormal reports whether the reset cause demands the fail-safe latch-up.
func Abnormal(cause gpio.ResetCause) bool {
	return cause == gpio.ResetWatchdog || cause == gpio.ResetBrownout
}

// ForceFailsafe writes every fail-safe output to its asserted electrical
// level, bypassing the aggregator's count bookkeeping entirely. All
// outputs are attempted even if some writes fail; the first error is
// returned.
func ForceFailsafe(w debounce.PinWriter, outputs []*debounce.OutputChannel) error {
	var first error
	for _, o := range outputs {
		if !o.Failsafe {
			continue
		}
		if err := w.Write(o.Pin, o.Level(true)); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Check inspects the last reset cause. On an abnormal cause it forces the
// fail-safe outputs and reports halt=true: the caller must halt permanently
// and never start the scanner.
func Check(src gpio.ResetSource, w debounce.PinWriter, outputs []*debounce.OutputChannel) (bool, error) {
	if !Abnormal(src.Cause()) {
		return false, nil
	}
	return true, ForceFailsafe(w, outputs)
}
