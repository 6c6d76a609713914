package fault

import (
	"testing"

	"github.com/sweeney/switch-debounce/internal/debounce"
	"github.com/sweeney/switch-debounce/internal/gpio"
)

func testOutputs() []*debounce.OutputChannel {
	return []*debounce.OutputChannel{
		{Name: "limits_common", Pin: 17, Failsafe: true},
		{Name: "x_ref", Pin: 27, Invert: true, Failsafe: true},
		{Name: "indicator", Pin: 22, Failsafe: false},
	}
}

func testIO(t *testing.T) *gpio.FakeIO {
	t.Helper()
	fio := gpio.NewFakeIO()
	for _, pin := range []int{17, 27, 22} {
		if err := fio.ConfigureOutput(pin); err != nil {
			t.Fatalf("ConfigureOutput(%d): %v", pin, err)
		}
	}
	return fio
}

func TestAbnormal(t *testing.T) {
	tests := []struct {
		cause gpio.ResetCause
		want  bool
	}{
		{gpio.ResetPowerOn, false},
		{gpio.ResetWatchdog, true},
		{gpio.ResetBrownout, true},
		{gpio.ResetOther, false},
	}
	for _, tt := range tests {
		if got := Abnormal(tt.cause); got != tt.want {
			t.Errorf("Abnormal(%v) = %v, want %v", tt.cause, got, tt.want)
		}
	}
}

func TestForceFailsafeDrivesAssertedLevels(t *testing.T) {
	fio := testIO(t)
	outs := testOutputs()

	if err := ForceFailsafe(fio, outs); err != nil {
		t.Fatalf("ForceFailsafe: %v", err)
	}

	if !fio.Outputs[17] {
		t.Error("fail-safe output 17 should be driven high")
	}
	// Inverted output asserts low.
	if fio.Outputs[27] {
		t.Error("inverted fail-safe output 27 should be driven low")
	}
	// Non-failsafe outputs are left alone.
	for _, w := range fio.Writes {
		if w.Pin == 22 {
			t.Error("non-failsafe output must not be touched")
		}
	}
}

func TestCheckWatchdogCauseHalts(t *testing.T) {
	fio := testIO(t)
	outs := testOutputs()

	halt, err := Check(gpio.StaticResetSource{C: gpio.ResetWatchdog}, fio, outs)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !halt {
		t.Fatal("watchdog reset must halt")
	}
	if !fio.Outputs[17] {
		t.Error("fail-safe outputs not forced before halt")
	}
}

func TestCheckPowerOnProceeds(t *testing.T) {
	fio := testIO(t)
	outs := testOutputs()

	halt, err := Check(gpio.StaticResetSource{C: gpio.ResetPowerOn}, fio, outs)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if halt {
		t.Fatal("power-on reset must proceed to the scanner")
	}
	if len(fio.Writes) != 0 {
		t.Errorf("no outputs should be forced on power-on, got %+v", fio.Writes)
	}
}

func TestForceFailsafeAttemptsAllOnError(t *testing.T) {
	fio := testIO(t)
	fio.WriteErr = errTest
	outs := testOutputs()

	if err := ForceFailsafe(fio, outs); err == nil {
		t.Error("expected the write error to surface")
	}
}

var errTest = errForce("forced write failure")

type errForce string

func (e errForce) Error() string { return string(e) }
