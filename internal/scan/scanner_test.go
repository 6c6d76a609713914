package scan

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/switch-debounce/internal/clock"
	"github.com/sweeney/switch-debounce/internal/debounce"
	"github.com/sweeney/switch-debounce/internal/gpio"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// fixture wires two pulled-up limit inputs onto one shared output and one
// reference input onto its own output, mirroring the typical wiring table.
type fixture struct {
	io     *gpio.FakeIO
	src    *clock.FakeSource
	wd     *gpio.FakeWatchdog
	common *debounce.OutputChannel
	ref    *debounce.OutputChannel
	sc     *Scanner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fio := gpio.NewFakeIO()
	for _, pin := range []int{2, 3, 4} {
		if err := fio.ConfigureInput(pin, true); err != nil {
			t.Fatalf("ConfigureInput(%d): %v", pin, err)
		}
	}
	for _, pin := range []int{17, 27} {
		if err := fio.ConfigureOutput(pin); err != nil {
			t.Fatalf("ConfigureOutput(%d): %v", pin, err)
		}
	}

	common := &debounce.OutputChannel{Name: "limits_common", Pin: 17, Failsafe: true}
	ref := &debounce.OutputChannel{Name: "x_ref", Pin: 27, Failsafe: true}
	conns := []*debounce.Connection{
		{Name: "x_limit_pos", Input: debounce.InputChannel{Pin: 2, Pullup: true}, Out: common, Active: 150, Dwell: 100000},
		{Name: "x_limit_neg", Input: debounce.InputChannel{Pin: 3, Pullup: true}, Out: common, Active: 150, Dwell: 100000},
		{Name: "x_ref", Input: debounce.InputChannel{Pin: 4, Pullup: true}, Out: ref, Active: 150, Dwell: 100000},
	}

	src := clock.NewFakeSource()
	wd := &gpio.FakeWatchdog{}
	agg := debounce.NewAggregator(fio)
	sc := New(fio, clock.New(src), agg, conns, wd, testLogger())
	return &fixture{io: fio, src: src, wd: wd, common: common, ref: ref, sc: sc}
}

func TestPassKicksWatchdogPerConnection(t *testing.T) {
	f := newFixture(t)

	f.sc.Pass()
	if f.wd.Kicks != 3 {
		t.Errorf("kicks = %d, want one per connection (3)", f.wd.Kicks)
	}
	if f.sc.Passes() != 1 {
		t.Errorf("passes = %d, want 1", f.sc.Passes())
	}
}

func TestPassDebouncesAndDrivesSharedOutput(t *testing.T) {
	f := newFixture(t)

	// Idle pass: pulled-up pins read high, nothing asserts.
	f.sc.Pass()
	if f.io.Outputs[17] || f.io.Outputs[27] {
		t.Fatal("outputs driven while idle")
	}

	// Ground the X+ limit switch and hold past the active time.
	f.io.Inputs[2] = false
	f.src.Advance(10)
	f.sc.Pass()
	if f.common.Asserted() {
		t.Fatal("asserted before active time elapsed")
	}
	f.src.Advance(200)
	f.sc.Pass()
	if !f.common.Asserted() {
		t.Fatal("expected limit assertion after active time")
	}
	if !f.io.Outputs[17] {
		t.Error("shared output pin not driven")
	}
	if f.io.Outputs[27] {
		t.Error("unrelated output driven")
	}
	if f.sc.Transitions() != 1 {
		t.Errorf("transitions = %d, want 1", f.sc.Transitions())
	}

	// Second limit grounds too: count rises, pin already driven.
	f.io.Inputs[3] = false
	f.src.Advance(10)
	f.sc.Pass()
	f.src.Advance(200)
	f.sc.Pass()
	if f.common.AssertCount() != 2 {
		t.Errorf("assert count = %d, want 2", f.common.AssertCount())
	}

	// Both release; output drops only after the dwell time.
	f.io.Inputs[2] = true
	f.io.Inputs[3] = true
	f.src.Advance(10)
	f.sc.Pass()
	if !f.io.Outputs[17] {
		t.Error("output dropped before dwell elapsed")
	}
	f.src.Advance(200000)
	f.sc.Pass()
	if f.common.AssertCount() != 0 {
		t.Errorf("assert count = %d, want 0", f.common.AssertCount())
	}
	if f.io.Outputs[17] {
		t.Error("output still driven after all released")
	}
}

func TestPassScanOrderIsConfigurationOrder(t *testing.T) {
	f := newFixture(t)

	// Ground all three and let them all assert on the same pass: the
	// write log must show the shared output first (connections 1 and 2),
	// then the reference output.
	f.io.Inputs[2] = false
	f.io.Inputs[3] = false
	f.io.Inputs[4] = false
	f.sc.Pass()
	f.src.Advance(200)
	f.sc.Pass()

	if len(f.io.Writes) != 2 {
		t.Fatalf("expected 2 output writes, got %+v", f.io.Writes)
	}
	if f.io.Writes[0].Pin != 17 || f.io.Writes[1].Pin != 27 {
		t.Errorf("writes out of configuration order: %+v", f.io.Writes)
	}
}

func TestPassContinuesPastReadErrors(t *testing.T) {
	f := newFixture(t)
	f.io.ReadErr = errors.New("bus fault")

	f.sc.Pass()
	// The watchdog must still be fed once per connection, or a transient
	// bus fault would turn into a watchdog reset.
	if f.wd.Kicks != 3 {
		t.Errorf("kicks = %d, want 3 despite read errors", f.wd.Kicks)
	}
	if f.sc.Transitions() != 0 {
		t.Errorf("transitions = %d, want 0", f.sc.Transitions())
	}

	// Errors clear: scanning picks up where it left off.
	f.io.ReadErr = nil
	f.io.Inputs[2] = false
	f.sc.Pass()
	f.src.Advance(200)
	f.sc.Pass()
	if !f.common.Asserted() {
		t.Error("expected assertion after read errors cleared")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.sc.Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if f.sc.Passes() == 0 {
		t.Error("expected at least one pass before cancellation")
	}
}
