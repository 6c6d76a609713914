//go:build linux

package gpio

import (
	"fmt"
	"os"

	"github.com/warthog618/go-gpiocdev"
)

// RealIO drives pins through the Linux GPIO character device.
type RealIO struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewRealIO opens the named GPIO chip (e.g. "gpiochip0").
func NewRealIO(chipName string) (*RealIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	return &RealIO{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

// ConfigureInput requests the pin as an input line. With pullup the
// internal pull-up bias is enabled; otherwise bias is left disabled so an
// external network defines the idle level.
func (r *RealIO) ConfigureInput(pin int, pullup bool) error {
	if _, ok := r.lines[pin]; ok {
		return fmt.Errorf("pin %d already configured", pin)
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	if pullup {
		opts = append(opts, gpiocdev.WithPullUp)
	} else {
		opts = append(opts, gpiocdev.WithBiasDisabled)
	}
	line, err := r.chip.RequestLine(pin, opts...)
	if err != nil {
		return fmt.Errorf("request input pin %d: %w", pin, err)
	}
	r.lines[pin] = line
	return nil
}

// ConfigureOutput requests the pin as an output line, initially low.
func (r *RealIO) ConfigureOutput(pin int) error {
	if _, ok := r.lines[pin]; ok {
		return fmt.Errorf("pin %d already configured", pin)
	}
	line, err := r.chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		return fmt.Errorf("request output pin %d: %w", pin, err)
	}
	r.lines[pin] = line
	return nil
}

// Read returns the raw electrical level of a configured pin.
func (r *RealIO) Read(pin int) (bool, error) {
	line, ok := r.lines[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v != 0, nil
}

// Write drives a configured pin to the given electrical level.
func (r *RealIO) Write(pin int, value bool) error {
	line, ok := r.lines[pin]
	if !ok {
		return fmt.Errorf("pin %d not configured", pin)
	}
	v := 0
	if value {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	return nil
}

// Close releases all requested lines and the chip.
func (r *RealIO) Close() error {
	var errs []error
	for pin, line := range r.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// FileWatchdog feeds a Linux watchdog device. Writing any byte resets the
// hardware timeout.
type FileWatchdog struct {
	f *os.File
}

// NewFileWatchdog opens the watchdog device (normally /dev/watchdog).
// Opening it arms the watchdog; the scan loop must kick it from then on.
func NewFileWatchdog(path string) (*FileWatchdog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open watchdog %s: %w", path, err)
	}
	return &FileWatchdog{f: f}, nil
}

// Kick resets the watchdog timeout. Write failures are ignored here; the
// watchdog biting is the failure path.
func (w *FileWatchdog) Kick() {
	w.f.Write([]byte{0})
}

// Close issues the magic close so the watchdog disarms cleanly.
func (w *FileWatchdog) Close() error {
	if _, err := w.f.Write([]byte("V")); err != nil {
		w.f.Close()
		return fmt.Errorf("disarm watchdog: %w", err)
	}
	return w.f.Close()
}
