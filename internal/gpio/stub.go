//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealIO is not available on non-Linux platforms.
type RealIO struct{}

// NewRealIO returns an error on non-Linux platforms.
func NewRealIO(chipName string) (*RealIO, error) {
	return nil, errUnsupported
}

func (r *RealIO) ConfigureInput(pin int, pullup bool) error { return errUnsupported }
func (r *RealIO) ConfigureOutput(pin int) error             { return errUnsupported }
func (r *RealIO) Read(pin int) (bool, error)                { return false, errUnsupported }
func (r *RealIO) Write(pin int, value bool) error           { return errUnsupported }
func (r *RealIO) Close() error                              { return nil }

// FileWatchdog is not available on non-Linux platforms.
type FileWatchdog struct{}

// NewFileWatchdog returns an error on non-Linux platforms.
func NewFileWatchdog(path string) (*FileWatchdog, error) {
	return nil, errUnsupported
}

func (w *FileWatchdog) Kick()        {}
func (w *FileWatchdog) Close() error { return nil }
