package clock

import "sync"

// FakeSource is a scriptable counter source for tests. Advance moves the
// underlying tick count; OnLow, if set, runs inside Low before the value is
// taken, which lets a test fire an overflow in the middle of a Now sample.
type FakeSource struct {
	mu    sync.Mutex
	total uint64
	acked uint32

	OnLow func(f *FakeSource)
}

// NewFakeSource creates a FakeSource at tick zero.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// Advance moves the counter forward by n ticks.
func (f *FakeSource) Advance(n uint64) {
	f.mu.Lock()
	f.total += n
	f.mu.Unlock()
}

// Low returns the 16-bit counter value, running the OnLow hook first.
func (f *FakeSource) Low() uint16 {
	if f.OnLow != nil {
		hook := f.OnLow
		f.OnLow = nil // one shot
		hook(f)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint16(f.total)
}

// OverflowPending reports whether a wrap has not been acknowledged yet.
func (f *FakeSource) OverflowPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acked != uint32(f.total>>16)
}

// AcknowledgeOverflow consumes one pending wrap.
func (f *FakeSource) AcknowledgeOverflow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acked == uint32(f.total>>16) {
		return false
	}
	f.acked++
	return true
}
