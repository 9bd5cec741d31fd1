package testutils

import (
	"context"
	"sync"

	"github.com/srg/blequest/internal/adapter"
)

// FakeAdapter is a scripted, radio-free adapter.Adapter. Tests queue
// candidates up front or push them with Deliver while a scan is active, and
// assert on the recorded start/stop call counts.
type FakeAdapter struct {
	mu sync.Mutex

	enabled    bool
	enabledErr error
	startErr   error

	scanning   bool
	cb         adapter.Callbacks
	startCalls int
	stopCalls  int

	queued  []adapter.Advertisement
	started chan struct{}

	listeners  map[uint64]func(bool)
	listenerID uint64

	// LastAllowlist records the hint passed to the most recent StartScan.
	LastAllowlist []string
}

// NewFakeAdapter creates an enabled fake with no queued candidates.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{
		enabled:   true,
		started:   make(chan struct{}, 1),
		listeners: make(map[uint64]func(bool)),
	}
}

// FailNextStart makes the next StartScan return err synchronously.
func (f *FakeAdapter) FailNextStart(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr = err
}

// QueueCandidates schedules candidates for delivery right after the next
// scan starts, in order, from the scan goroutine.
func (f *FakeAdapter) QueueCandidates(advs ...adapter.Advertisement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, advs...)
}

// Enabled implements adapter.Adapter.
func (f *FakeAdapter) Enabled(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled, f.enabledErr
}

// StartScan implements adapter.Adapter. OnStarted fires synchronously;
// queued candidates are delivered from a separate goroutine, in order.
func (f *FakeAdapter) StartScan(allowlist []string, cb adapter.Callbacks) error {
	f.mu.Lock()
	f.startCalls++
	f.LastAllowlist = allowlist
	if f.startErr != nil {
		err := f.startErr
		f.startErr = nil
		f.mu.Unlock()
		return err
	}
	f.scanning = true
	f.cb = cb
	queued := f.queued
	f.queued = nil
	f.mu.Unlock()

	if cb.OnStarted != nil {
		cb.OnStarted()
	}
	select {
	case f.started <- struct{}{}:
	default:
	}

	if len(queued) > 0 {
		go func() {
			for _, adv := range queued {
				f.Deliver(adv)
			}
		}()
	}
	return nil
}

// StopScan implements adapter.Adapter, recording the call count.
func (f *FakeAdapter) StopScan() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.scanning = false
	f.cb = adapter.Callbacks{}
	return nil
}

// OnEnabledChanged implements adapter.Adapter.
func (f *FakeAdapter) OnEnabledChanged(fn func(bool)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listenerID++
	id := f.listenerID
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Deliver pushes one candidate into the active scan. Dropped silently when
// no scan is running, like a radio whose events arrive after teardown.
func (f *FakeAdapter) Deliver(adv adapter.Advertisement) {
	f.mu.Lock()
	cb := f.cb
	scanning := f.scanning
	f.mu.Unlock()

	if !scanning || cb.OnCandidate == nil {
		return
	}
	cb.OnCandidate(adv)
}

// FailScan reports an asynchronous scan failure through OnError. The error
// is delivered from its own goroutine, matching how a real backend reports
// failures from its scan machinery rather than from the caller's frame.
func (f *FakeAdapter) FailScan(err error) {
	f.mu.Lock()
	cb := f.cb
	f.scanning = false
	f.cb = adapter.Callbacks{}
	f.mu.Unlock()

	if cb.OnError != nil {
		go cb.OnError(err)
	}
}

// SetEnabled flips the radio state and notifies subscribers.
func (f *FakeAdapter) SetEnabled(enabled bool) {
	f.mu.Lock()
	f.enabled = enabled
	fns := make([]func(bool), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(enabled)
	}
}

// Started signals once per scan start, after OnStarted has fired.
func (f *FakeAdapter) Started() <-chan struct{} { return f.started }

// StartCalls returns how many times StartScan was invoked.
func (f *FakeAdapter) StartCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls
}

// StopCalls returns how many times StopScan was invoked.
func (f *FakeAdapter) StopCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalls
}

// IsScanning reports whether a scan is currently active.
func (f *FakeAdapter) IsScanning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanning
}
