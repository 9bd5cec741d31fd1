// Package goble implements the scan adapter contract on top of
// github.com/go-ble/ble.
package goble

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cornelk/hashmap"
	ble "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/srg/blequest/internal/adapter"
	"github.com/srg/blequest/internal/bleuuid"
	"github.com/srg/blequest/internal/groutine"
)

// DeviceFactory creates the underlying BLE device. It is a variable so tests
// can substitute a mock backend.
var DeviceFactory = func() (ble.Device, error) {
	return newPlatformDevice()
}

// Adapter drives one ble.Device. The radio is shared by everything holding
// the same Adapter instance; only one scan may be active at a time.
type Adapter struct {
	logger *logrus.Logger

	mu     sync.Mutex
	dev    ble.Device
	cancel context.CancelFunc
	done   chan struct{}

	listeners  *hashmap.Map[uint64, func(bool)]
	listenerID atomic.Uint64
}

// New creates an Adapter. The BLE device itself is opened lazily, on the
// first Enabled query or scan start.
func New(logger *logrus.Logger) *Adapter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Adapter{
		logger:    logger,
		listeners: hashmap.New[uint64, func(bool)](),
	}
}

// Enabled reports whether the radio can be opened. A Bluetooth-off condition
// is reported as false without error; any other failure is returned as-is.
func (a *Adapter) Enabled(_ context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.deviceLocked(); err != nil {
		if errors.Is(err, adapter.ErrBluetoothOff) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StartScan launches an asynchronous scan. OnStarted fires from the scan
// goroutine before any candidate; candidates outside the allowlist hint are
// dropped at this layer the way the radio itself would drop them.
func (a *Adapter) StartScan(allowlist []string, cb adapter.Callbacks) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return adapter.ErrScanActive
	}

	dev, err := a.deviceLocked()
	if err != nil {
		return err
	}

	allow := allowlistSet(allowlist)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	groutine.Go(ctx, "ble-scan", func(ctx context.Context) {
		if cb.OnStarted != nil {
			cb.OnStarted()
		}

		err := dev.Scan(ctx, true, func(adv ble.Advertisement) {
			if !allowlistPermits(allow, adv) {
				return
			}
			if cb.OnCandidate != nil {
				cb.OnCandidate(wrapAdvertisement(adv))
			}
		})

		// The scan has drained; unblock StopScan before reporting any
		// failure. OnError handlers are allowed to call StopScan, which
		// joins this goroutine via done.
		close(done)

		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			norm := NormalizeError(err)
			a.logger.WithError(norm).Warn("BLE scan terminated with error")
			if errors.Is(norm, adapter.ErrBluetoothOff) {
				a.publishEnabled(false)
			}
			if cb.OnError != nil {
				cb.OnError(norm)
			}
		}
	})

	a.logger.WithField("allowlist", allowlist).Debug("BLE scan launched")
	return nil
}

// StopScan cancels the active scan and blocks until the scan goroutine has
// drained, which is the backend's stop confirmation. No-op when idle.
func (a *Adapter) StopScan() error {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	a.logger.Debug("BLE scan stopped")
	return nil
}

// OnEnabledChanged registers a radio power transition listener.
func (a *Adapter) OnEnabledChanged(fn func(bool)) (cancel func()) {
	id := a.listenerID.Add(1)
	a.listeners.Set(id, fn)
	return func() {
		a.listeners.Del(id)
	}
}

// deviceLocked opens and caches the BLE device. Callers hold a.mu.
func (a *Adapter) deviceLocked() (ble.Device, error) {
	if a.dev != nil {
		return a.dev, nil
	}
	dev, err := DeviceFactory()
	if err != nil {
		return nil, &adapter.Error{Op: "open device", Err: NormalizeError(err)}
	}
	a.dev = dev
	a.publishEnabled(true)
	return dev, nil
}

func (a *Adapter) publishEnabled(enabled bool) {
	a.listeners.Range(func(_ uint64, fn func(bool)) bool {
		fn(enabled)
		return true
	})
}

// allowlistSet indexes canonical allowlist UUIDs for membership checks.
func allowlistSet(allowlist []string) map[string]struct{} {
	if len(allowlist) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowlist))
	for _, s := range allowlist {
		set[s] = struct{}{}
	}
	return set
}

// allowlistPermits applies the advisory scan-level service hint: with a
// non-empty allowlist, a candidate must advertise at least one listed
// service. Full filter evaluation still happens above this layer.
func allowlistPermits(allow map[string]struct{}, adv ble.Advertisement) bool {
	if allow == nil {
		return true
	}
	for _, svc := range adv.Services() {
		if canonical, err := bleuuid.Canonical(svc.String()); err == nil {
			if _, ok := allow[canonical]; ok {
				return true
			}
		}
	}
	return false
}
