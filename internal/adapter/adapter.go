// Package adapter defines the capability contract consumed by the device
// request controller: a low-level scanning backend that owns the radio and
// delivers discovered candidates through callbacks.
package adapter

import (
	"context"
	"errors"
	"fmt"
)

// Advertisement is one candidate record reported by a scanning backend.
// The record is transient; callers that keep a candidate past the scan must
// copy what they need or hold the Advertisement itself as an opaque handle.
type Advertisement interface {
	// LocalName returns the advertised device name, empty when the candidate
	// did not advertise one.
	LocalName() string
	// Services returns the advertised service UUIDs in backend format.
	Services() []string
	ServiceData() []ServiceData
	ManufacturerData() []byte
	// TxPowerLevel returns the advertised transmission power, 127 when the
	// field was absent from the advertisement.
	TxPowerLevel() int
	Connectable() bool
	RSSI() int
	Addr() string
}

// ServiceData pairs a service UUID with its advertised payload.
type ServiceData struct {
	UUID string
	Data []byte
}

// Callbacks carries the event handlers for one scan.
//
// A backend invokes OnStarted exactly once, before the first OnCandidate,
// once the radio confirms the scan is running. Candidates are delivered in
// arrival order from a single goroutine; handlers never run concurrently
// with each other. OnError reports an asynchronous scan failure; after it
// fires no further candidates are delivered.
type Callbacks struct {
	OnStarted   func()
	OnCandidate func(Advertisement)
	OnError     func(error)
}

// Adapter is the scanning capability contract.
type Adapter interface {
	// Enabled reports whether the radio is powered and usable. It never
	// starts or touches a scan.
	Enabled(ctx context.Context) (bool, error)

	// StartScan begins an asynchronous scan. The allowlist is an advisory
	// radio-level hint of canonical service UUIDs; backends may deliver
	// candidates outside it and callers must re-filter. A synchronous error
	// return means the scan never started and no callbacks will fire.
	StartScan(allowlist []string, cb Callbacks) error

	// StopScan tears the active scan down and returns once the backend has
	// confirmed the radio is no longer scanning. Calling it with no active
	// scan is a no-op.
	StopScan() error

	// OnEnabledChanged registers a listener for radio power transitions and
	// returns a function that removes it.
	OnEnabledChanged(fn func(enabled bool)) (cancel func())
}

// ErrBluetoothOff indicates the radio is present but powered down.
var ErrBluetoothOff = errors.New("bluetooth is turned off")

// ErrScanActive indicates a StartScan while the backend is already scanning.
var ErrScanActive = errors.New("scan already active")

// Error wraps a backend failure so callers can surface the backend's own
// message while still unwrapping to sentinel errors.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("adapter: %v", e.Err)
	}
	return fmt.Sprintf("adapter %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
