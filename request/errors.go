package request

import (
	"errors"
	"fmt"
)

// Request-level sentinel errors.
var (
	// ErrRequestInProgress is returned when RequestDevice is called while a
	// previous request is still scanning or completing.
	ErrRequestInProgress = errors.New("device request already in progress")

	// ErrNoDevicesFound is returned when the scan deadline expires without
	// an accepted match.
	ErrNoDevicesFound = errors.New("no devices found")

	// ErrRequestCancelled is returned to a pending RequestDevice when the
	// request is aborted through CancelRequest. Cancellation through the
	// caller's context surfaces the context's own error instead.
	ErrRequestCancelled = errors.New("device request cancelled")
)

// OptionsProblem identifies the specific kind of option validation failure.
type OptionsProblem string

const (
	NoFilters       OptionsProblem = "no_filters"
	EmptyFilter     OptionsProblem = "empty_filter"
	EmptyNamePrefix OptionsProblem = "empty_name_prefix"
	BadServiceUUID  OptionsProblem = "bad_service_uuid"
)

// InvalidOptionsError reports a static validation failure. It is returned
// before any adapter interaction takes place.
type InvalidOptionsError struct {
	Problem OptionsProblem
	Msg     string
}

func (e *InvalidOptionsError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Problem)
	}
	return fmt.Sprintf("invalid request options: %s", e.Msg)
}

// Is allows errors.Is to compare InvalidOptionsError values by Problem.
func (e *InvalidOptionsError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*InvalidOptionsError)
	if !ok {
		return false
	}
	return e.Problem == t.Problem
}

// Predefined sentinel values for errors.Is comparisons.
var (
	ErrNoFilters       = &InvalidOptionsError{Problem: NoFilters}
	ErrEmptyFilter     = &InvalidOptionsError{Problem: EmptyFilter}
	ErrEmptyNamePrefix = &InvalidOptionsError{Problem: EmptyNamePrefix}
	ErrBadServiceUUID  = &InvalidOptionsError{Problem: BadServiceUUID}
)

// AdapterError wraps a failure reported by the scanning backend.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("scan adapter failed during %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }
