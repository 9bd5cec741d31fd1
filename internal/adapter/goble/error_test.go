package goble

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/blequest/internal/adapter"
)

// TestNormalizeError verifies platform-specific radio errors map to the
// adapter's sentinel errors while unknown errors pass through untouched.
func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectIsError error
	}{
		{
			name:          "darwin bluetooth off message",
			err:           fmt.Errorf("central manager has invalid state: have=4 want=5: is Bluetooth turned on?"),
			expectIsError: adapter.ErrBluetoothOff,
		},
		{
			name:          "generic bluetooth off message",
			err:           fmt.Errorf("Bluetooth is turned OFF"),
			expectIsError: adapter.ErrBluetoothOff,
		},
		{
			name:          "linux missing hci device",
			err:           fmt.Errorf("can't open HCI device: no device"),
			expectIsError: adapter.ErrBluetoothOff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := NormalizeError(tt.err)
			assert.ErrorIs(t, norm, tt.expectIsError, "error chain MUST contain the sentinel")
			assert.Contains(t, norm.Error(), tt.err.Error(), "original context MUST be preserved")
		})
	}

	t.Run("passes through unknown errors", func(t *testing.T) {
		err := errors.New("some other error")
		assert.Equal(t, err, NormalizeError(err))
		assert.NotErrorIs(t, NormalizeError(err), adapter.ErrBluetoothOff)
	})

	t.Run("passes through context cancellation", func(t *testing.T) {
		assert.ErrorIs(t, NormalizeError(context.Canceled), context.Canceled)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, NormalizeError(nil))
	})
}
