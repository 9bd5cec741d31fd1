package goble

import (
	"fmt"
	"strings"

	"github.com/srg/blequest/internal/adapter"
)

// NormalizeError maps known go-ble error strings to the adapter's structured
// errors. It keeps handling consistent even if the upstream library changes
// messages slightly. Returns wrapped errors to preserve original context.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case msg == "central manager has invalid state: have=4 want=5: is Bluetooth turned on?":
		return fmt.Errorf("%w: %v", adapter.ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "bluetooth is turned off"):
		return fmt.Errorf("%w: %v", adapter.ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "hci device"), containsIgnoreCase(msg, "no device"):
		return fmt.Errorf("%w: %v", adapter.ErrBluetoothOff, err)
	default:
		return err
	}
}

// containsIgnoreCase checks the substring case-insensitively
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
