package bleuuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanonical verifies that Canonical handles every accepted identifier form.
func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "16-bit short form",
			input:    "180d",
			expected: "0000180d-0000-1000-8000-00805f9b34fb",
		},
		{
			name:     "16-bit with 0x prefix",
			input:    "0x180d",
			expected: "0000180d-0000-1000-8000-00805f9b34fb",
		},
		{
			name:     "16-bit uppercase",
			input:    "180D",
			expected: "0000180d-0000-1000-8000-00805f9b34fb",
		},
		{
			name:     "32-bit form",
			input:    "0000180d",
			expected: "0000180d-0000-1000-8000-00805f9b34fb",
		},
		{
			name:     "registered short name",
			input:    "battery_service",
			expected: "0000180f-0000-1000-8000-00805f9b34fb",
		},
		{
			name:     "full UUID with dashes passes through lowercased",
			input:    "6E400001-B5A3-F393-E0A9-E50E24DCCA9E",
			expected: "6e400001-b5a3-f393-e0a9-e50e24dcca9e",
		},
		{
			name:     "full UUID without dashes gains dashes",
			input:    "6e400001b5a3f393e0a9e50e24dcca9e",
			expected: "6e400001-b5a3-f393-e0a9-e50e24dcca9e",
		},
		{
			name:     "UUID with braces",
			input:    "{0000180d-0000-1000-8000-00805f9b34fb}",
			expected: "0000180d-0000-1000-8000-00805f9b34fb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Canonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestCanonicalRejectsInvalidIdentifiers verifies malformed inputs error out.
func TestCanonicalRejectsInvalidIdentifiers(t *testing.T) {
	for _, input := range []string{"", "zz", "not_a_service", "123", "0x18", "deadbeefcafe"} {
		t.Run(input, func(t *testing.T) {
			_, err := Canonical(input)
			assert.Error(t, err, "identifier %q must be rejected", input)
		})
	}
}

// TestKnownName verifies registered display-name lookup across input forms.
func TestKnownName(t *testing.T) {
	tests := []struct {
		name     string
		uuid     string
		expected string
	}{
		{
			name:     "Heart Rate short form",
			uuid:     "180d",
			expected: "Heart Rate",
		},
		{
			name:     "Battery by registered name",
			uuid:     "battery_service",
			expected: "Battery",
		},
		{
			name:     "Heart Rate full SIG UUID",
			uuid:     "0000180d-0000-1000-8000-00805f9b34fb",
			expected: "Heart Rate",
		},
		{
			name:     "custom UUID has no known name",
			uuid:     "6e400001-b5a3-f393-e0a9-e50e24dcca9e",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KnownName(tt.uuid))
		})
	}
}

// TestShorten verifies display truncation.
func TestShorten(t *testing.T) {
	assert.Equal(t, "180d", Shorten("0000180d-0000-1000-8000-00805f9b34fb"))
	assert.Equal(t, "6e400001", Shorten("6e400001-b5a3-f393-e0a9-e50e24dcca9e"))
	assert.Equal(t, "180d", Shorten("180d"))
}

// TestFromAssignedNumbers verifies SIG base embedding.
func TestFromAssignedNumbers(t *testing.T) {
	assert.Equal(t, "0000180f-0000-1000-8000-00805f9b34fb", From16(0x180f))
	assert.Equal(t, "12345678-0000-1000-8000-00805f9b34fb", From32(0x12345678))
}
