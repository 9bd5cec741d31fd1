// Package bleuuid canonicalizes Bluetooth service identifiers.
//
// Callers may name a service by its registered short name ("battery_service"),
// a 16-bit or 32-bit assigned number ("180f", "0x180f", "0000180f"), or a full
// 128-bit UUID with or without dashes or braces. All of these are mapped to a
// single canonical form: the lowercase, dashed 128-bit representation, e.g.
// "0000180f-0000-1000-8000-00805f9b34fb".
package bleuuid

import (
	"fmt"
	"strings"
)

// baseSuffix is the tail of the Bluetooth SIG base UUID into which 16-bit and
// 32-bit assigned numbers are embedded.
const baseSuffix = "-0000-1000-8000-00805f9b34fb"

// Canonical converts a service identifier to its canonical 128-bit form.
// It accepts registered short names, 16-bit and 32-bit hex forms (with an
// optional "0x" prefix), and full 128-bit UUIDs with or without dashes or
// surrounding braces. An unrecognized identifier yields an error.
func Canonical(id string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(id))
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	if v, ok := serviceNames[s]; ok {
		return From16(v), nil
	}

	s = strings.TrimPrefix(s, "0x")
	s = strings.ReplaceAll(s, "-", "")
	if s == "" {
		return "", fmt.Errorf("empty service identifier")
	}
	if !isHex(s) {
		return "", fmt.Errorf("unknown service identifier: %q", id)
	}

	switch len(s) {
	case 4:
		return "0000" + s + baseSuffix, nil
	case 8:
		return s + baseSuffix, nil
	case 32:
		return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32], nil
	default:
		return "", fmt.Errorf("invalid service identifier length: %q", id)
	}
}

// CanonicalAll canonicalizes a slice of identifiers, failing on the first
// invalid entry.
func CanonicalAll(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		c, err := Canonical(id)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

// From16 embeds a 16-bit assigned number into the SIG base UUID.
func From16(v uint16) string {
	return fmt.Sprintf("0000%04x%s", v, baseSuffix)
}

// From32 embeds a 32-bit assigned number into the SIG base UUID.
func From32(v uint32) string {
	return fmt.Sprintf("%08x%s", v, baseSuffix)
}

// KnownName returns the registered display name for a service identifier, or
// the empty string when the identifier is custom or unknown.
func KnownName(id string) string {
	c, err := Canonical(id)
	if err != nil {
		return ""
	}
	short, ok := shortForm(c)
	if !ok {
		return ""
	}
	return displayNames[short]
}

// Shorten truncates a canonical UUID for display. SIG base UUIDs collapse to
// their 16-bit form; custom UUIDs keep their first eight characters.
func Shorten(id string) string {
	if short, ok := shortForm(id); ok {
		return fmt.Sprintf("%04x", short)
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// shortForm extracts the 16-bit assigned number from a canonical SIG base
// UUID. The second result is false for custom UUIDs.
func shortForm(canonical string) (uint16, bool) {
	if len(canonical) != 36 || !strings.HasSuffix(canonical, baseSuffix) || !strings.HasPrefix(canonical, "0000") {
		return 0, false
	}
	var v uint16
	if _, err := fmt.Sscanf(canonical[4:8], "%04x", &v); err != nil {
		return 0, false
	}
	return v, true
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
