package ringchan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSendOverwritesOldest verifies producers never block: when full, the
// oldest element is dropped.
func TestSendOverwritesOldest(t *testing.T) {
	rc := New[int](3)
	for i := 1; i <= 5; i++ {
		rc.Send(i)
	}
	rc.Close()

	var got []int
	for v := range rc.C() {
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 5}, got, "only the newest elements survive")
}

// TestTrySend verifies the non-blocking insert reports buffer fullness.
func TestTrySend(t *testing.T) {
	rc := New[string](2)
	assert.True(t, rc.TrySend("a"))
	assert.True(t, rc.TrySend("b"))
	assert.False(t, rc.TrySend("c"), "full buffer must refuse TrySend")
	assert.Equal(t, 2, rc.Len())
	assert.Equal(t, 2, rc.Cap())
}

// TestZeroCapacityPanics verifies the capacity guard.
func TestZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
}
