//go:build linux

package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedDelta_NoWrap(t *testing.T) {
	assert.Equal(t, uint64(100), WrappedDelta(1000, 1100))
}

func TestWrappedDelta_Wraps(t *testing.T) {
	// start near the top of the 32-bit range, end just past the wrap.
	start := uint64(counterMask - 9)
	end := uint64(5)
	assert.Equal(t, uint64(15), WrappedDelta(start, end))
}

func TestPerOperationNJ_ZeroOperations(t *testing.T) {
	assert.Zero(t, PerOperationNJ(1000, 1.0, 0))
}

func TestPerOperationNJ_WorkedExample(t *testing.T) {
	// energy_unit = 2^-16 J/count, delta = 1000 counts, 1e6 operations
	// -> 1000 * 2^-16 * 1e9 / 1e6 nJ/op.
	unit := math.Pow(2, -16)
	got := PerOperationNJ(1000, unit, 1_000_000)
	assert.InDelta(t, 15.258789, got, 1e-5)
}
