//go:build linux

package getuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetuid_MeasuredOperationReturnsNonNegative(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
	assert.True(t, a.SupportsNoInterference())
	assert.True(t, a.SupportsEnergyMeasurement())
}
