//go:build linux

package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetricAction_Contract(t *testing.T) {
	var calls int
	a := SymmetricAction[int]{
		Op: func(s *int) {
			*s++
			calls++
		},
		NewState: func() int { return 0 },
	}

	assert.True(t, a.SupportsNoInterference())
	assert.True(t, a.SupportsEnergyMeasurement())

	state := a.MakeState(nil)
	require.Equal(t, 0, state)

	a.RawOperation(&state)
	assert.Equal(t, 1, state)
	assert.Equal(t, 1, calls)

	elapsed := a.MeasuredOperation(&state)
	assert.Equal(t, 2, state)
	assert.GreaterOrEqual(t, elapsed, uint64(0))

	a.OtherOperation(&state, 7)
	assert.Equal(t, 3, state)
}
