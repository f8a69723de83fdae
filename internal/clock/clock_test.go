//go:build linux

package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_Monotonic(t *testing.T) {
	a := Now()
	b := Now()
	require.GreaterOrEqual(t, b, a)
}

func TestDiff(t *testing.T) {
	assert.Equal(t, uint64(42), Diff(100, 142))
	assert.Equal(t, uint64(0), Diff(100, 100))
}

func TestDiff_PanicsOnInversion(t *testing.T) {
	assert.Panics(t, func() {
		Diff(200, 100)
	})
}
