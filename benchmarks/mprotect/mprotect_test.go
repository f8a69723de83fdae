//go:build linux

package mprotect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_ToggleRoundTrip(t *testing.T) {
	a, owner, err := New()
	require.NoError(t, err)
	defer owner.Close()

	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	require.GreaterOrEqual(t, ns, uint64(0))
}
