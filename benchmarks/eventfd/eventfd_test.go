//go:build linux

package eventfd

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventfd_WakeupRoundTrip(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	defer a.Close()

	var stop atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		for !stop.Load() {
			a.OtherOperation(nil, 0)
		}
	}()

	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))

	stop.Store(true)
	// unblock the co-runner's final blocking read with one more write
	_ = writeEventfd(a.remoteFD, uint64(a.localFD))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("co-runner goroutine did not exit")
	}
}

func TestEventfd_DisclaimsNoInterference(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	defer a.Close()

	require.False(t, a.SupportsNoInterference())
	require.True(t, a.SupportsEnergyMeasurement())
}
