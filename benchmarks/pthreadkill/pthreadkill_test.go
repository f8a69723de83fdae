//go:build linux

package pthreadkill

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPthreadKill_WakesCoRunnerAndReturnsLatency(t *testing.T) {
	a := New(2)

	var stop atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		for !stop.Load() {
			a.OtherOperation(nil, 0)
			a.OtherOperation(nil, 1)
		}
	}()

	state := a.MakeState(nil)
	for i := 0; i < 5; i++ {
		ns := a.MeasuredOperation(&state)
		assert.GreaterOrEqual(t, ns, uint64(0))
	}

	stop.Store(true)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("co-runner goroutine did not exit")
	}
}

func TestPthreadKill_DisclaimsNoInterference(t *testing.T) {
	a := New(1)
	require.False(t, a.SupportsNoInterference())
	require.True(t, a.SupportsEnergyMeasurement())
}
