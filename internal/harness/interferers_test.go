//go:build linux

package harness

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/topology"
)

func currentPU(t *testing.T) topology.PU {
	t.Helper()
	snap, err := topology.Load()
	require.NoError(t, err)
	pus := snap.PUs()
	require.NotEmpty(t, pus)
	return pus[0]
}

func TestStartInterferers_CapturesAllTIDs(t *testing.T) {
	pu := currentPU(t)

	var calls atomic.Int64
	a := action.SymmetricAction[int]{
		Op:       func(s *int) { calls.Add(1) },
		NewState: func() int { return 0 },
	}

	g := StartInterferers[int](a, pu, 3)
	require.Len(t, g.Handles, 3)
	for _, h := range g.Handles {
		assert.NotZero(t, h.TID)
	}

	time.Sleep(20 * time.Millisecond)
	g.Stop()
	g.Join()

	assert.Greater(t, calls.Load(), int64(0))
}

func TestInterferenceGroup_KickIsSafeAfterStop(t *testing.T) {
	pu := currentPU(t)
	a := action.SymmetricAction[int]{
		Op:       func(s *int) {},
		NewState: func() int { return 0 },
	}

	g := StartInterferers[int](a, pu, 1)
	g.Stop()
	g.Kick() // must not panic even though the thread hasn't joined yet
	g.Join()
}
