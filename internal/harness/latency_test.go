//go:build linux

package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/topology"
)

func TestRunLatency_NoInterference_SchemaAndMonotonicity(t *testing.T) {
	snap, err := topology.Load()
	require.NoError(t, err)
	pus := snap.PUs()
	require.NotEmpty(t, pus)

	InstallSignalHandlers()

	a := action.SymmetricAction[int]{
		Op:       func(s *int) { *s++ },
		NewState: func() int { return 0 },
	}

	result, ok, err := RunLatency[int](a, snap, pus[0], topology.NoInterference, 50*time.Millisecond, 1)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, topology.NoInterference, result.Scenario)
	require.Len(t, result.Percentiles, 103)
	assert.Greater(t, result.Samples, uint64(0))

	last := uint64(0)
	for _, row := range result.Percentiles {
		assert.GreaterOrEqual(t, row.ValueNS, last)
		last = row.ValueNS
	}
}

func TestRunLatency_SkipsNoInterferenceWhenUnsupported(t *testing.T) {
	snap, err := topology.Load()
	require.NoError(t, err)
	pus := snap.PUs()
	require.NotEmpty(t, pus)

	InstallSignalHandlers()

	a := wakeupOnlyAction{}
	_, ok, err := RunLatency[int](a, snap, pus[0], topology.NoInterference, 10*time.Millisecond, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

// wakeupOnlyAction is a minimal Action that disclaims NoInterference,
// standing in for the real eventfd/pthread_kill payloads in this test.
type wakeupOnlyAction struct{}

func (wakeupOnlyAction) MakeState(_ []action.ThreadHandle) int       { return 0 }
func (wakeupOnlyAction) RawOperation(_ *int)                         {}
func (wakeupOnlyAction) MeasuredOperation(_ *int) uint64              { return 1 }
func (wakeupOnlyAction) OtherOperation(_ *int, _ int)                 {}
func (wakeupOnlyAction) SupportsNoInterference() bool                 { return false }
func (wakeupOnlyAction) SupportsEnergyMeasurement() bool              { return true }
