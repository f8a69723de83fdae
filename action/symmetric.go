//go:build linux

package action

import "github.com/penberg/posixbench/internal/clock"

// SymmetricAction adapts a payload where the measured operation and
// the co-runner operation are the same pure call (getuid, mmap/munmap,
// mutex lock/unlock) into a full Action. Op is the operation, called
// with the calling thread's state; NewState builds each thread's
// scratch state (the zero S when nil).
//
// Mirrors original_source/benchmark.h's SymmetricAction/
// SymmetricActionWithState templates.
type SymmetricAction[S any] struct {
	Op       func(*S)
	NewState func() S
}

func (a SymmetricAction[S]) MakeState(_ []ThreadHandle) S {
	if a.NewState == nil {
		var zero S
		return zero
	}
	return a.NewState()
}

func (a SymmetricAction[S]) RawOperation(state *S) {
	a.Op(state)
}

func (a SymmetricAction[S]) MeasuredOperation(state *S) uint64 {
	start := clock.Now()
	a.Op(state)
	end := clock.Now()
	return clock.Diff(start, end)
}

func (a SymmetricAction[S]) OtherOperation(state *S, _ int) {
	a.Op(state)
}

func (a SymmetricAction[S]) SupportsNoInterference() bool   { return true }
func (a SymmetricAction[S]) SupportsEnergyMeasurement() bool { return true }
