//go:build linux

// Package pthreadyield measures the cost of yielding the processor to
// another runnable goroutine/thread.
//
// Grounded on original_source/bench-pthread-yield.cpp; runtime.Gosched
// is Go's equivalent of pthread_yield (also glibc-deprecated in favour
// of sched_yield, which Gosched maps onto when there's nothing else
// runnable on the M).
package pthreadyield

import (
	"runtime"

	"github.com/penberg/posixbench/action"
)

// New returns the symmetric yield action.
func New() action.Action[struct{}] {
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) { runtime.Gosched() },
	}
}
