//go:build linux

// Package pthreadspinlock measures an uncontended lock/unlock round
// trip on a spinlock.
//
// Go has no spinlock in sync; this is a minimal CAS-based one (busy
// loop on atomic.Bool, no futex fallback), the idiomatic Go
// replacement for pthread_spinlock_t used here since contention
// between the measuring and interfering thread is exactly what the
// scenario is meant to create.
//
// Grounded on original_source/bench-pthread-spinlock.cpp.
package pthreadspinlock

import (
	"runtime"
	"sync/atomic"

	"github.com/penberg/posixbench/action"
)

type spinlock struct {
	locked atomic.Bool
}

func (s *spinlock) Lock() {
	for !s.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() {
	s.locked.Store(false)
}

// New returns the symmetric spinlock lock/unlock action.
func New() action.Action[struct{}] {
	lock := &spinlock{}
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) {
			lock.Lock()
			lock.Unlock()
		},
	}
}
