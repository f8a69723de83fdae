//go:build linux

// Package pthreadmutex measures an uncontended lock/unlock round trip
// on a shared mutex.
//
// Grounded on original_source/bench-pthread-mutex.cpp; sync.Mutex is
// Go's native equivalent of pthread_mutex_t used in its default
// (non-adaptive) mode.
package pthreadmutex

import (
	"sync"

	"github.com/penberg/posixbench/action"
)

// New returns the symmetric mutex lock/unlock action.
func New() action.Action[struct{}] {
	var mu sync.Mutex
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) {
			mu.Lock()
			mu.Unlock()
		},
	}
}
