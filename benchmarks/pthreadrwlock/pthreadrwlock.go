//go:build linux

// Package pthreadrwlock measures an uncontended lock/unlock round
// trip on a shared reader/writer lock, taking it either for reading
// (NewRead) or for writing (NewWrite).
//
// Grounded on original_source/bench-pthread-rwlock-rd.cpp and
// bench-pthread-rwlock-wr.cpp; sync.RWMutex is Go's native equivalent
// of pthread_rwlock_t.
package pthreadrwlock

import (
	"sync"

	"github.com/penberg/posixbench/action"
)

// NewRead returns the symmetric rdlock/unlock action.
func NewRead() action.Action[struct{}] {
	var mu sync.RWMutex
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) {
			mu.RLock()
			mu.RUnlock()
		},
	}
}

// NewWrite returns the symmetric wrlock/unlock action.
func NewWrite() action.Action[struct{}] {
	var mu sync.RWMutex
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) {
			mu.Lock()
			mu.Unlock()
		},
	}
}
