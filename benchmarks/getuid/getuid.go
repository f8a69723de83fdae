//go:build linux

// Package getuid measures the cost of the getuid() syscall, the
// cheapest possible syscall round-trip: no arguments, no kernel-side
// state to touch, nothing but the trap itself.
//
// Grounded on original_source/bench-getuid.cpp.
package getuid

import (
	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
)

// New returns the symmetric getuid action.
func New() action.Action[struct{}] {
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) { unix.Getuid() },
	}
}
