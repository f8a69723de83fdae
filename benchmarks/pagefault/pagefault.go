//go:build linux

// Package pagefault measures the cost of touching a fresh anonymous
// page for the first time, forcing the kernel to service a minor
// fault. Each thread gets its own private mapping and walks it one
// page at a time; once exhausted, touches wrap back to the start
// (pages stay resident after the first touch, so later iterations
// measure an already-faulted-in write instead — acceptable since the
// harness only needs a steady stream of samples, not a fixed budget
// of cold faults).
//
// Grounded on original_source/bench-pagefault.cpp.
package pagefault

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
)

const (
	regionSize = 1024 * 1024 // 1 MB
	pageSize   = 4096
)

// state is one thread's private mapping plus its walk cursor.
type state struct {
	region []byte
	offset int
}

func newState() state {
	region, err := unix.Mmap(-1, 0, regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		panic(fmt.Errorf("pagefault: mmap: %w", err))
	}
	_ = unix.Madvise(region, unix.MADV_NOHUGEPAGE)
	return state{region: region}
}

func touch(s *state) {
	if s.offset >= len(s.region) {
		s.offset = 0
	}
	s.region[s.offset] = 0
	s.offset += pageSize
}

// New returns the symmetric page-fault action.
func New() action.Action[state] {
	return action.SymmetricAction[state]{
		Op:       touch,
		NewState: newState,
	}
}
