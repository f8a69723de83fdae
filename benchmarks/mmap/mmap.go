//go:build linux

// Package mmap measures the mmap() call alone: unlike mmapmunmap, the
// timed window covers only the mapping, with munmap performed outside
// it.
//
// Grounded on original_source/bench-mmap.cpp.
package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
)

const regionSize = 2 * 1024 * 1024 // 2 MB

// Action implements the asymmetric mmap benchmark directly: the
// measured window wraps only mmap, while raw_operation and
// other_operation do the full map-then-unmap cycle.
type Action struct{}

// New returns the mmap action.
func New() action.Action[struct{}] { return Action{} }

func (Action) MakeState(_ []action.ThreadHandle) struct{} { return struct{}{} }

func (Action) RawOperation(_ *struct{}) {
	mapAndUnmap()
}

func (Action) MeasuredOperation(_ *struct{}) uint64 {
	start := clock.Now()
	data, err := unix.Mmap(-1, 0, regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	end := clock.Now()
	if err != nil {
		panic(fmt.Errorf("mmap: mmap: %w", err))
	}
	if err := unix.Munmap(data); err != nil {
		panic(fmt.Errorf("mmap: munmap: %w", err))
	}
	return clock.Diff(start, end)
}

func (Action) OtherOperation(_ *struct{}, _ int) {
	mapAndUnmap()
}

func (Action) SupportsNoInterference() bool   { return true }
func (Action) SupportsEnergyMeasurement() bool { return true }

func mapAndUnmap() {
	data, err := unix.Mmap(-1, 0, regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		panic(fmt.Errorf("mmap: mmap: %w", err))
	}
	if err := unix.Munmap(data); err != nil {
		panic(fmt.Errorf("mmap: munmap: %w", err))
	}
}
