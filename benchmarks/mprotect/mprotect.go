//go:build linux

// Package mprotect measures toggling a shared region's protection
// bits off and back on. The mapped region is process-wide (mprotect
// changes page table entries for the whole address space), so every
// thread, measuring or interfering, operates on the same mapping.
//
// Grounded on original_source/bench-mprotect.cpp.
package mprotect

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
)

const regionSize = 1024 * 1024 // 1 MB

// Action holds the shared mapping every thread toggles protection on.
type Action struct {
	region []byte
}

// New maps the shared region and returns the symmetric mprotect
// action wrapping it. Call Close once the run is finished.
func New() (action.Action[struct{}], *Action, error) {
	region, err := unix.Mmap(-1, 0, regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, fmt.Errorf("mprotect: mmap: %w", err)
	}
	a := &Action{region: region}
	return action.SymmetricAction[struct{}]{Op: a.toggle}, a, nil
}

// Close unmaps the shared region.
func (a *Action) Close() error {
	return unix.Munmap(a.region)
}

func (a *Action) toggle(_ *struct{}) {
	if err := unix.Mprotect(a.region, unix.PROT_NONE); err != nil {
		panic(fmt.Errorf("mprotect: set PROT_NONE: %w", err))
	}
	if err := unix.Mprotect(a.region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		panic(fmt.Errorf("mprotect: restore PROT_READ|PROT_WRITE: %w", err))
	}
}
