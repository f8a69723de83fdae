//go:build linux

// Package mmapmunmap measures the cost of mapping and immediately
// unmapping a 1MB anonymous, private region.
//
// Grounded on original_source/bench-mmap-munmap.cpp.
package mmapmunmap

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
)

const regionSize = 1024 * 1024 // 1 MB

// New returns the symmetric mmap+munmap action.
func New() action.Action[struct{}] {
	return action.SymmetricAction[struct{}]{
		Op: func(_ *struct{}) {
			data, err := unix.Mmap(-1, 0, regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
			if err != nil {
				panic(fmt.Errorf("mmapmunmap: mmap: %w", err))
			}
			if err := unix.Munmap(data); err != nil {
				panic(fmt.Errorf("mmapmunmap: munmap: %w", err))
			}
		},
	}
}
