//go:build linux

// Package open measures the cost of opening an existing file,
// against a single shared temp file created once at setup.
//
// Grounded on original_source/bench-open.cpp.
package open

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
)

// Action opens/closes a shared temp file repeatedly.
type Action struct {
	path string
}

// New creates the shared temp file and returns the open action. Call
// Close to remove the file once the run is finished.
func New() (*Action, error) {
	f, err := os.CreateTemp("", "posixbench-open-*")
	if err != nil {
		return nil, fmt.Errorf("open: create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("open: close temp file: %w", err)
	}
	return &Action{path: path}, nil
}

// Close removes the shared temp file.
func (a *Action) Close() error {
	return os.Remove(a.path)
}

func (a *Action) MakeState(_ []action.ThreadHandle) struct{} { return struct{}{} }

func (a *Action) RawOperation(_ *struct{}) {
	a.openAndClose()
}

func (a *Action) MeasuredOperation(_ *struct{}) uint64 {
	start := clock.Now()
	fd, err := unix.Open(a.path, unix.O_RDWR, 0)
	end := clock.Now()
	if err != nil {
		panic(fmt.Errorf("open: open: %w", err))
	}
	if err := unix.Close(fd); err != nil {
		panic(fmt.Errorf("open: close: %w", err))
	}
	return clock.Diff(start, end)
}

func (a *Action) OtherOperation(_ *struct{}, _ int) {
	a.openAndClose()
}

func (a *Action) SupportsNoInterference() bool   { return true }
func (a *Action) SupportsEnergyMeasurement() bool { return true }

func (a *Action) openAndClose() {
	fd, err := unix.Open(a.path, unix.O_RDWR, 0)
	if err != nil {
		panic(fmt.Errorf("open: open: %w", err))
	}
	if err := unix.Close(fd); err != nil {
		panic(fmt.Errorf("open: close: %w", err))
	}
}
