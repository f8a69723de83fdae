//go:build linux

package topology

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// BindCurrentThread pins the calling OS thread to pu's CPU.
//
// Callers must have called runtime.LockOSThread beforehand: affinity
// is a per-OS-thread property, and the Go scheduler is free to move a
// goroutine to a different OS thread between calls unless it's locked.
// Binding must happen from inside the thread that will run the
// payload, never from the spawning goroutine, so the affinity is in
// place before any payload code executes.
func BindCurrentThread(pu PU) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(pu.OSIndex)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("topology: bind thread to cpu %d: %w", pu.OSIndex, err)
	}
	return nil
}

// Gettid returns the Linux thread id of the calling OS thread. Valid
// only immediately after runtime.LockOSThread, for the same reason as
// BindCurrentThread.
func Gettid() int {
	return unix.Gettid()
}
