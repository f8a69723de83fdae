//go:build linux

// Package eventfdnonblock is the busy-polling counterpart to
// benchmarks/eventfd: the co-runner's eventfd is opened with
// EFD_NONBLOCK, so other_operation polls instead of blocking.
//
// Grounded on original_source/bench-eventfd-nonblock.cpp.
package eventfdnonblock

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
)

var nativeEndian = binary.NativeEndian

// Action is the non-blocking eventfd wakeup action.
type Action struct {
	localFD  int
	remoteFD int
}

// New creates the local eventfd (blocking) and the remote one
// (EFD_NONBLOCK). Call Close when done.
func New() (*Action, error) {
	local, err := unix.Eventfd(0, 0)
	if err != nil {
		return nil, fmt.Errorf("eventfdnonblock: create local: %w", err)
	}
	remote, err := unix.Eventfd(0, unix.EFD_NONBLOCK)
	if err != nil {
		_ = unix.Close(local)
		return nil, fmt.Errorf("eventfdnonblock: create remote: %w", err)
	}
	return &Action{localFD: local, remoteFD: remote}, nil
}

// Close releases both eventfds.
func (a *Action) Close() error {
	err1 := unix.Close(a.localFD)
	err2 := unix.Close(a.remoteFD)
	if err1 != nil {
		return err1
	}
	return err2
}

func (a *Action) MakeState(_ []action.ThreadHandle) struct{} { return struct{}{} }

func (a *Action) RawOperation(_ *struct{}) {
	_ = a.roundTrip()
}

func (a *Action) MeasuredOperation(_ *struct{}) uint64 {
	start := clock.Now()
	end := a.roundTrip()
	return clock.Diff(start, end)
}

func (a *Action) roundTrip() uint64 {
	if err := writeEventfd(a.remoteFD, uint64(a.localFD)); err != nil {
		panic(fmt.Errorf("eventfdnonblock: write remote: %w", err))
	}
	endNS, err := readEventfd(a.localFD)
	if err != nil {
		panic(fmt.Errorf("eventfdnonblock: read local: %w", err))
	}
	return endNS
}

// OtherOperation polls remoteFD without blocking, returning
// immediately on EAGAIN (no wakeup pending yet) or EINTR (harness
// shutdown signal).
func (a *Action) OtherOperation(_ *struct{}, _ int) {
	fdValue, err := readEventfd(a.remoteFD)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return
		}
		panic(fmt.Errorf("eventfdnonblock: read remote: %w", err))
	}
	now := clock.Now()
	if err := writeEventfd(int(fdValue), now); err != nil {
		panic(fmt.Errorf("eventfdnonblock: write reply: %w", err))
	}
}

func (a *Action) SupportsNoInterference() bool   { return false }
func (a *Action) SupportsEnergyMeasurement() bool { return true }

func writeEventfd(fd int, v uint64) error {
	var buf [8]byte
	nativeEndian.PutUint64(buf[:], v)
	n, err := unix.Write(fd, buf[:])
	if err != nil {
		return err
	}
	if n != 8 {
		return fmt.Errorf("short write: %d bytes", n)
	}
	return nil
}

func readEventfd(fd int) (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n != 8 {
		return 0, fmt.Errorf("short read: %d bytes", n)
	}
	return nativeEndian.Uint64(buf[:]), nil
}
