//go:build linux

// Package eventfd measures one-way wakeup latency through a blocking
// eventfd: the measuring thread writes to the co-runner's eventfd and
// blocks reading its own; the co-runner, on waking from its blocking
// read, timestamps and writes that timestamp back. Disclaims
// no-interference since it has nothing to wake without a peer.
//
// Grounded on original_source/bench-eventfd.cpp. The original smuggles
// the replying fd number as the 64-bit value written to the peer's
// eventfd; this keeps that same trick since it's what's actually
// being measured (a raw eventfd_write/eventfd_read round trip), not
// an abstraction over it.
package eventfd

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
)

var nativeEndian = binary.NativeEndian

// Action holds one eventfd per thread: the measuring thread's own,
// plus one the (single) interfering thread reads from.
type Action struct {
	localFD  int
	remoteFD int
}

// New creates the local and remote eventfds. Call Close when done.
func New() (*Action, error) {
	local, err := unix.Eventfd(0, 0)
	if err != nil {
		return nil, fmt.Errorf("eventfd: create local: %w", err)
	}
	remote, err := unix.Eventfd(0, 0)
	if err != nil {
		_ = unix.Close(local)
		return nil, fmt.Errorf("eventfd: create remote: %w", err)
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
	if err := writeEventfd(a.remoteFD, uint64(a.localFD)); err != nil {
		panic(fmt.Errorf("eventfd: write remote: %w", err))
	}
	if _, err := readEventfd(a.localFD); err != nil {
		panic(fmt.Errorf("eventfd: read local: %w", err))
	}
}

func (a *Action) MeasuredOperation(_ *struct{}) uint64 {
	start := clock.Now()
	if err := writeEventfd(a.remoteFD, uint64(a.localFD)); err != nil {
		panic(fmt.Errorf("eventfd: write remote: %w", err))
	}
	endNS, err := readEventfd(a.localFD)
	if err != nil {
		panic(fmt.Errorf("eventfd: read local: %w", err))
	}
	return clock.Diff(start, endNS)
}

// OtherOperation blocks reading remoteFD; on wake it timestamps and
// writes that timestamp to the fd number it received (the measuring
// thread's localFD, smuggled as the counter value).
func (a *Action) OtherOperation(_ *struct{}, _ int) {
	fdValue, err := readEventfd(a.remoteFD)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return
		}
		panic(fmt.Errorf("eventfd: read remote: %w", err))
	}
	now := clock.Now()
	if err := writeEventfd(int(fdValue), now); err != nil {
		panic(fmt.Errorf("eventfd: write reply: %w", err))
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
