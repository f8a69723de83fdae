//go:build linux

// Package clock provides the monotonic nanosecond timestamps the
// harness's measuring and energy loops sample around every operation.
package clock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Now returns the current CLOCK_MONOTONIC time in nanoseconds.
//
// A failure here is fatal: spec says a bad clock read invalidates every
// sample taken since, so there is no safe way to keep going.
func Now() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(fmt.Errorf("clock: read CLOCK_MONOTONIC: %w", err))
	}
	return uint64(ts.Sec)*1e9 + uint64(ts.Nsec)
}

// Diff returns end-start in nanoseconds. end must not precede start;
// the monotonic clock guarantees that for any two reads taken in order.
func Diff(start, end uint64) uint64 {
	if end < start {
		panic(fmt.Errorf("clock: end %d precedes start %d", end, start))
	}
	return end - start
}
