//go:build linux

package harness

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// sigintFired and alarmFired are the two process-wide flags spec.md
// requires: SIGINT marks a user-requested early stop, SIGALRM marks
// the measurement window's expiry. They're set from a signal-handling
// goroutine (not directly from signal context — Go delivers signals
// to a channel, never by running arbitrary code on the signal stack),
// read with relaxed ordering from the measuring loop, and cleared
// before each new measurement window starts.
var (
	sigintFired atomic.Bool
	alarmFired  atomic.Bool
)

// InstallSignalHandlers arms the SIGINT/SIGALRM flags for the lifetime
// of the process. Call once, before any measurement starts. Handlers
// intentionally do not request syscall restart: this is load-bearing,
// because interfering threads rely on SIGINT unblocking whatever
// blocking syscall they're parked in (eventfd_read, pthread_cond_wait,
// ...), and Go delivers signals to raw syscalls (golang.org/x/sys/unix
// calls, unlike the Go runtime's own netpoller-backed I/O) as EINTR
// without automatically retrying them.
func InstallSignalHandlers() {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGALRM)
	go func() {
		for sig := range ch {
			switch sig {
			case syscall.SIGINT:
				sigintFired.Store(true)
			case syscall.SIGALRM:
				alarmFired.Store(true)
			}
		}
	}()
}

// ResetWindowFlags clears sigintFired and alarmFired before a new
// measurement window begins.
func ResetWindowFlags() {
	sigintFired.Store(false)
	alarmFired.Store(false)
}

// ResetAlarmFlag clears only alarmFired, leaving sigintFired
// untouched. The energy loop uses this between samples: a SIGALRM
// from the previous sample's 1-second window must not bleed into the
// next one, but a user SIGINT must still be visible across every
// remaining sample so the whole run stops, not just the current tick.
func ResetAlarmFlag() {
	alarmFired.Store(false)
}

// WindowExpired reports whether the current measurement window should
// stop: either the alarm fired (time budget expired) or the user sent
// SIGINT.
func WindowExpired() bool {
	return sigintFired.Load() || alarmFired.Load()
}

// SigintFired reports whether the user has requested an early stop.
func SigintFired() bool {
	return sigintFired.Load()
}
