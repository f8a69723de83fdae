//go:build linux

// Package pthreadkill measures one-way cross-thread wakeup latency,
// round-robining across every interfering thread.
//
// Grounded on original_source/bench-pthread-kill.cpp, which wakes the
// target thread with pthread_kill(SIGUSR1) and has it signal back
// through a condition variable once its blocking wait returns. Go
// can't target a signal at one specific goroutine/thread through
// os/signal (delivery is process-wide and not routed per-OS-thread,
// unlike the raw tgkill this harness already uses for shutdown), so
// the wakeup itself is redone as a pair of buffered channels per
// co-runner — the cross-thread notification the original's signal
// handler plus condvar amounted to, without relying on signal
// semantics Go doesn't expose. other_operation busy-polls its wake
// channel in the same style as the eventfd-nonblock payload, so it
// composes with the harness's plain stop-flag loop.
package pthreadkill

import (
	"sync/atomic"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
)

type wakeupSlot struct {
	wake chan struct{}
	resp chan uint64
}

// Action round-robins wakeups across n co-runner threads.
type Action struct {
	slots []wakeupSlot
	next  atomic.Uint64
}

// New returns the pthread-kill action for n interfering threads.
func New(n int) action.Action[struct{}] {
	slots := make([]wakeupSlot, n)
	for i := range slots {
		slots[i] = wakeupSlot{
			wake: make(chan struct{}, 1),
			resp: make(chan uint64, 1),
		}
	}
	return &Action{slots: slots}
}

func (a *Action) MakeState(_ []action.ThreadHandle) struct{} { return struct{}{} }

func (a *Action) RawOperation(_ *struct{}) {
	tid := a.nextTarget()
	a.slots[tid].wake <- struct{}{}
	<-a.slots[tid].resp
}

func (a *Action) MeasuredOperation(_ *struct{}) uint64 {
	tid := a.nextTarget()
	start := clock.Now()
	a.slots[tid].wake <- struct{}{}
	end := <-a.slots[tid].resp
	return clock.Diff(start, end)
}

// OtherOperation is tid's co-runner loop body: service a pending wake
// request if one is queued, otherwise return immediately so the
// harness's stop-flag poll stays responsive.
func (a *Action) OtherOperation(_ *struct{}, tid int) {
	select {
	case <-a.slots[tid].wake:
		a.slots[tid].resp <- clock.Now()
	default:
	}
}

func (a *Action) nextTarget() int {
	n := uint64(len(a.slots))
	return int(a.next.Add(1) % n)
}

func (a *Action) SupportsNoInterference() bool   { return false }
func (a *Action) SupportsEnergyMeasurement() bool { return true }
