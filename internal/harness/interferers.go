//go:build linux

// Package harness drives the latency- and energy-sampling loops and
// the interference generator that co-runner threads execute, placed
// on the CPU topology per the resolved scenario.
package harness

import (
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/topology"
)

// InterferenceGroup is the set of co-runner threads generating
// interference on the resolved PU while the measuring thread samples
// the payload. Zero value is not usable; build one with
// StartInterferers.
type InterferenceGroup struct {
	stop atomic.Bool
	wg   sync.WaitGroup

	// Handles is the TID of every interfering thread, captured from
	// inside each thread before any operation runs. Payloads that wake
	// a specific peer (pthread_kill) index into this.
	Handles []action.ThreadHandle
}

// StartInterferers launches n goroutines (spec.md's default is 1),
// each locked to its own OS thread and bound to pu, running
// a.OtherOperation in a tight loop until Stop is called. It blocks
// until every thread has registered its TID, so Handles is fully
// populated and stable by the time it returns; each thread builds its
// state afterwards, possibly after StartInterferers has returned.
//
// Mirrors original_source/benchmark.h's interference-thread startup:
// affinity is bound before any operation runs, and state construction
// sees every peer's thread id up front.
func StartInterferers[S any](a action.Action[S], pu topology.PU, n int) *InterferenceGroup {
	g := &InterferenceGroup{Handles: make([]action.ThreadHandle, n)}

	var ready sync.WaitGroup
	ready.Add(n)
	g.wg.Add(n)

	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer g.wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			if err := topology.BindCurrentThread(pu); err != nil {
				panic(err)
			}
			g.Handles[i] = action.ThreadHandle{TID: topology.Gettid()}
			ready.Done()
			ready.Wait() // all TIDs visible before any state/operation

			state := a.MakeState(g.Handles)
			for !g.stop.Load() {
				a.OtherOperation(&state, i)
			}
		}()
	}

	ready.Wait()
	return g
}

// Stop signals every interfering thread to exit its loop. It does not
// wait for them to return — call Kick and then Join, in that order,
// so a thread parked in a blocking syscall (the wakeup payloads) gets
// unstuck before anyone waits on it.
func (g *InterferenceGroup) Stop() {
	g.stop.Store(true)
}

// Join waits for every interfering thread to return after Stop (and,
// for wakeup payloads, Kick) has run.
func (g *InterferenceGroup) Join() {
	g.wg.Wait()
}

// Kick sends SIGINT to every interfering thread via tgkill. Blocking
// wakeup payloads (the blocking eventfd read) park a thread in
// a blocking syscall that the stop flag alone can't reach; this is the
// targeted nudge that gets it back to check the flag. Call after Stop
// and before Join.
func (g *InterferenceGroup) Kick() {
	pid := unix.Getpid()
	for _, h := range g.Handles {
		_ = unix.Tgkill(pid, h.TID, syscall.SIGINT)
	}
}
