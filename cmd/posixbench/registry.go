//go:build linux

package main

import (
	"fmt"
	"time"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/benchmarks/eventfd"
	"github.com/penberg/posixbench/benchmarks/eventfdnonblock"
	"github.com/penberg/posixbench/benchmarks/gettime"
	"github.com/penberg/posixbench/benchmarks/getuid"
	"github.com/penberg/posixbench/benchmarks/mmap"
	"github.com/penberg/posixbench/benchmarks/mmapmunmap"
	"github.com/penberg/posixbench/benchmarks/mprotect"
	"github.com/penberg/posixbench/benchmarks/open"
	"github.com/penberg/posixbench/benchmarks/pagefault"
	"github.com/penberg/posixbench/benchmarks/pthreadcreate"
	"github.com/penberg/posixbench/benchmarks/pthreadkill"
	"github.com/penberg/posixbench/benchmarks/pthreadmutex"
	"github.com/penberg/posixbench/benchmarks/pthreadrwlock"
	"github.com/penberg/posixbench/benchmarks/pthreadspinlock"
	"github.com/penberg/posixbench/benchmarks/pthreadyield"
	"github.com/penberg/posixbench/internal/harness"
	"github.com/penberg/posixbench/internal/topology"
)

// runner is the non-generic facade every benchmark exposes to the
// CLI driver. Each payload's Action[S] is monomorphic over its own
// state type, so the driver can't hold a slice of them directly;
// runner erases S behind a closure built once per benchmark name.
type runner interface {
	RunLatency(snap topology.Snapshot, measuring topology.PU, scenario topology.Scenario, duration time.Duration, interferers int) (harness.LatencyResult, bool, error)
	RunEnergy(snap topology.Snapshot, measuring topology.PU, scenario topology.Scenario, sampleCount int) ([]harness.EnergySample, bool, error)
	Close() error
}

type adapter[S any] struct {
	a      action.Action[S]
	closer func() error
}

func (r adapter[S]) RunLatency(snap topology.Snapshot, measuring topology.PU, scenario topology.Scenario, duration time.Duration, interferers int) (harness.LatencyResult, bool, error) {
	return harness.RunLatency[S](r.a, snap, measuring, scenario, duration, interferers)
}

func (r adapter[S]) RunEnergy(snap topology.Snapshot, measuring topology.PU, scenario topology.Scenario, sampleCount int) ([]harness.EnergySample, bool, error) {
	return harness.RunEnergy[S](r.a, snap, measuring, scenario, sampleCount)
}

func (r adapter[S]) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

func wrap[S any](a action.Action[S], closer func() error) runner {
	return adapter[S]{a: a, closer: closer}
}

// benchmarkNames lists every registered payload, in the order the
// list subcommand prints them.
var benchmarkNames = []string{
	"getuid", "mmap-munmap", "mmap", "mprotect", "pagefault", "open",
	"pthread-mutex", "pthread-rwlock-rd", "pthread-rwlock-wr",
	"pthread-spinlock", "pthread-yield", "gettime",
	"eventfd", "eventfd-nonblock", "pthread-kill", "pthread-create",
}

// buildRunner constructs the named benchmark's runner. interferers is
// needed up front by payloads (pthread-kill) whose wakeup-routing
// table is sized to the co-runner count.
func buildRunner(name string, interferers int) (runner, error) {
	switch name {
	case "getuid":
		return wrap[struct{}](getuid.New(), nil), nil
	case "mmap-munmap":
		return wrap[struct{}](mmapmunmap.New(), nil), nil
	case "mmap":
		return wrap[struct{}](mmap.New(), nil), nil
	case "mprotect":
		a, owner, err := mprotect.New()
		if err != nil {
			return nil, err
		}
		return wrap[struct{}](a, owner.Close), nil
	case "pagefault":
		return wrap(pagefault.New(), nil), nil
	case "open":
		a, err := open.New()
		if err != nil {
			return nil, err
		}
		return wrap[struct{}](a, a.Close), nil
	case "pthread-mutex":
		return wrap[struct{}](pthreadmutex.New(), nil), nil
	case "pthread-rwlock-rd":
		return wrap[struct{}](pthreadrwlock.NewRead(), nil), nil
	case "pthread-rwlock-wr":
		return wrap[struct{}](pthreadrwlock.NewWrite(), nil), nil
	case "pthread-spinlock":
		return wrap[struct{}](pthreadspinlock.New(), nil), nil
	case "pthread-yield":
		return wrap[struct{}](pthreadyield.New(), nil), nil
	case "gettime":
		return wrap[struct{}](gettime.New(), nil), nil
	case "eventfd":
		a, err := eventfd.New()
		if err != nil {
			return nil, err
		}
		return wrap[struct{}](a, a.Close), nil
	case "eventfd-nonblock":
		a, err := eventfdnonblock.New()
		if err != nil {
			return nil, err
		}
		return wrap[struct{}](a, a.Close), nil
	case "pthread-kill":
		return wrap[struct{}](pthreadkill.New(interferers), nil), nil
	case "pthread-create":
		return wrap[struct{}](pthreadcreate.New(), nil), nil
	default:
		return nil, fmt.Errorf("unknown benchmark %q", name)
	}
}
