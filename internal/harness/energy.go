//go:build linux

package harness

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
	"github.com/penberg/posixbench/internal/energy"
	"github.com/penberg/posixbench/internal/topology"
)

// EnergySample is one row of the energy report: operations performed
// during a 1-second window and the resulting per-operation figures.
type EnergySample struct {
	Scenario          topology.Scenario
	Operations        uint64
	DurationPerOpNS   float64
	PkgEnergyPerOpNJ  float64
	DRAMEnergyPerOpNJ float64
}

// millisecond is the RAPL update granularity the energy loop aligns
// samples to.
const millisecond = uint64(time.Millisecond)

// RunEnergy drives the energy loop for a single (action, scenario)
// pair across sampleCount 1-second windows. ok is false when the
// scenario/action combination was silently skipped (energy
// measurement disclaimed, RAPL unavailable, or no co-runner PU for
// the requested scenario).
func RunEnergy[S any](a action.Action[S], snap topology.Snapshot, measuring topology.PU, scenario topology.Scenario, sampleCount int) (samples []EnergySample, ok bool, err error) {
	if !a.SupportsEnergyMeasurement() {
		return nil, false, nil
	}
	if scenario == topology.NoInterference && !a.SupportsNoInterference() {
		return nil, false, nil
	}

	var group *InterferenceGroup
	if scenario != topology.NoInterference {
		coRunner, found := topology.Resolve(snap, measuring, scenario)
		if !found {
			slog.Warn("scenario unavailable on this topology", "scenario", scenario, "pu", measuring.OSIndex)
			return nil, false, nil
		}
		group = StartInterferers[S](a, coRunner, 1)
		defer func() {
			group.Stop()
			group.Kick()
			group.Join()
		}()
	}

	type outcome struct {
		samples []EnergySample
		skipped bool
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if bindErr := topology.BindCurrentThread(measuring); bindErr != nil {
			done <- outcome{err: fmt.Errorf("harness: bind measuring thread: %w", bindErr)}
			return
		}

		msr, openErr := energy.OpenMSR(measuring.OSIndex)
		if openErr != nil {
			slog.Warn("energy measurement unavailable", "pu", measuring.OSIndex, "err", openErr)
			done <- outcome{skipped: true}
			return
		}
		defer func() { _ = msr.Close() }()

		var handles []action.ThreadHandle
		if group != nil {
			handles = group.Handles
		}
		state := a.MakeState(handles)

		ResetWindowFlags()
		results := make([]EnergySample, 0, sampleCount)
		for i := 0; i < sampleCount && !SigintFired(); i++ {
			sample, sampleErr := runOneEnergySample(a, &state, scenario, msr)
			if sampleErr != nil {
				done <- outcome{err: sampleErr}
				return
			}
			results = append(results, sample)
		}
		done <- outcome{samples: results}
	}()

	out := <-done
	if out.err != nil {
		return nil, false, out.err
	}
	if out.skipped {
		return nil, false, nil
	}
	return out.samples, true, nil
}

func runOneEnergySample[S any](a action.Action[S], state *S, scenario topology.Scenario, msr *energy.MSR) (EnergySample, error) {
	ResetAlarmFlag()
	if _, err := unix.Alarm(1); err != nil {
		return EnergySample{}, fmt.Errorf("harness: arm energy alarm: %w", err)
	}

	waitForNextMillisecondBoundary()

	startNS := clock.Now()
	startPkg, err := msr.ReadPackageEnergy()
	if err != nil {
		return EnergySample{}, err
	}
	startDRAM, err := msr.ReadDRAMEnergy()
	if err != nil {
		return EnergySample{}, err
	}

	var ops uint64
	for !WindowExpired() {
		a.RawOperation(state)
		ops++
	}

	endPkg, err := msr.ReadPackageEnergy()
	if err != nil {
		return EnergySample{}, err
	}
	endDRAM, err := msr.ReadDRAMEnergy()
	if err != nil {
		return EnergySample{}, err
	}
	endNS := clock.Now()

	if ops == 0 {
		ops = 1 // avoid a divide-by-zero; a zero-op window means the payload is far slower than 1s
	}

	unit := msr.EnergyUnit()
	pkgDelta := energy.WrappedDelta(startPkg, endPkg)
	dramDelta := energy.WrappedDelta(startDRAM, endDRAM)

	return EnergySample{
		Scenario:          scenario,
		Operations:        ops,
		DurationPerOpNS:   float64(clock.Diff(startNS, endNS)) / float64(ops),
		PkgEnergyPerOpNJ:  energy.PerOperationNJ(pkgDelta, unit, ops),
		DRAMEnergyPerOpNJ: energy.PerOperationNJ(dramDelta, unit, ops),
	}, nil
}

// waitForNextMillisecondBoundary busy-waits until the monotonic clock
// crosses into the next whole millisecond. RAPL counters update on a
// ~1ms cadence; starting a sample mid-update-window would bias its
// first reading. Deliberately a busy-wait, not a sleep: sleeping would
// overshoot the boundary by an unpredictable scheduling latency.
func waitForNextMillisecondBoundary() {
	start := clock.Now()
	target := (start/millisecond + 1) * millisecond
	for clock.Now() < target {
	}
}
