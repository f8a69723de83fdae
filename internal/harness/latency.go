//go:build linux

package harness

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/histogram"
	"github.com/penberg/posixbench/internal/topology"
)

// tailPercentiles are the non-integer percentiles appended after the
// 99 integer ones, in emission order.
var tailPercentiles = []float64{99.9, 99.99, 99.999, 100}

// PercentileRow is one (percentile, value) pair of the latency report.
type PercentileRow struct {
	Percentile float64
	ValueNS    uint64
}

// LatencyResult is everything the latency loop produced for one
// scenario, ready to hand to an output writer.
type LatencyResult struct {
	Scenario    topology.Scenario
	MeanNS      float64
	StddevNS    float64
	Samples     uint64
	Percentiles []PercentileRow
}

// latencyHistogramRange bounds the histogram: 1ns floor (a sample is
// never recorded as 0, the clock is monotonic) up to 10 seconds, which
// comfortably covers every payload this harness ships, including
// blocking wakeup benchmarks.
const (
	latencyHistogramLowest  = 1
	latencyHistogramHighest = 10_000_000_000
	latencyHistogramSigDigs = 3
)

// RunLatency drives the latency loop for a single (action, scenario)
// pair: it resolves the co-runner PU, starts interference, samples
// measured_operation on the bound measuring thread for duration, and
// returns the aggregated histogram statistics. ok is false when the
// scenario was silently skipped (NoInterference requested against a
// payload that disclaims it, or no co-runner PU available).
func RunLatency[S any](a action.Action[S], snap topology.Snapshot, measuring topology.PU, scenario topology.Scenario, duration time.Duration, interferers int) (result LatencyResult, ok bool, err error) {
	if scenario == topology.NoInterference && !a.SupportsNoInterference() {
		return LatencyResult{}, false, nil
	}

	var group *InterferenceGroup
	if scenario != topology.NoInterference {
		coRunner, found := topology.Resolve(snap, measuring, scenario)
		if !found {
			slog.Warn("scenario unavailable on this topology", "scenario", scenario, "pu", measuring.OSIndex)
			return LatencyResult{}, false, nil
		}
		group = StartInterferers[S](a, coRunner, interferers)
		defer func() {
			group.Stop()
			group.Kick()
			group.Join()
		}()
	}

	hist := histogram.New(latencyHistogramLowest, latencyHistogramHighest, latencyHistogramSigDigs)

	type outcome struct {
		hist *histogram.Histogram
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if bindErr := topology.BindCurrentThread(measuring); bindErr != nil {
			done <- outcome{err: fmt.Errorf("harness: bind measuring thread: %w", bindErr)}
			return
		}

		var handles []action.ThreadHandle
		if group != nil {
			handles = group.Handles
		}
		state := a.MakeState(handles)

		ResetWindowFlags()
		// alarm(2) has whole-second resolution: duration is rounded to the
		// nearest second, and anything shorter runs for one second.
		alarmSecs := uint(duration.Round(time.Second).Seconds())
		if alarmSecs == 0 {
			alarmSecs = 1
		}
		if _, alarmErr := unix.Alarm(alarmSecs); alarmErr != nil {
			done <- outcome{err: fmt.Errorf("harness: arm alarm: %w", alarmErr)}
			return
		}

		for !WindowExpired() {
			ns := a.MeasuredOperation(&state)
			if ns == 0 {
				ns = 1 // clock is monotonic; a zero sample is an artifact, not a real one
			}
			hist.Record(ns)
		}
		done <- outcome{hist: hist}
	}()

	out := <-done
	if out.err != nil {
		return LatencyResult{}, false, out.err
	}

	return buildLatencyResult(scenario, hist), true, nil
}

func buildLatencyResult(scenario topology.Scenario, h *histogram.Histogram) LatencyResult {
	rows := make([]PercentileRow, 0, 99+len(tailPercentiles))
	for p := 1; p <= 99; p++ {
		rows = append(rows, PercentileRow{Percentile: float64(p), ValueNS: h.ValueAtPercentile(float64(p))})
	}
	for _, p := range tailPercentiles {
		rows = append(rows, PercentileRow{Percentile: p, ValueNS: h.ValueAtPercentile(p)})
	}
	return LatencyResult{
		Scenario:    scenario,
		MeanNS:      h.Mean(),
		StddevNS:    h.Stddev(),
		Samples:     h.TotalCount(),
		Percentiles: rows,
	}
}
