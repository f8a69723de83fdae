//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/penberg/posixbench/internal/energy"
	"github.com/penberg/posixbench/internal/harness"
	"github.com/penberg/posixbench/internal/output"
	"github.com/penberg/posixbench/internal/suite"
	"github.com/penberg/posixbench/internal/topology"
)

type opts struct {
	measuringPU    int
	interference   string
	latencyPath    string
	duration       int
	energyPath     string
	energySamples  int
	interferers    int
	suitePath      string
	estimateEnergy bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "posixbench [benchmark]",
		Short: "OS-primitive latency/energy benchmarking harness",
		Long: `posixbench measures the latency and energy cost of POSIX
primitives (syscalls, mmap, pthread locks, wakeups) under four CPU
topology interference scenarios: none, SMT, multicore, and NUMA.

Run a single benchmark by name, or pass --suite to sweep a batch of
them from a YAML file.

* GitHub: https://github.com/penberg/posixbench`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, args)
		},
	}

	root.Flags().IntVarP(&o.measuringPU, "measuring-pu", "m", 0, "measuring CPU OS index")
	root.Flags().StringVarP(&o.interference, "interference", "i", "all", "interference selector: all|none|smt|mc|numa")
	root.Flags().StringVarP(&o.latencyPath, "latency-output", "l", "", "CSV output path for latency mode")
	root.Flags().IntVarP(&o.duration, "duration", "d", 30, "latency measurement duration, seconds")
	root.Flags().StringVarP(&o.energyPath, "energy-output", "e", "", "CSV output path for energy mode")
	root.Flags().IntVarP(&o.energySamples, "energy-samples", "s", 30, "energy sample count")
	root.Flags().IntVar(&o.interferers, "interferers", 1, "number of interfering threads")
	root.Flags().StringVar(&o.suitePath, "suite", "", "path to a YAML benchmark suite to run instead of a single benchmark")
	root.Flags().BoolVar(&o.estimateEnergy, "estimate-energy", false, "fall back to a cgroup-derived energy estimate when RAPL is unavailable")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list every registered benchmark name",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range benchmarkNames {
				fmt.Println(name)
			}
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		if strings.HasPrefix(err.Error(), "error: ") {
			fmt.Fprintln(os.Stderr, err)
		} else {
			slog.Error(err.Error())
		}
		os.Exit(1)
	}
}

func run(o opts, args []string) error {
	harness.InstallSignalHandlers()

	if o.suitePath != "" {
		return runSuite(o)
	}
	if len(args) != 1 {
		return fmt.Errorf("posixbench: exactly one benchmark name is required (or pass --suite)")
	}
	return runOne(args[0], o)
}

func runSuite(o opts) error {
	cfg, err := suite.Load(o.suitePath)
	if err != nil {
		return err
	}
	for _, b := range cfg.Benchmarks {
		merged := o
		merged.interference = firstNonEmpty(b.Interference, o.interference)
		if b.MeasuringPU != 0 {
			merged.measuringPU = b.MeasuringPU
		}
		if b.Duration > 0 {
			merged.duration = int(b.Duration / time.Second)
		}
		merged.latencyPath = firstNonEmpty(b.LatencyOutput, o.latencyPath)
		merged.energyPath = firstNonEmpty(b.EnergyOutput, o.energyPath)
		if b.EnergySamples > 0 {
			merged.energySamples = b.EnergySamples
		}
		merged.estimateEnergy = b.EstimateEnergy || o.estimateEnergy

		slog.Info("running suite entry", "benchmark", b.Name)
		if err := runOne(b.Name, merged); err != nil {
			return fmt.Errorf("suite entry %q: %w", b.Name, err)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runOne(name string, o opts) error {
	mask, err := topology.ParseInterferenceFlag(o.interference)
	if err != nil {
		return err
	}

	snap, err := topology.Load()
	if err != nil {
		return fmt.Errorf("posixbench: load topology: %w", err)
	}
	measuring, ok := snap.PU(o.measuringPU)
	if !ok {
		return fmt.Errorf("posixbench: measuring PU %d not found", o.measuringPU)
	}

	slog.Info("posixbench starting", "benchmark", name, "measuring_pu", measuring.OSIndex,
		"pus", len(snap.PUs()), "interference", o.interference, "interferers", o.interferers)

	b, err := buildRunner(name, o.interferers)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			slog.Warn("close benchmark", "benchmark", name, "err", cerr)
		}
	}()

	if o.latencyPath != "" {
		if err := runLatencyMode(b, name, snap, measuring, mask, o); err != nil {
			return err
		}
	}
	if o.energyPath != "" {
		if err := runEnergyMode(b, name, snap, measuring, mask, o); err != nil {
			return err
		}
	}
	return nil
}

func runLatencyMode(b runner, name string, snap topology.Snapshot, measuring topology.PU, mask topology.Mask, o opts) error {
	w, err := output.NewLatencyWriter(o.latencyPath)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for _, scenario := range mask.Scenarios() {
		result, ok, err := b.RunLatency(snap, measuring, scenario, time.Duration(o.duration)*time.Second, o.interferers)
		if err != nil {
			return fmt.Errorf("posixbench: %s latency under %s: %w", name, scenario, err)
		}
		if !ok {
			slog.Info("scenario skipped", "benchmark", name, "scenario", scenario, "mode", "latency")
			continue
		}
		if err := w.WriteResult(result); err != nil {
			return err
		}
	}

	if size, err := output.FileSize(o.latencyPath); err == nil {
		slog.Info("wrote latency CSV", "path", o.latencyPath, "size", size.Humanized())
	}
	return nil
}

func runEnergyMode(b runner, name string, snap topology.Snapshot, measuring topology.PU, mask topology.Mask, o opts) error {
	w, err := output.NewEnergyWriter(o.energyPath)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for _, scenario := range mask.Scenarios() {
		samples, ok, err := b.RunEnergy(snap, measuring, scenario, o.energySamples)
		if err != nil {
			return fmt.Errorf("posixbench: %s energy under %s: %w", name, scenario, err)
		}
		if !ok {
			if o.estimateEnergy {
				if err := runEstimatedEnergy(w, name, measuring, scenario, o); err != nil {
					return err
				}
				continue
			}
			slog.Info("scenario skipped", "benchmark", name, "scenario", scenario, "mode", "energy", "reason", "RAPL unavailable")
			continue
		}
		for _, s := range samples {
			if err := w.WriteSample(name, s); err != nil {
				return err
			}
		}
	}

	if size, err := output.FileSize(o.energyPath); err == nil {
		slog.Info("wrote energy CSV", "path", o.energyPath, "size", size.Humanized())
	}
	return nil
}

// runEstimatedEnergy is the cgroup-based fallback for hosts without
// CAP_SYS_RAWIO/MSR access: it reports one sample covering the whole
// sample window's worth of wall-clock time, scaled by a generic power
// curve. These figures are order-of-magnitude estimates, never RAPL's
// hardware-measured joules, and the CSV marks them accordingly.
func runEstimatedEnergy(w *output.EnergyWriter, name string, measuring topology.PU, scenario topology.Scenario, o opts) error {
	const cgroupCPUStat = "/sys/fs/cgroup/cpu.stat"

	before, err := energy.CgroupCPUUsageUsec(cgroupCPUStat)
	if err != nil {
		slog.Warn("estimated energy unavailable", "benchmark", name, "scenario", scenario, "err", err)
		return nil
	}
	window := time.Duration(o.energySamples) * time.Second
	time.Sleep(window)
	after, err := energy.CgroupCPUUsageUsec(cgroupCPUStat)
	if err != nil {
		slog.Warn("estimated energy unavailable", "benchmark", name, "scenario", scenario, "err", err)
		return nil
	}

	wallUsec := uint64(window / time.Microsecond)
	joules := energy.EstimateJoules(energy.DefaultPowerCurve, after-before, wallUsec)

	return w.WriteEstimatedSample(name, harness.EnergySample{
		Scenario:         scenario,
		Operations:       1,
		DurationPerOpNS:  float64(window.Nanoseconds()),
		PkgEnergyPerOpNJ: joules * 1e9,
	})
}
