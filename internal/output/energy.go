//go:build linux

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/penberg/posixbench/internal/harness"
)

// EnergyWriter emits the energy CSV:
// Benchmark,Scenario,Operations,DurationPerOperation(ns),PackageEnergyPerOperation(nJ),DRAMEnergyPerOperation(nJ)
type EnergyWriter struct {
	f           *os.File
	w           *csv.Writer
	wroteHeader bool
}

// NewEnergyWriter creates (or truncates) path and wraps it in a CSV writer.
func NewEnergyWriter(path string) (*EnergyWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output: create %s: %w", path, err)
	}
	return &EnergyWriter{f: f, w: csv.NewWriter(f)}, nil
}

// WriteSample appends one 1-second energy sample row for benchmark.
func (ew *EnergyWriter) WriteSample(benchmark string, s harness.EnergySample) error {
	return ew.writeRow(benchmark, s.Scenario.String(), s)
}

// WriteEstimatedSample is WriteSample for a cgroup-derived estimate
// rather than a RAPL measurement: the benchmark name is left
// unmodified and the "(estimated)" marker is appended to the scenario
// column instead, so a consumer grouping rows by benchmark name still
// sees the real name.
func (ew *EnergyWriter) WriteEstimatedSample(benchmark string, s harness.EnergySample) error {
	return ew.writeRow(benchmark, s.Scenario.String()+" (estimated)", s)
}

func (ew *EnergyWriter) writeRow(benchmark, scenario string, s harness.EnergySample) error {
	if !ew.wroteHeader {
		if err := ew.w.Write([]string{
			"Benchmark", "Scenario", "Operations", "DurationPerOperation(ns)",
			"PackageEnergyPerOperation(nJ)", "DRAMEnergyPerOperation(nJ)",
		}); err != nil {
			return fmt.Errorf("output: write energy header: %w", err)
		}
		ew.wroteHeader = true
	}

	row := []string{
		benchmark,
		scenario,
		strconv.FormatUint(s.Operations, 10),
		formatFloat(s.DurationPerOpNS),
		formatFloat(s.PkgEnergyPerOpNJ),
		formatFloat(s.DRAMEnergyPerOpNJ),
	}
	if err := ew.w.Write(row); err != nil {
		return fmt.Errorf("output: write energy row: %w", err)
	}
	ew.w.Flush()
	return ew.w.Error()
}

// Close flushes and closes the underlying file.
func (ew *EnergyWriter) Close() error {
	ew.w.Flush()
	return ew.f.Close()
}
