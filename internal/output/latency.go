//go:build linux

// Package output serialises harness results to the CSV format the
// rest of the toolchain consumes: one writer per program invocation,
// header written once, each row flushed as it's produced so a killed
// process still leaves a readable partial file.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/penberg/posixbench/internal/harness"
)

// LatencyWriter emits the latency CSV: scenario,percentile,time with
// a fixed header written exactly once.
type LatencyWriter struct {
	f           *os.File
	w           *csv.Writer
	wroteHeader bool
}

// NewLatencyWriter creates (or truncates) path and wraps it in a CSV
// writer. Parent directories are not created; they must already exist.
func NewLatencyWriter(path string) (*LatencyWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output: create %s: %w", path, err)
	}
	return &LatencyWriter{f: f, w: csv.NewWriter(f)}, nil
}

// WriteResult appends one scenario's mean/stddev/samples/percentile
// rows, in the order §4.3 specifies.
func (lw *LatencyWriter) WriteResult(r harness.LatencyResult) error {
	if !lw.wroteHeader {
		if err := lw.w.Write([]string{"scenario", "percentile", "time"}); err != nil {
			return fmt.Errorf("output: write latency header: %w", err)
		}
		lw.wroteHeader = true
	}

	scenario := r.Scenario.String()
	rows := [][]string{
		{scenario, "mean", formatFloat(r.MeanNS)},
		{scenario, "stddev", formatFloat(r.StddevNS)},
		{scenario, "samples", strconv.FormatUint(r.Samples, 10)},
	}
	for _, p := range r.Percentiles {
		rows = append(rows, []string{scenario, formatPercentile(p.Percentile), strconv.FormatUint(p.ValueNS, 10)})
	}

	for _, row := range rows {
		if err := lw.w.Write(row); err != nil {
			return fmt.Errorf("output: write latency row: %w", err)
		}
	}
	lw.w.Flush()
	return lw.w.Error()
}

// Close flushes and closes the underlying file.
func (lw *LatencyWriter) Close() error {
	lw.w.Flush()
	return lw.f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercentile(p float64) string {
	if p == float64(int64(p)) {
		return strconv.FormatInt(int64(p), 10)
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}
