//go:build linux

package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penberg/posixbench/internal/harness"
	"github.com/penberg/posixbench/internal/topology"
)

func TestLatencyWriter_HeaderOnceAndRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latency.csv")
	w, err := NewLatencyWriter(path)
	require.NoError(t, err)

	result := harness.LatencyResult{
		Scenario: topology.NoInterference,
		MeanNS:   100.5,
		StddevNS: 12.3,
		Samples:  1000,
	}
	for p := 1; p <= 99; p++ {
		result.Percentiles = append(result.Percentiles, harness.PercentileRow{Percentile: float64(p), ValueNS: uint64(p * 10)})
	}
	for _, p := range []float64{99.9, 99.99, 99.999, 100} {
		result.Percentiles = append(result.Percentiles, harness.PercentileRow{Percentile: p, ValueNS: 2000})
	}

	require.NoError(t, w.WriteResult(result))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"scenario", "percentile", "time"}, records[0])
	assert.Len(t, records, 1+3+103)
	assert.Equal(t, "No interference", records[1][0])
	assert.Equal(t, "mean", records[1][1])
}

func TestEnergyWriter_HeaderOnceAndRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.csv")
	w, err := NewEnergyWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteSample("bench-getuid", harness.EnergySample{
		Scenario:          topology.NoInterference,
		Operations:        1_000_000,
		DurationPerOpNS:   25.4,
		PkgEnergyPerOpNJ:  15.25,
		DRAMEnergyPerOpNJ: 2.1,
	}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "bench-getuid", records[1][0])
	assert.Equal(t, "No interference", records[1][1])
}

func TestBytes_Humanized(t *testing.T) {
	assert.Equal(t, "512 B", Bytes(512).Humanized())
	assert.Equal(t, "1.00 KB", Bytes(1024).Humanized())
	assert.Equal(t, "2.00 MB", Bytes(2*1024*1024).Humanized())
}
