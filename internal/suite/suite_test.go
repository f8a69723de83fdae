package suite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
benchmarks:
  - name: getuid
    interference: all
    duration: 10s
    latency_output: getuid-latency.csv
  - name: mmap-munmap
    interference: mc
    measuring_pu: 2
    energy_samples: 5
    energy_output: mmap-energy.csv
    estimate_energy: true
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	return path
}

func TestLoad_ParsesEntries(t *testing.T) {
	path := writeFixture(t)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Benchmarks, 2)

	first := cfg.Benchmarks[0]
	assert.Equal(t, "getuid", first.Name)
	assert.Equal(t, "all", first.Interference)
	assert.Equal(t, 10*time.Second, first.Duration)

	second := cfg.Benchmarks[1]
	assert.Equal(t, 2, second.MeasuringPU)
	assert.True(t, second.EstimateEnergy)
	assert.Equal(t, 5, second.EnergySamples)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/suite.yaml")
	assert.Error(t, err)
}

func TestLoad_EmptySuiteRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benchmarks: []\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingNameRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benchmarks:\n  - duration: 1s\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
