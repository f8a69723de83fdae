// Package suite loads a batch of benchmark runs from a YAML file, so
// a full sweep across payloads and interference scenarios can be
// driven from one -suite invocation instead of one process per
// payload.
package suite

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BenchmarkSpec is one entry in a suite file: which payload to run,
// under what scenario selector, for how long, and where to write
// results. Zero-valued fields fall back to the CLI driver's own
// defaults.
type BenchmarkSpec struct {
	Name           string        `yaml:"name"`
	Interference   string        `yaml:"interference"`
	MeasuringPU    int           `yaml:"measuring_pu"`
	Duration       time.Duration `yaml:"duration"`
	LatencyOutput  string        `yaml:"latency_output"`
	EnergySamples  int           `yaml:"energy_samples"`
	EnergyOutput   string        `yaml:"energy_output"`
	EstimateEnergy bool          `yaml:"estimate_energy"`
}

// Config is the top-level shape of a suite file.
type Config struct {
	Benchmarks []BenchmarkSpec `yaml:"benchmarks"`
}

// Load parses a suite file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("suite: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	if len(cfg.Benchmarks) == 0 {
		return Config{}, fmt.Errorf("suite: %s defines no benchmarks", path)
	}
	for i, b := range cfg.Benchmarks {
		if b.Name == "" {
			return Config{}, fmt.Errorf("suite: entry %d missing name", i)
		}
	}
	return cfg, nil
}
