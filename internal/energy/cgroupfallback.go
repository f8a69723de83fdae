//go:build linux

package energy

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// PowerCurve models watts as a function of CPU utilisation:
// P(u) = PIdle + (PMax-PIdle) * u^Gamma. Coefficients are a rough
// per-core default; accurate only in relative, not absolute, terms.
type PowerCurve struct {
	PIdle float64 // watts at zero utilisation
	PMax  float64 // watts at full utilisation
	Gamma float64 // CPU power nonlinearity
}

// DefaultPowerCurve is a generic desktop/server-core estimate, used
// when no hardware-specific figures are available.
var DefaultPowerCurve = PowerCurve{PIdle: 5.0, PMax: 20.0, Gamma: 1.3}

// Watts estimates instantaneous power draw at the given utilisation,
// clamped to [0,1].
func (c PowerCurve) Watts(utilization float64) float64 {
	u := utilization
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	return c.PIdle + (c.PMax-c.PIdle)*math.Pow(u, c.Gamma)
}

// CgroupCPUUsageUsec reads the cumulative CPU time (in microseconds)
// this process's cgroup v2 has consumed, from cpu.stat's usage_usec
// field.
//
// Adapted from the mountinfo-scanning idiom used to detect cgroup
// version: a bufio.Scanner over a small /sys/fs/cgroup pseudo-file,
// picking one field out by name.
func CgroupCPUUsageUsec(cgroupCPUStatPath string) (uint64, error) {
	f, err := os.Open(cgroupCPUStatPath)
	if err != nil {
		return 0, fmt.Errorf("energy: open %s: %w", cgroupCPUStatPath, err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		if fields[0] != "usage_usec" {
			continue
		}
		v, parseErr := strconv.ParseUint(fields[1], 10, 64)
		if parseErr != nil {
			return 0, fmt.Errorf("energy: parse usage_usec: %w", parseErr)
		}
		return v, nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("energy: scan %s: %w", cgroupCPUStatPath, err)
	}
	return 0, fmt.Errorf("energy: usage_usec not found in %s", cgroupCPUStatPath)
}

// EstimateJoules converts a CPU-time delta (this cgroup, over
// wallClockUsec of real time) into an estimated energy figure using
// curve. Utilisation is cpuUsec/wallClockUsec, a share of one core.
func EstimateJoules(curve PowerCurve, cpuUsec, wallClockUsec uint64) float64 {
	if wallClockUsec == 0 {
		return 0
	}
	utilization := float64(cpuUsec) / float64(wallClockUsec)
	watts := curve.Watts(utilization)
	return watts * float64(wallClockUsec) / 1e6
}
