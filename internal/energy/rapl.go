//go:build linux

// Package energy provides the energy sources the harness's
// energy-per-operation loop (harness.RunEnergy) reads: Intel RAPL
// counters through the per-CPU MSR device, and (when RAPL is
// unavailable) an estimated fallback derived from cgroup CPU
// accounting.
package energy

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// RAPL MSR offsets, per Intel's SDM volume 4, table "MSRs in Processors
// Based on Intel Microarchitecture Code Name Sandy Bridge" onward.
const (
	offsetPowerUnit  = 0x606
	offsetPkgEnergy  = 0x611
	offsetDRAMEnergy = 0x619
)

// counterMask truncates to the low 32 bits: the RAPL energy counters
// are 32-bit and wrap, so any delta must be computed after masking
// both readings down to that width.
const counterMask = 0xFFFFFFFF

// MSR reads RAPL counters for one measuring PU through
// /dev/cpu/<os index>/msr. Opened once per energy run and read twice
// per sample (start/end); never touched outside the measuring thread.
type MSR struct {
	f          *os.File
	energyUnit float64 // joules per count
}

// OpenMSR opens the MSR device for osIndex and derives the energy-unit
// scale from the power-unit MSR. Returns an error if the device can't
// be opened (no CAP_SYS_RAWIO, msr module not loaded, non-Intel host)
// or read — callers must treat that as "energy measurement
// unavailable here", not a fatal condition.
func OpenMSR(osIndex int) (*MSR, error) {
	path := fmt.Sprintf("/dev/cpu/%d/msr", osIndex)
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("energy: open %s: %w", path, err)
	}

	raw, err := readMSR(f, offsetPowerUnit)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("energy: read power-unit MSR: %w", err)
	}

	shift := (raw >> 8) & 0x1f
	unit := 1.0
	for i := uint64(0); i < shift; i++ {
		unit /= 2
	}

	return &MSR{f: f, energyUnit: unit}, nil
}

// EnergyUnit returns the joules-per-count scale derived at open time.
func (m *MSR) EnergyUnit() float64 { return m.energyUnit }

// ReadPackageEnergy returns the current package-energy counter value,
// truncated to 32 bits.
func (m *MSR) ReadPackageEnergy() (uint64, error) {
	v, err := readMSR(m.f, offsetPkgEnergy)
	if err != nil {
		return 0, fmt.Errorf("energy: read package-energy MSR: %w", err)
	}
	return v & counterMask, nil
}

// ReadDRAMEnergy returns the current DRAM-energy counter value,
// truncated to 32 bits.
func (m *MSR) ReadDRAMEnergy() (uint64, error) {
	v, err := readMSR(m.f, offsetDRAMEnergy)
	if err != nil {
		return 0, fmt.Errorf("energy: read DRAM-energy MSR: %w", err)
	}
	return v & counterMask, nil
}

// Close releases the MSR device.
func (m *MSR) Close() error {
	return m.f.Close()
}

func readMSR(f *os.File, offset int64) (uint64, error) {
	var buf [8]byte
	n, err := unix.Pread(int(f.Fd()), buf[:], offset)
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, fmt.Errorf("short read: got %d bytes, want %d", n, len(buf))
	}
	return uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
		uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56, nil
}

// WrappedDelta computes end-start for a 32-bit counter that may have
// wrapped exactly once between the two reads (both already truncated
// to 32 bits by ReadPackageEnergy/ReadDRAMEnergy).
func WrappedDelta(start, end uint64) uint64 {
	if end >= start {
		return end - start
	}
	return (end + counterMask + 1) - start
}

// PerOperationNJ converts a raw counter delta into nanojoules per
// operation: delta * energyUnit (joules/count) * 1e9 (nJ/J) /
// operations.
func PerOperationNJ(delta uint64, energyUnit float64, operations uint64) float64 {
	if operations == 0 {
		return 0
	}
	return float64(delta) * energyUnit * 1e9 / float64(operations)
}
