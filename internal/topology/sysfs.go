//go:build linux

package topology

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const cpuSysfsRoot = "/sys/devices/system/cpu"

var cpuDirRe = regexp.MustCompile(`^cpu(\d+)$`)

// Load builds a Snapshot from /sys/devices/system/cpu on the running
// machine: one PU per online cpuN directory, core_id/physical_package_id
// read from each cpuN/topology/ sub-directory.
//
// Modeled on how cgroup.Detect scans /proc/self/mountinfo line by
// line with bufio.Scanner rather than slurping the whole file.
func Load() (Snapshot, error) {
	entries, err := os.ReadDir(cpuSysfsRoot)
	if err != nil {
		return Snapshot{}, fmt.Errorf("topology: read %s: %w", cpuSysfsRoot, err)
	}

	var osIndexes []int
	for _, e := range entries {
		m := cpuDirRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		osIndexes = append(osIndexes, idx)
	}
	sort.Ints(osIndexes)

	var pus []PU
	for _, idx := range osIndexes {
		if !isOnline(idx) {
			continue
		}
		coreID, err := readSysfsInt(filepath.Join(cpuSysfsRoot, fmt.Sprintf("cpu%d", idx), "topology", "core_id"))
		if err != nil {
			return Snapshot{}, fmt.Errorf("topology: cpu%d core_id: %w", idx, err)
		}
		pkgID, err := readSysfsInt(filepath.Join(cpuSysfsRoot, fmt.Sprintf("cpu%d", idx), "topology", "physical_package_id"))
		if err != nil {
			return Snapshot{}, fmt.Errorf("topology: cpu%d physical_package_id: %w", idx, err)
		}
		pus = append(pus, PU{OSIndex: idx, Core: CoreID(coreID), Package: PackageID(pkgID)})
	}

	return Snapshot{pus: pus}, nil
}

// isOnline reports whether CPU 0 (always online and often missing an
// "online" sysfs file entirely) or any other CPU is currently online.
func isOnline(idx int) bool {
	path := filepath.Join(cpuSysfsRoot, fmt.Sprintf("cpu%d", idx), "online")
	f, err := os.Open(path)
	if err != nil {
		// cpu0 frequently has no "online" knob; treat missing as online.
		return true
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return true
	}
	return strings.TrimSpace(sc.Text()) != "0"
}

func readSysfsInt(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return 0, fmt.Errorf("empty file")
	}
	return strconv.Atoi(strings.TrimSpace(sc.Text()))
}

// FromDescription builds a synthetic Snapshot with the given number of
// sockets, cores per socket and hardware threads per core, numbering
// PUs by OS index in package-major, core-minor, thread-innermost
// order. Used by tests that need a deterministic grid instead of the
// real machine's topology (e.g. the 2x2x2 grid spec property tests
// require).
func FromDescription(sockets, coresPerSocket, threadsPerCore int) Snapshot {
	var pus []PU
	osIdx := 0
	for pkg := 0; pkg < sockets; pkg++ {
		for core := 0; core < coresPerSocket; core++ {
			coreID := pkg*coresPerSocket + core
			for thread := 0; thread < threadsPerCore; thread++ {
				pus = append(pus, PU{
					OSIndex: osIdx,
					Core:    CoreID(coreID),
					Package: PackageID(pkg),
				})
				osIdx++
			}
		}
	}
	return Snapshot{pus: pus}
}
