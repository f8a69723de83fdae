//go:build linux

// Package topology enumerates processing units (PUs), their parent
// cores and packages, and resolves a co-runner PU for each
// interference scenario. See Snapshot and Resolve.
package topology

// PU identifies one processing unit (a hardware thread — a full core
// when SMT is off, one of several siblings when it's on).
type PU struct {
	OSIndex int
	Core    CoreID
	Package PackageID
}

// CoreID and PackageID are opaque identifiers from the Snapshot that
// produced them. A CoreID is unique only within its package (sysfs
// core_id values repeat across sockets), so a physical core is
// identified by the (Package, Core) pair.
type CoreID int
type PackageID int

// Snapshot is a point-in-time inventory of a machine's (or a
// synthetic) PU/core/package hierarchy.
type Snapshot struct {
	pus []PU
}

// PUs returns all known processing units, ordered by OS index.
func (s Snapshot) PUs() []PU {
	out := make([]PU, len(s.pus))
	copy(out, s.pus)
	return out
}

// PU looks up a processing unit by its OS index.
func (s Snapshot) PU(osIndex int) (PU, bool) {
	for _, pu := range s.pus {
		if pu.OSIndex == osIndex {
			return pu, true
		}
	}
	return PU{}, false
}
