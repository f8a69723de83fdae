//go:build linux

package topology

import "fmt"

// Scenario identifies where, relative to the measuring PU, a
// co-running "noisy" thread should be placed.
type Scenario int

const (
	NoInterference Scenario = iota
	LocalCore               // co-runner on a sibling hardware thread of the same core (SMT)
	RemoteCore              // co-runner on a different core of the same package (multicore)
	RemotePackage            // co-runner on a different package (NUMA)
)

// String returns the bit-exact scenario literal used in CSV output.
func (s Scenario) String() string {
	switch s {
	case NoInterference:
		return "No interference"
	case LocalCore:
		return "SMT interference"
	case RemoteCore:
		return "Multicore interference"
	case RemotePackage:
		return "NUMA interference"
	default:
		return fmt.Sprintf("Scenario(%d)", int(s))
	}
}

// Mask is a bitset over the four Scenario values, selected on the
// command line with -i.
type Mask uint8

const (
	MaskNoInterference Mask = 1 << iota
	MaskLocalCore
	MaskRemoteCore
	MaskRemotePackage

	MaskAll   = MaskNoInterference | MaskLocalCore | MaskRemoteCore | MaskRemotePackage
	MaskEmpty = Mask(0)
)

// Has reports whether the mask selects the given scenario.
func (m Mask) Has(s Scenario) bool {
	switch s {
	case NoInterference:
		return m&MaskNoInterference != 0
	case LocalCore:
		return m&MaskLocalCore != 0
	case RemoteCore:
		return m&MaskRemoteCore != 0
	case RemotePackage:
		return m&MaskRemotePackage != 0
	default:
		return false
	}
}

// Scenarios returns the scenarios selected by the mask, in the order
// latency/energy loops should run them: NUMA, multicore, SMT, none —
// matching original_source/benchmark.h's run_latency_benchmarks order.
func (m Mask) Scenarios() []Scenario {
	var out []Scenario
	for _, s := range []Scenario{RemotePackage, RemoteCore, LocalCore, NoInterference} {
		if m.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// ParseInterferenceFlag parses the -i flag value into a Mask.
// Recognised tokens: all, none, smt, mc, numa.
func ParseInterferenceFlag(s string) (Mask, error) {
	switch s {
	case "all":
		return MaskAll, nil
	case "none":
		return MaskNoInterference, nil
	case "smt":
		return MaskLocalCore, nil
	case "mc":
		return MaskRemoteCore, nil
	case "numa":
		return MaskRemotePackage, nil
	default:
		return 0, fmt.Errorf("error: unknown interference selector %q (want all|none|smt|mc|numa)", s)
	}
}
