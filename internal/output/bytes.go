package output

import (
	"fmt"
	"os"
)

// Bytes is a uint64 wrapper representing a size in bytes, used to
// report the size of a finished CSV file in a human-readable form.
type Bytes uint64

// Humanized returns a human-readable string with automatic unit (B, KB, MB, GB).
func (b Bytes) Humanized() string {
	const unit = 1024
	v := float64(b)
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// FileSize stats path and returns its size as Bytes. Used after
// closing a CSV writer to log how much was written.
func FileSize(path string) (Bytes, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return Bytes(info.Size()), nil
}
