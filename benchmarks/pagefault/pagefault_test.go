//go:build linux

package pagefault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagefault_WalksAndWraps(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	for i := 0; i < regionSize/pageSize+5; i++ {
		ns := a.MeasuredOperation(&state)
		assert.GreaterOrEqual(t, ns, uint64(0))
	}
}
