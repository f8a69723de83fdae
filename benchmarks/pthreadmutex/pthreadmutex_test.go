//go:build linux

package pthreadmutex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPthreadMutex_LockUnlockRoundTrip(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	for i := 0; i < 100; i++ {
		ns := a.MeasuredOperation(&state)
		assert.GreaterOrEqual(t, ns, uint64(0))
	}
}
