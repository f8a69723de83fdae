//go:build linux

package pthreadyield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYield_MeasuredOperation(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
}
