//go:build linux

package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMmap_MeasuredOperation(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
	a.RawOperation(&state)
	a.OtherOperation(&state, 0)
	assert.True(t, a.SupportsNoInterference())
}
