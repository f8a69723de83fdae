//go:build linux

package mmapmunmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMmapMunmap_RunsRepeatedly(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	for i := 0; i < 10; i++ {
		ns := a.MeasuredOperation(&state)
		assert.GreaterOrEqual(t, ns, uint64(0))
	}
}
