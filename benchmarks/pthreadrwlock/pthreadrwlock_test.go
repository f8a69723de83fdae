//go:build linux

package pthreadrwlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRead_RoundTrip(t *testing.T) {
	a := NewRead()
	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
}

func TestNewWrite_RoundTrip(t *testing.T) {
	a := NewWrite()
	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
}
