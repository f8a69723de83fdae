//go:build linux

package gettime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGettime_MeasuredOperation(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
}
