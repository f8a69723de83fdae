//go:build linux

package pthreadspinlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinlock_MutualExclusion(t *testing.T) {
	lock := &spinlock{}
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				lock.Lock()
				counter++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8000, counter)
}

func TestNew_ActionContract(t *testing.T) {
	a := New()
	state := a.MakeState(nil)
	a.RawOperation(&state)
	ns := a.MeasuredOperation(&state)
	assert.GreaterOrEqual(t, ns, uint64(0))
}
