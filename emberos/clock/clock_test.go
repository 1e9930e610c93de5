package clock

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCounter(time.Millisecond)
	assert.Equal(t, Tick(0), c.Tick())
	assert.Equal(t, Tick(5), c.Advance(5))
	assert.Equal(t, Tick(5), c.Tick())

	assert.Equal(t, Tick(3), c.Ticks(2500*time.Microsecond))
	assert.Equal(t, Tick(1), c.Ticks(time.Nanosecond))
	assert.Equal(t, Tick(0), c.Ticks(0))
	assert.Equal(t, 40*time.Millisecond, c.Duration(40))
}

func TestCounterConcurrentAdvance(t *testing.T) {
	c := NewCounter(time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Advance(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, Tick(8000), c.Tick())
}

func TestTimer(t *testing.T) {
	var tm Timer
	assert.False(t, tm.Armed())
	assert.False(t, tm.Expired(100))
	assert.Zero(t, tm.Remaining(100))

	tm.Set(10, 5)
	require.True(t, tm.Armed())
	assert.False(t, tm.Expired(14))
	assert.Equal(t, Tick(1), tm.Remaining(14))
	assert.True(t, tm.Expired(15))
	assert.Equal(t, Tick(3), tm.Overdue(18))

	tm.Reload(18)
	assert.False(t, tm.Expired(22))
	assert.True(t, tm.Expired(23))

	tm.Disarm()
	assert.False(t, tm.Expired(1000))
	tm.Reload(50)
	assert.False(t, tm.Armed())

	tm.Set(5, 0)
	assert.True(t, tm.Expired(5), "zero interval expires immediately")
}

func TestTimerWraparound(t *testing.T) {
	var tm Timer
	tm.Set(Tick(math.MaxUint32-2), 10)
	assert.False(t, tm.Expired(5))
	assert.Equal(t, Tick(8), tm.Elapsed(5))
	assert.True(t, tm.Expired(7))
}

func TestSourceFunc(t *testing.T) {
	var s Source = SourceFunc(func() Tick { return 42 })
	assert.Equal(t, Tick(42), s.Tick())
}
