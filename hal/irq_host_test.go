//go:build !tinygo

package hal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostIRQNested(t *testing.T) {
	q := newHostIRQ()
	outer := q.Disable()
	assert.Equal(t, uint32(0), outer)
	inner := q.Disable()
	assert.Equal(t, IRQMasked, inner)

	q.Restore(inner)
	assert.True(t, q.Masked())
	q.Restore(outer)
	assert.False(t, q.Masked())
}

func TestHostIRQExcludesOtherGoroutines(t *testing.T) {
	q := newHostIRQ()
	state := q.Disable()

	entered := make(chan struct{})
	go func() {
		s := q.Disable()
		close(entered)
		q.Restore(s)
	}()

	select {
	case <-entered:
		t.Fatal("second goroutine entered while masked")
	case <-time.After(20 * time.Millisecond):
	}

	q.Restore(state)
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second goroutine never entered")
	}
}

func TestHostIRQForeignRestoreIgnored(t *testing.T) {
	q := newHostIRQ()
	state := q.Disable()
	done := make(chan struct{})
	go func() {
		q.Restore(0)
		close(done)
	}()
	<-done
	assert.True(t, q.Masked())
	q.Restore(state)
	assert.False(t, q.Masked())
}

func TestSectionCounter(t *testing.T) {
	cs := Section(newHostIRQ())
	var n int
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				cs.Guard(func() { n++ })
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 8000, n)

	nop := Section(nil)
	nop.Guard(func() { n++ })
	assert.Equal(t, 8001, n)
}
