//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// hostIRQ emulates a global interrupt mask with a mutex. Goroutines standing
// in for interrupt handlers block while another goroutine holds the mask.
type hostIRQ struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func newHostIRQ() *hostIRQ { return &hostIRQ{} }

// NewIRQ returns a host interrupt mask for building a HAL outside this
// package. Disable nests per goroutine.
func NewIRQ() IRQ { return newHostIRQ() }

func (q *hostIRQ) Disable() uint32 {
	id := goid.Get()
	if q.owner.Load() == id {
		q.depth++
		return IRQMasked
	}
	q.mu.Lock()
	q.owner.Store(id)
	q.depth = 1
	return 0
}

// Restore unmasks once every Disable made by the owning goroutine has been
// matched. Calls from other goroutines are ignored.
func (q *hostIRQ) Restore(state uint32) {
	if q.owner.Load() != goid.Get() {
		return
	}
	q.depth--
	if q.depth > 0 {
		return
	}
	q.owner.Store(0)
	q.mu.Unlock()
}

// Masked reports whether any goroutine holds the mask.
func (q *hostIRQ) Masked() bool { return q.owner.Load() != 0 }
