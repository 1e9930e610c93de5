// Package queue implements a fixed-capacity FIFO of fixed-size items over
// caller-provided storage.
//
// Items are copied in and out by value. Producers may run in interrupt
// context: cursor and count updates happen inside the queue's critical
// section, and the item count is published atomically so readers never see a
// torn value.
package queue

import (
	"sync/atomic"

	"ember/emberos/critical"
)

// Mode selects where SendGeneric places an item.
type Mode uint8

const (
	ToBack Mode = iota
	ToFront
)

// Queue is a ring buffer of itemsCount slots of itemSize bytes.
type Queue struct {
	cs      *critical.Section
	storage []byte

	// Byte offsets into storage. tail is one past the last slot.
	head   int
	tail   int
	writer int
	reader int

	itemSize   int
	itemsCount int
	waiting    atomic.Int32
}

// New allocates storage for count items of size bytes and sets up a queue
// over it.
func New(cs *critical.Section, size, count int) *Queue {
	if size <= 0 || count <= 0 {
		return nil
	}
	q := &Queue{}
	if !q.Setup(cs, make([]byte, size*count), size, count) {
		return nil
	}
	return q
}

// Setup binds q to storage and resets it. It fails when storage is too
// small for count items of size bytes or when either is not positive.
func (q *Queue) Setup(cs *critical.Section, storage []byte, size, count int) bool {
	if q == nil || storage == nil || size <= 0 || count <= 0 {
		return false
	}
	if len(storage)/size < count {
		return false
	}
	q.cs = cs
	q.storage = storage[:size*count]
	q.head = 0
	q.tail = size * count
	q.itemSize = size
	q.itemsCount = count
	q.Reset()
	return true
}

// Reset discards every item.
func (q *Queue) Reset() {
	if !q.IsReady() {
		return
	}
	q.cs.Enter()
	defer q.cs.Exit()

	q.writer = q.head
	q.reader = q.tail - q.itemSize
	q.waiting.Store(0)
}

// IsReady reports whether q has been set up.
func (q *Queue) IsReady() bool {
	return q != nil && q.storage != nil && q.itemSize > 0
}

// Count returns the number of items waiting.
func (q *Queue) Count() int {
	if q == nil {
		return 0
	}
	return int(q.waiting.Load())
}

// ItemsAvailable returns the number of free slots.
func (q *Queue) ItemsAvailable() int {
	if !q.IsReady() {
		return 0
	}
	return q.itemsCount - q.Count()
}

// Capacity returns the number of slots.
func (q *Queue) Capacity() int {
	if q == nil {
		return 0
	}
	return q.itemsCount
}

// ItemSize returns the slot size in bytes.
func (q *Queue) ItemSize() int {
	if q == nil {
		return 0
	}
	return q.itemSize
}

// IsEmpty reports whether no item is waiting. A queue that is not set up is
// empty.
func (q *Queue) IsEmpty() bool { return q.Count() == 0 }

// IsFull reports whether every slot is taken. A queue that is not set up is
// never full.
func (q *Queue) IsFull() bool {
	return q.IsReady() && q.Count() == q.itemsCount
}

// Peek returns the front item without removing it. The returned slice
// aliases the queue storage and is valid until the slot is reused.
func (q *Queue) Peek() []byte {
	if !q.IsReady() || q.IsEmpty() {
		return nil
	}
	q.cs.Enter()
	defer q.cs.Exit()

	off := q.advance(q.reader)
	return q.storage[off : off+q.itemSize : off+q.itemSize]
}

// RemoveFront drops the front item.
func (q *Queue) RemoveFront() bool {
	if !q.IsReady() {
		return false
	}
	q.cs.Enter()
	defer q.cs.Exit()

	if q.waiting.Load() == 0 {
		return false
	}
	q.reader = q.advance(q.reader)
	q.waiting.Add(-1)
	return true
}

// Receive copies the front item into dst and removes it. dst must hold at
// least one item.
func (q *Queue) Receive(dst []byte) bool {
	if !q.IsReady() || len(dst) < q.itemSize {
		return false
	}
	q.cs.Enter()
	defer q.cs.Exit()

	if q.waiting.Load() == 0 {
		return false
	}
	q.reader = q.advance(q.reader)
	copy(dst, q.storage[q.reader:q.reader+q.itemSize])
	q.waiting.Add(-1)
	return true
}

// SendGeneric copies item into the queue at the end selected by mode. It
// fails when the queue is full, the mode is unknown or item is shorter than
// one slot.
func (q *Queue) SendGeneric(item []byte, mode Mode) bool {
	if !q.IsReady() || len(item) < q.itemSize || mode > ToFront {
		return false
	}
	q.cs.Enter()
	defer q.cs.Exit()

	if int(q.waiting.Load()) >= q.itemsCount {
		return false
	}
	if mode == ToFront {
		q.copyToFront(item)
	} else {
		q.copyToBack(item)
	}
	q.waiting.Add(1)
	return true
}

// SendToBack appends item.
func (q *Queue) SendToBack(item []byte) bool { return q.SendGeneric(item, ToBack) }

// SendToFront prepends item, making it the next one received.
func (q *Queue) SendToFront(item []byte) bool { return q.SendGeneric(item, ToFront) }

func (q *Queue) advance(off int) int {
	off += q.itemSize
	if off >= q.tail {
		off = q.head
	}
	return off
}

func (q *Queue) copyToBack(item []byte) {
	copy(q.storage[q.writer:q.writer+q.itemSize], item)
	q.writer = q.advance(q.writer)
}

func (q *Queue) copyToFront(item []byte) {
	copy(q.storage[q.reader:q.reader+q.itemSize], item)
	q.reader -= q.itemSize
	if q.reader < q.head {
		q.reader = q.tail - q.itemSize
	}
}
