package task

const mailboxSlots = 8

// mailbox is the queued-notification FIFO. head and tail run freely and wrap
// at 256, which is a multiple of the slot count.
type mailbox struct {
	head  uint8
	tail  uint8
	slots [mailboxSlots]any
}

func (mb *mailbox) push(v any) bool {
	if mb.head-mb.tail >= mailboxSlots {
		return false
	}
	mb.slots[mb.head%mailboxSlots] = v
	mb.head++
	return true
}

func (mb *mailbox) pop() (any, bool) {
	if mb.tail == mb.head {
		return nil, false
	}
	i := mb.tail % mailboxSlots
	v := mb.slots[i]
	mb.slots[i] = nil
	mb.tail++
	return v, true
}

func (mb *mailbox) len() int { return int(mb.head - mb.tail) }
