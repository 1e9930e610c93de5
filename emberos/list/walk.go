package list

// Direction selects the traversal order.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) first(l *List) *Node {
	if d == Backward {
		return l.tail
	}
	return l.head
}

func (d Direction) step(n *Node) *Node {
	if d == Backward {
		return n.prev
	}
	return n.next
}

// Stage tells a visitor where the walk is.
type Stage uint8

const (
	// WalkInit is delivered once before the first node. Node is nil.
	WalkInit Stage = iota
	// WalkThrough is delivered once per visited node.
	WalkThrough
	// WalkEnd is delivered once after the walk, even when it stopped early.
	// Node is nil.
	WalkEnd
)

func (s Stage) String() string {
	switch s {
	case WalkInit:
		return "init"
	case WalkThrough:
		return "through"
	case WalkEnd:
		return "end"
	default:
		return "unknown"
	}
}

// WalkHandle is passed to a WalkFunc.
type WalkHandle struct {
	Node  Element
	Arg   any
	Stage Stage
}

// WalkFunc visits one stage of a walk. Returning true from WalkInit or
// WalkThrough stops the walk; the result of WalkEnd is ignored.
type WalkFunc func(h *WalkHandle) bool

// ForEach walks the list in direction dir, starting at start or at the end
// selected by dir when start is nil. It reports whether visit stopped the
// walk early. Nothing is visited for an empty list, a nil visit or a start
// that is not a member.
//
// The successor of each node is read before the node is visited, so visit may
// unlink the node it is handed.
func (l *List) ForEach(visit WalkFunc, arg any, dir Direction, start Element) bool {
	if l == nil || visit == nil || l.size == 0 {
		return false
	}
	n := dir.first(l)
	if start != nil {
		if !l.IsMember(start) {
			return false
		}
		n = start.node()
	}

	h := WalkHandle{Arg: arg, Stage: WalkInit}
	stopped := visit(&h)
	if !stopped {
		h.Stage = WalkThrough
		for n != nil {
			next := dir.step(n)
			h.Node = n.self
			if visit(&h) {
				stopped = true
				break
			}
			n = next
		}
	}

	h.Node = nil
	h.Stage = WalkEnd
	visit(&h)
	return stopped
}

// Iterator steps through a list one node at a time.
type Iterator struct {
	next *Node
	dir  Direction
}

// Set positions the iterator at start, or at the end of l selected by dir
// when start is nil.
func (it *Iterator) Set(l *List, start Element, dir Direction) bool {
	if it == nil || l == nil {
		return false
	}
	it.dir = dir
	it.next = nil
	if start == nil {
		it.next = dir.first(l)
		return true
	}
	if !l.IsMember(start) {
		return false
	}
	it.next = start.node()
	return true
}

// Next returns the current element and advances, or nil when exhausted.
func (it *Iterator) Next() Element {
	if it == nil || it.next == nil {
		return nil
	}
	n := it.next
	it.next = it.dir.step(n)
	return n.self
}
