// Package list implements an intrusive doubly-linked list.
//
// Elements carry their own links by embedding Node, so linking never
// allocates. A node knows which list owns it and can be linked into at most
// one list at a time. A *List embeds a Node too, which lets lists be members
// of other lists.
//
// Structural operations run inside the list's critical section. Traversal
// does not; callers that walk a list shared with interrupt handlers bracket the
// walk themselves (see ForEach).
package list

import (
	"math"

	"ember/emberos/critical"
)

// Position addresses a node inside a list.
//
// AtFront and AtBack address the ends. A non-negative value p addresses the
// p-th node from the front, a value p <= -2 addresses the (-p-2)-th node from
// the back, so -2 is the last node. Out-of-range values clamp to the nearest
// end.
type Position int32

const (
	AtFront Position = -1
	AtBack  Position = math.MaxInt32
)

// Element is anything that embeds a Node.
type Element interface {
	node() *Node
}

// Node holds the links of a list element.
type Node struct {
	next      *Node
	prev      *Node
	container *List
	self      Element
}

func (n *Node) node() *Node { return n }

// Container returns the list n is linked into, or nil.
func (n *Node) Container() *List {
	if n == nil {
		return nil
	}
	return n.container
}

// Linked reports whether n belongs to a list.
func (n *Node) Linked() bool { return n.Container() != nil }

// List is the list header.
type List struct {
	Node

	head *Node
	tail *Node
	size int
	cs   *critical.Section
}

// New returns an initialized list guarded by cs (which may be nil).
func New(cs *critical.Section) *List {
	l := &List{}
	l.Initialize(cs)
	return l
}

// Initialize empties the list and installs its critical section.
//
// Nodes still linked to the list are not touched; initialize only lists that
// are new or known to be empty.
func (l *List) Initialize(cs *critical.Section) {
	if l == nil {
		return
	}
	l.head = nil
	l.tail = nil
	l.size = 0
	l.cs = cs
}

// Len returns the number of linked nodes.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// IsEmpty reports whether the list has no nodes.
func (l *List) IsEmpty() bool { return l.Len() == 0 }

// IsMember reports whether e is linked into l.
func (l *List) IsMember(e Element) bool {
	if l == nil || e == nil {
		return false
	}
	return e.node().container == l
}

// Front returns the first element, or nil.
func (l *List) Front() Element {
	if l == nil || l.head == nil {
		return nil
	}
	return l.head.self
}

// Back returns the last element, or nil.
func (l *List) Back() Element {
	if l == nil || l.tail == nil {
		return nil
	}
	return l.tail.self
}

// Insert links e after the node addressed by p, or at the front for AtFront.
// It fails if e is already linked into any list.
func (l *List) Insert(e Element, p Position) bool {
	if l == nil || e == nil {
		return false
	}
	n := e.node()

	l.cs.Enter()
	defer l.cs.Exit()

	if n.container != nil {
		return false
	}
	n.self = e
	if p == AtFront {
		l.link(n, nil)
	} else {
		l.link(n, l.at(p))
	}
	return true
}

// Remove unlinks e, which must be a member of l. With a nil e it unlinks the
// node addressed by p instead. The removed element is returned, or nil if
// nothing was removed.
func (l *List) Remove(e Element, p Position) Element {
	if l == nil {
		return nil
	}

	l.cs.Enter()
	defer l.cs.Exit()

	var n *Node
	if e != nil {
		n = e.node()
		if n.container != l {
			return nil
		}
	} else if n = l.at(p); n == nil {
		return nil
	}
	self := n.self
	l.unlink(n)
	return self
}

// RemoveItself unlinks e from whichever list holds it.
func RemoveItself(e Element) bool {
	if e == nil {
		return false
	}
	n := e.node()
	l := n.container
	if l == nil {
		return false
	}

	l.cs.Enter()
	defer l.cs.Exit()

	if n.container != l {
		return false
	}
	l.unlink(n)
	return true
}

// Move splices every node of src into l after the node addressed by p.
// src is left empty.
func (l *List) Move(src *List, p Position) bool {
	if l == nil || src == nil || l == src {
		return false
	}

	l.cs.Enter()
	defer l.cs.Exit()
	if src.cs != l.cs {
		src.cs.Enter()
		defer src.cs.Exit()
	}

	if src.size == 0 {
		return false
	}

	var anchor *Node
	if p != AtFront {
		anchor = l.at(p)
	}
	for n := src.head; n != nil; n = n.next {
		n.container = l
	}

	first, last := src.head, src.tail
	if anchor == nil {
		last.next = l.head
		if l.head != nil {
			l.head.prev = last
		} else {
			l.tail = last
		}
		first.prev = nil
		l.head = first
	} else {
		last.next = anchor.next
		if anchor.next != nil {
			anchor.next.prev = last
		} else {
			l.tail = last
		}
		anchor.next = first
		first.prev = anchor
	}
	l.size += src.size

	src.head = nil
	src.tail = nil
	src.size = 0
	return true
}

// Sort orders the list by less using a stable insertion sort and reports
// whether any node moved.
func (l *List) Sort(less func(a, b Element) bool) bool {
	if l == nil || less == nil {
		return false
	}

	l.cs.Enter()
	defer l.cs.Exit()

	if l.size < 2 {
		return false
	}

	moved := false
	for cur := l.head.next; cur != nil; {
		next := cur.next
		at := cur.prev
		if less(cur.self, at.self) {
			for at != nil && less(cur.self, at.self) {
				at = at.prev
			}
			l.detach(cur)
			l.attach(cur, at)
			moved = true
		}
		cur = next
	}
	return moved
}

// Swap exchanges the positions of a and b. They may live in different
// lists, in which case they also exchange owners.
func Swap(a, b Element) bool {
	if a == nil || b == nil {
		return false
	}
	na, nb := a.node(), b.node()
	if na == nb {
		return false
	}
	la, lb := na.container, nb.container
	if la == nil || lb == nil {
		return false
	}

	la.cs.Enter()
	defer la.cs.Exit()
	if lb.cs != la.cs {
		lb.cs.Enter()
		defer lb.cs.Exit()
	}

	switch {
	case na.next == nb:
		la.detach(nb)
		la.attach(nb, na.prev)
	case nb.next == na:
		la.detach(na)
		la.attach(na, nb.prev)
	default:
		pa, pb := na.prev, nb.prev
		la.detach(na)
		lb.detach(nb)
		lb.attach(na, pb)
		la.attach(nb, pa)
		na.container, nb.container = lb, la
	}
	return true
}

// at returns the node addressed by p, or nil for an empty list.
func (l *List) at(p Position) *Node {
	if l.size == 0 {
		return nil
	}
	switch {
	case p == AtFront:
		return l.head
	case p == AtBack:
		return l.tail
	case p >= 0:
		if int(p) >= l.size {
			return l.tail
		}
		n := l.head
		for i := 0; i < int(p); i++ {
			n = n.next
		}
		return n
	default:
		k := -int(p) - 2
		if k >= l.size {
			return l.head
		}
		n := l.tail
		for i := 0; i < k; i++ {
			n = n.prev
		}
		return n
	}
}

func (l *List) link(n, after *Node) {
	l.attach(n, after)
	n.container = l
	l.size++
}

func (l *List) unlink(n *Node) {
	l.detach(n)
	n.container = nil
	l.size--
}

// attach splices n after the given node, or at the front when after is nil.
// It leaves size and ownership alone.
func (l *List) attach(n, after *Node) {
	if after == nil {
		n.prev = nil
		n.next = l.head
		if l.head != nil {
			l.head.prev = n
		} else {
			l.tail = n
		}
		l.head = n
		return
	}
	n.prev = after
	n.next = after.next
	if after.next != nil {
		after.next.prev = n
	} else {
		l.tail = n
	}
	after.next = n
}

func (l *List) detach(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next = nil
	n.prev = nil
}
