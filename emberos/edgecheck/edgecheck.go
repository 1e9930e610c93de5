// Package edgecheck debounces digital inputs and reports their edges.
//
// An Instance polls a set of nodes, one per input pin. While every pin is
// stable each node reports its level. When a pin changes the instance waits
// for the debounce interval, then commits the new levels and reports Rising
// or Falling for each pin whose level really changed.
package edgecheck

import (
	"ember/emberos/clock"
)

// Status is what a node reports after an update.
type Status uint8

const (
	Low Status = iota
	High
	Rising
	Falling
	Unknown
)

func (s Status) String() string {
	switch s {
	case Low:
		return "low"
	case High:
		return "high"
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "unknown"
	}
}

func levelStatus(level bool) Status {
	if level {
		return High
	}
	return Low
}

// Phase is the debouncer state.
type Phase uint8

const (
	// Check compares every pin with its committed level.
	Check Phase = iota
	// Wait holds off until the debounce interval has passed.
	Wait
	// Update commits the current levels and reports edges.
	Update
)

// Node is one monitored pin.
type Node struct {
	next   *Node
	owner  *Instance
	port   any
	pin    uint8
	level  bool
	status Status
}

// Status returns the last reported status, Unknown for a nil node.
func (n *Node) Status() Status {
	if n == nil {
		return Unknown
	}
	return n.status
}

// Level returns the committed level.
func (n *Node) Level() bool { return n != nil && n.level }

// SetPin changes the pin read for n.
func (n *Node) SetPin(pin uint8) bool {
	if n == nil {
		return false
	}
	n.pin = pin
	return true
}

// Instance is a debouncer over a list of nodes.
type Instance struct {
	head     *Node
	reader   Reader
	clk      clock.Source
	debounce clock.Tick
	timer    clock.Timer
	phase    Phase
	changed  int
}

// New returns an instance set up with reader, debounce and clk.
func New(reader Reader, debounce clock.Tick, clk clock.Source) *Instance {
	in := &Instance{}
	if !in.Setup(reader, debounce, clk) {
		return nil
	}
	return in
}

// Setup resets the instance. A nil reader selects Reg32. It fails without a
// clock.
func (in *Instance) Setup(reader Reader, debounce clock.Tick, clk clock.Source) bool {
	if in == nil || clk == nil {
		return false
	}
	if reader == nil {
		reader = Reg32
	}
	for n := in.head; n != nil; {
		next := n.next
		n.next = nil
		n.owner = nil
		n = next
	}
	in.head = nil
	in.reader = reader
	in.clk = clk
	in.debounce = debounce
	in.phase = Check
	in.changed = 0
	in.timer.Set(clk.Tick(), debounce)
	return true
}

// Phase returns the current phase.
func (in *Instance) Phase() Phase {
	if in == nil {
		return Check
	}
	return in.phase
}

// AddNode starts monitoring pin of port through n. The current level
// becomes the committed level.
func (in *Instance) AddNode(n *Node, port any, pin uint8) bool {
	if in == nil || n == nil || in.reader == nil || n.owner != nil {
		return false
	}
	n.port = port
	n.pin = pin
	n.level = in.reader(port, pin)
	n.status = levelStatus(n.level)
	n.owner = in
	n.next = in.head
	in.head = n
	return true
}

// Update advances the debouncer by one poll. It fails only on an instance
// that was never set up.
func (in *Instance) Update() bool {
	if in == nil || in.clk == nil {
		return false
	}
	now := in.clk.Tick()

	if in.phase == Wait {
		if in.timer.Expired(now) {
			in.phase = Update
		}
		return true
	}

	in.changed = 0
	for n := in.head; n != nil; n = n.next {
		level := in.reader(n.port, n.pin)
		switch in.phase {
		case Check:
			if level != n.level {
				n.status = Unknown
				in.changed++
			} else {
				n.status = levelStatus(level)
			}
		case Update:
			if level != n.level {
				if level {
					n.status = Rising
				} else {
					n.status = Falling
				}
			}
			n.level = level
		}
	}

	switch {
	case in.phase == Update:
		in.phase = Check
		in.timer.Set(now, in.debounce)
	case in.changed > 0:
		in.phase = Wait
		in.timer.Set(now, in.debounce)
	}
	return true
}
