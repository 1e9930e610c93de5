package edgecheck

import (
	"testing"

	"ember/emberos/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReaders(t *testing.T) {
	r8 := uint8(0x81)
	r16 := uint16(0x8001)
	r32 := uint32(0x80000001)

	assert.True(t, Reg8(&r8, 0))
	assert.True(t, Reg8(&r8, 7))
	assert.False(t, Reg8(&r8, 1))
	assert.False(t, Reg8(&r8, 8), "pin past the register width")

	assert.True(t, Reg16(&r16, 15))
	assert.False(t, Reg16(&r16, 14))

	assert.True(t, Reg32(&r32, 31))
	assert.True(t, Reg32(&r32, 0))
	assert.False(t, Reg32(&r32, 32))

	assert.False(t, Reg32(&r8, 0), "width mismatch")
	assert.False(t, Reg8(nil, 0))
	assert.False(t, Reg16((*uint16)(nil), 0))
}

type harness struct {
	clk  clock.Tick
	reg  uint32
	in   *Instance
	node Node
}

func newHarness(t *testing.T, debounce clock.Tick) *harness {
	t.Helper()
	h := &harness{}
	h.in = New(nil, debounce, clock.SourceFunc(func() clock.Tick { return h.clk }))
	require.NotNil(t, h.in)
	require.True(t, h.in.AddNode(&h.node, &h.reg, 3))
	return h
}

func (h *harness) set(level bool) {
	if level {
		h.reg |= 1 << 3
	} else {
		h.reg &^= 1 << 3
	}
}

func (h *harness) poll(t *testing.T) Status {
	t.Helper()
	require.True(t, h.in.Update())
	h.clk++
	return h.node.Status()
}

func TestStablePinNeverUnknown(t *testing.T) {
	h := newHarness(t, 5)
	h.set(true)
	require.True(t, h.in.Setup(nil, 5, clock.SourceFunc(func() clock.Tick { return h.clk })))
	require.True(t, h.in.AddNode(&h.node, &h.reg, 3))
	assert.Equal(t, High, h.node.Status())

	for i := 0; i < 3; i++ {
		assert.Equal(t, High, h.poll(t))
		assert.Equal(t, Check, h.in.Phase())
	}
}

func TestSingleEdge(t *testing.T) {
	h := newHarness(t, 5)
	assert.Equal(t, Low, h.poll(t))

	h.set(true)
	var seen []Status
	for i := 0; i < 12; i++ {
		seen = append(seen, h.poll(t))
	}

	rising := 0
	for _, s := range seen {
		if s == Rising {
			rising++
		}
		assert.NotEqual(t, Falling, s)
	}
	assert.Equal(t, 1, rising, "%v", seen)
	assert.Equal(t, Unknown, seen[0])
	assert.Equal(t, High, seen[len(seen)-1])
	assert.True(t, h.node.Level())
}

func TestEdgeSequence(t *testing.T) {
	h := newHarness(t, 3)

	h.set(true)
	assert.Equal(t, Unknown, h.poll(t)) // t=0 check: change seen
	assert.Equal(t, Wait, h.in.Phase())
	h.poll(t) // t=1
	h.poll(t) // t=2
	assert.Equal(t, Wait, h.in.Phase())
	h.poll(t) // t=3 debounce reached
	assert.Equal(t, Update, h.in.Phase())
	assert.Equal(t, Rising, h.poll(t))
	assert.Equal(t, Check, h.in.Phase())
	assert.Equal(t, High, h.poll(t))

	h.set(false)
	assert.Equal(t, Unknown, h.poll(t))
	for h.in.Phase() != Update {
		h.poll(t)
	}
	assert.Equal(t, Falling, h.poll(t))
	assert.Equal(t, Low, h.poll(t))
}

func TestGlitchFiltered(t *testing.T) {
	h := newHarness(t, 3)
	h.set(true)
	assert.Equal(t, Unknown, h.poll(t))
	h.set(false)
	for h.in.Phase() != Update {
		h.poll(t)
	}
	assert.Equal(t, Unknown, h.poll(t), "no edge is reported for a reverted pin")
	assert.Equal(t, Low, h.poll(t))
}

func TestMultipleNodes(t *testing.T) {
	var clk clock.Tick
	var port uint8
	in := New(Reg8, 0, clock.SourceFunc(func() clock.Tick { return clk }))
	var a, b Node
	require.True(t, in.AddNode(&a, &port, 0))
	require.True(t, in.AddNode(&b, &port, 1))
	assert.False(t, in.AddNode(&a, &port, 2), "already monitored")

	port = 0x02
	require.True(t, in.Update())
	assert.Equal(t, Low, a.Status())
	assert.Equal(t, Unknown, b.Status())
	require.True(t, in.Update()) // wait, zero debounce
	require.True(t, in.Update())
	assert.Equal(t, Low, a.Status())
	assert.Equal(t, Rising, b.Status())

	require.True(t, b.SetPin(0))
	require.True(t, in.Update())
	assert.Equal(t, Unknown, b.Status())
}

func TestInvalid(t *testing.T) {
	assert.Nil(t, New(nil, 1, nil))
	var in *Instance
	assert.False(t, in.Update())
	assert.False(t, in.AddNode(&Node{}, nil, 0))
	assert.False(t, (&Instance{}).Update())

	var n *Node
	assert.Equal(t, Unknown, n.Status())
	assert.False(t, n.SetPin(1))
	assert.Equal(t, "rising", Rising.String())
}
