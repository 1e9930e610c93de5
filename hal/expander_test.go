package hal

import (
	"testing"

	"ember/emberos/clock"
	"ember/emberos/edgecheck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLines(n int) []*virtualPin {
	lines := make([]*virtualPin, n)
	for i := range lines {
		lines[i] = newVirtualPin("EXP", GPIOCapInput)
	}
	return lines
}

func asPins(lines []*virtualPin) []GPIOPin {
	pins := make([]GPIOPin, len(lines))
	for i, l := range lines {
		pins[i] = l
	}
	return pins
}

func TestExpanderRefresh(t *testing.T) {
	lines := newLines(10)
	bus := newSimBus(ExpanderAddr, asPins(lines)...)
	e := NewExpander(bus, ExpanderAddr)

	lines[0].Drive(true)
	lines[9].Drive(true)
	require.NoError(t, e.Refresh())
	assert.Equal(t, uint16(0x0201), e.Value())
	assert.Equal(t, uint16(0x0201), *e.Port())
	assert.Equal(t, 1, bus.txs)

	lines[0].Drive(false)
	require.NoError(t, e.Refresh())
	assert.Equal(t, uint16(0x0200), e.Value())
}

func TestExpanderErrors(t *testing.T) {
	assert.ErrorIs(t, NewExpander(nil, ExpanderAddr).Refresh(), ErrNoBus)
	var e *Expander
	assert.ErrorIs(t, e.Refresh(), ErrNoBus)

	bus := newSimBus(ExpanderAddr)
	err := NewExpander(bus, 0x21).Refresh()
	assert.ErrorIs(t, err, errNoDevice)
	assert.Contains(t, err.Error(), "0x21")

	buf := make([]byte, 2)
	assert.NoError(t, bus.ReadRegister(uint8(ExpanderAddr), 0x12, buf))
	assert.NoError(t, bus.WriteRegister(uint8(ExpanderAddr), 0x00, []byte{0xFF}))
}

func TestExpanderEdgeCheck(t *testing.T) {
	lines := newLines(ExpanderLines)
	e := NewExpander(newSimBus(ExpanderAddr, asPins(lines)...), ExpanderAddr)
	require.NoError(t, e.Refresh())

	var now clock.Tick
	in := edgecheck.New(edgecheck.Reg16, 0, clock.SourceFunc(func() clock.Tick { return now }))
	require.NotNil(t, in)
	var n edgecheck.Node
	require.True(t, in.AddNode(&n, e.Port(), 5))

	lines[5].Drive(true)
	var seen []edgecheck.Status
	for i := 0; i < 4; i++ {
		require.NoError(t, e.Refresh())
		require.True(t, in.Update())
		seen = append(seen, n.Status())
		now++
	}
	assert.Contains(t, seen, edgecheck.Rising)
	assert.Equal(t, edgecheck.High, seen[len(seen)-1])
}
