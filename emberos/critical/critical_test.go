package critical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionWithoutHooks(t *testing.T) {
	var s Section
	s.Enter()
	s.Exit()
	assert.Zero(t, s.Saved())

	var nilSection *Section
	nilSection.Enter()
	nilSection.Exit()
	nilSection.SetInterruptsED(nil, nil)
	assert.Zero(t, nilSection.Saved())

	ran := false
	nilSection.Guard(func() { ran = true })
	assert.True(t, ran)
}

func TestSectionHookOrder(t *testing.T) {
	var calls []string
	var restored []uint32
	s := New(
		func(state uint32) {
			calls = append(calls, "restore")
			restored = append(restored, state)
		},
		func() uint32 {
			calls = append(calls, "disable")
			return 0xA5
		},
	)

	s.Enter()
	require.Equal(t, uint32(0xA5), s.Saved())
	s.Exit()

	assert.Equal(t, []string{"disable", "restore"}, calls)
	assert.Equal(t, []uint32{0xA5}, restored)
}

func TestSectionGuard(t *testing.T) {
	depth := 0
	s := New(
		func(uint32) { depth-- },
		func() uint32 { depth++; return 1 },
	)

	s.Guard(func() {
		assert.Equal(t, 1, depth)
	})
	assert.Zero(t, depth)

	assert.Panics(t, func() {
		s.Guard(func() { panic("boom") })
	})
	assert.Zero(t, depth, "exit must run when fn panics")
}

func TestSectionPartialHooks(t *testing.T) {
	disabled := 0
	s := New(nil, func() uint32 { disabled++; return 7 })
	s.Enter()
	s.Exit()
	assert.Equal(t, 1, disabled)
	assert.Equal(t, uint32(7), s.Saved())

	restored := uint32(0)
	s.SetInterruptsED(func(v uint32) { restored = v }, nil)
	s.Enter()
	s.Exit()
	assert.Equal(t, uint32(7), restored, "without a disabler the saved state is reused")
}
