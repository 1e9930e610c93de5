// Package critical gates short sections of code against interrupt handlers.
//
// A Section carries a pair of platform hooks: one that masks interrupts and
// returns the previous mask state, and one that restores it. Sections are not
// nestable: the saved state is a single slot, so an inner Enter overwrites the
// state saved by the outer one.
package critical

// Disabler masks interrupts and returns the previous interrupt state.
type Disabler func() uint32

// Restorer restores a state previously returned by a Disabler.
type Restorer func(state uint32)

// Section is a critical section handle.
//
// The zero value is usable and performs no masking.
type Section struct {
	disable Disabler
	restore Restorer
	saved   uint32
}

// New returns a section using the given hooks.
func New(restore Restorer, disable Disabler) *Section {
	s := &Section{}
	s.SetInterruptsED(restore, disable)
	return s
}

// SetInterruptsED installs the restore and disable hooks. Either may be nil.
func (s *Section) SetInterruptsED(restore Restorer, disable Disabler) {
	if s == nil {
		return
	}
	s.restore = restore
	s.disable = disable
}

// Enter masks interrupts and saves the previous state.
func (s *Section) Enter() {
	if s == nil || s.disable == nil {
		return
	}
	s.saved = s.disable()
}

// Exit restores the state saved by the last Enter.
func (s *Section) Exit() {
	if s == nil || s.restore == nil {
		return
	}
	s.restore(s.saved)
}

// Saved returns the state captured by the last Enter.
func (s *Section) Saved() uint32 {
	if s == nil {
		return 0
	}
	return s.saved
}

// Guard runs fn between Enter and Exit.
func (s *Section) Guard(fn func()) {
	s.Enter()
	defer s.Exit()
	fn()
}
