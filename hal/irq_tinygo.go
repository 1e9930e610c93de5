//go:build tinygo && baremetal

package hal

import "runtime/interrupt"

type tinyGoIRQ struct{}

func (tinyGoIRQ) Disable() uint32 { return uint32(interrupt.Disable()) }

func (tinyGoIRQ) Restore(state uint32) { interrupt.Restore(interrupt.State(state)) }
