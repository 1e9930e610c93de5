package hal

import "ember/emberos/critical"

// IRQMasked is the state Disable returns when interrupts were already masked.
const IRQMasked uint32 = 1

// Section returns a critical section driven by irq. A nil irq yields a
// section that performs no masking.
func Section(irq IRQ) *critical.Section {
	if irq == nil {
		return &critical.Section{}
	}
	return critical.New(irq.Restore, irq.Disable)
}
