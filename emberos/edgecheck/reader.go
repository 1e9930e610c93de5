package edgecheck

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Reader returns the level of pin on port.
type Reader func(port any, pin uint8) bool

// Register readers for memory-mapped ports of each width. The port must be
// a pointer of the matching width; anything else reads low.
var (
	Reg8  Reader = readBit[uint8]
	Reg16 Reader = readBit[uint16]
	Reg32 Reader = readBit[uint32]
)

func readBit[T constraints.Unsigned](port any, pin uint8) bool {
	p, ok := port.(*T)
	if !ok || p == nil {
		return false
	}
	if int(pin) >= bits.Len64(uint64(^T(0))) {
		return false
	}
	return (*p>>pin)&1 != 0
}
