// Package bus provides the memory systems that a CPU core runs on.
package bus

import (
	"github.com/retroenv/retro6502/mos6502"
)

// System is a memory system that a CPU can be attached to.
type System interface {
	mos6502.Bus

	// PRGOffset maps a CPU address to an offset in the loaded program
	// image. It returns false for addresses outside of the image.
	PRGOffset(address uint16) (int, bool)

	// Dump returns a copy of all writable memory of the system.
	Dump() []byte
	// Restore sets all writable memory from a buffer returned by Dump.
	Restore(data []byte) error
}
