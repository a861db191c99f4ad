package mos6502

import "fmt"

// DisassembleOne returns a textual representation of the instruction at the
// given address and its length in bytes. Only the opcode byte is decoded.
func (c *CPU) DisassembleOne(pc uint16) (string, int) {
	return fmt.Sprintf("$%02X", c.bus.ReadOpcode(pc)), 1
}
