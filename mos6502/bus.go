package mos6502

// Bus is the memory interface that a CPU performs all accesses through.
// Addresses are 16 bit and wrap around at the end of the address space.
type Bus interface {
	// Read returns the byte at the given address. Reads may have side
	// effects on memory mapped devices.
	Read(address uint16) uint8
	// Write stores a byte at the given address.
	Write(address uint16, value uint8)
	// ReadOpcode returns the opcode byte at the given address.
	ReadOpcode(address uint16) uint8
	// PCChanged is called whenever the program counter was set to a new
	// location that is not the next sequential instruction.
	PCChanged(pc uint16)
}

// OperandReader can be implemented by a Bus that exposes a separate port for
// instruction operand bytes. Buses that do not implement it get operand
// bytes fetched through Read.
type OperandReader interface {
	ReadOperand(address uint16) uint8
}
