package bus

import (
	"fmt"
)

const memorySize = 0x10000

// Memory is a flat 64K RAM without memory mapped I/O.
type Memory struct {
	data [memorySize]uint8

	imageBase uint16
	imageSize int
}

var _ System = (*Memory)(nil)

// NewMemory returns a new zeroed memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Load copies the program image to the given address. Bytes that do not fit
// below the end of the address space are dropped.
func (m *Memory) Load(address uint16, image []byte) int {
	n := copy(m.data[address:], image)
	m.imageBase = address
	m.imageSize = n
	return n
}

// SetVector stores a little endian address at the given vector location.
func (m *Memory) SetVector(vector, address uint16) {
	m.data[vector] = uint8(address)
	m.data[vector+1] = uint8(address >> 8)
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) uint8 {
	return m.data[address]
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value uint8) {
	m.data[address] = value
}

// ReadOpcode returns the opcode byte at the given address.
func (m *Memory) ReadOpcode(address uint16) uint8 {
	return m.data[address]
}

// PCChanged does nothing for flat memory.
func (m *Memory) PCChanged(uint16) {}

// PRGOffset maps an address into the loaded program image.
func (m *Memory) PRGOffset(address uint16) (int, bool) {
	offset := int(address - m.imageBase)
	if address < m.imageBase || offset >= m.imageSize {
		return 0, false
	}
	return offset, true
}

// Dump returns a copy of the whole address space.
func (m *Memory) Dump() []byte {
	data := make([]byte, memorySize)
	copy(data, m.data[:])
	return data
}

// Restore sets the whole address space.
func (m *Memory) Restore(data []byte) error {
	if len(data) != memorySize {
		return fmt.Errorf("invalid memory size %d, expected %d", len(data), memorySize)
	}
	copy(m.data[:], data)
	return nil
}
