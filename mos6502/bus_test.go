package mos6502

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// testBus is a flat 64 KiB memory that optionally records all accesses.
type testBus struct {
	mem    [0x10000]uint8
	record bool
	calls  []string
}

func (b *testBus) Read(address uint16) uint8 {
	if b.record {
		b.calls = append(b.calls, fmt.Sprintf("r %04x", address))
	}
	return b.mem[address]
}

func (b *testBus) Write(address uint16, value uint8) {
	if b.record {
		b.calls = append(b.calls, fmt.Sprintf("w %04x %02x", address, value))
	}
	b.mem[address] = value
}

func (b *testBus) ReadOpcode(address uint16) uint8 {
	if b.record {
		b.calls = append(b.calls, fmt.Sprintf("o %04x", address))
	}
	return b.mem[address]
}

func (b *testBus) PCChanged(pc uint16) {
	if b.record {
		b.calls = append(b.calls, fmt.Sprintf("pc %04x", pc))
	}
}

// load copies data to the address and points the reset vector to it.
func (b *testBus) load(address uint16, data ...uint8) {
	copy(b.mem[address:], data)
	b.mem[resetVector] = uint8(address)
	b.mem[resetVector+1] = uint8(address >> 8)
}

// operandBus counts operand fetches through the separate operand port.
type operandBus struct {
	testBus
	operandReads int
}

func (b *operandBus) ReadOperand(address uint16) uint8 {
	b.operandReads++
	return b.mem[address]
}

const testOrigin = 0x0200

func newTestCPU(t *testing.T, variant Variant, program ...uint8) (*CPU, *testBus) {
	t.Helper()
	bus := &testBus{}
	bus.load(testOrigin, program...)
	cpu, err := New(log.NewTestLogger(t), bus, variant)
	assert.NoError(t, err)
	return cpu, bus
}

func newCPUForBus(t *testing.T, bus Bus, variant Variant) *CPU {
	t.Helper()
	cpu, err := New(log.NewTestLogger(t), bus, variant)
	assert.NoError(t, err)
	return cpu
}

func TestOperandReader(t *testing.T) {
	bus := &operandBus{}
	bus.load(testOrigin, 0xad, 0x34, 0x12) // LDA $1234
	bus.mem[0x1234] = 0x42

	cpu, err := New(log.NewTestLogger(t), bus, NMOS6502)
	assert.NoError(t, err)
	cpu.Execute(1)

	assert.Equal(t, 2, bus.operandReads)
	assert.Equal(t, uint8(0x42), cpu.Context().A)
}
