package mos6502

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func setVector(bus *testBus, vector, address uint16) {
	bus.mem[vector] = uint8(address)
	bus.mem[vector+1] = uint8(address >> 8)
}

func TestNMIEdgeTriggered(t *testing.T) {
	cpu, bus := newTestCPU(t, NMOS6502, 0xea, 0xea)
	setVector(bus, nmiVector, 0x9000)
	cpu.SetRegister(RegP, uint16(FlagReserved|FlagBreak))

	cpu.SetNMILine(AssertLine)
	reg := cpu.Context()
	assert.Equal(t, uint16(0x9000), reg.PC)
	assert.Equal(t, uint8(0xfc), reg.SP)
	assert.True(t, reg.P&FlagInterrupt != 0)
	assert.Equal(t, uint8(0x02), bus.mem[0x01ff])
	assert.Equal(t, uint8(0x00), bus.mem[0x01fe])
	assert.Equal(t, uint8(FlagReserved), bus.mem[0x01fd])

	// a still asserted line does not trigger again
	cpu.SetNMILine(AssertLine)
	assert.Equal(t, uint8(0xfc), cpu.Context().SP)

	cpu.SetNMILine(ClearLine)
	cpu.SetNMILine(AssertLine)
	assert.Equal(t, uint8(0xf9), cpu.Context().SP)
	assert.Equal(t, uint16(1), cpu.GetRegister(RegNMIState))
}

func TestInterruptDecimalFlag(t *testing.T) {
	tests := []struct {
		variant Variant
		cleared bool
	}{
		{NMOS6502, false},
		{NMOS6510, false},
		{CMOS65C02, true},
		{CMOS65SC02, true},
		{NES2A03, true},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			cpu, _ := newTestCPU(t, tt.variant)
			cpu.SetRegister(RegP, uint16(FlagReserved|FlagDecimal))
			cpu.SetNMILine(AssertLine)
			assert.Equal(t, tt.cleared, cpu.Context().P&FlagDecimal == 0)
		})
	}
}

func TestNMIChargedToRunningBudget(t *testing.T) {
	bus := &nmiBus{}
	bus.load(testOrigin, 0x8d, 0x00, 0x40, 0xea) // STA $4000, NOP
	setVector(&bus.testBus, nmiVector, 0x9000)
	cpu := newCPUForBus(t, bus, NMOS6502)
	bus.cpu = cpu

	consumed := cpu.Execute(10)
	assert.Equal(t, 4+interruptCycles, consumed)
	assert.Equal(t, uint16(0x9000), cpu.Context().PC)
	assert.Equal(t, uint8(0x02), bus.mem[0x01ff])
	assert.Equal(t, uint8(0x03), bus.mem[0x01fe])
}

// nmiBus asserts NMI when the CPU writes to 0x4000.
type nmiBus struct {
	testBus
	cpu *CPU
}

func (b *nmiBus) Write(address uint16, value uint8) {
	b.testBus.Write(address, value)
	if address == 0x4000 {
		b.cpu.SetNMILine(AssertLine)
	}
}

func TestIRQMaskedUntilCLI(t *testing.T) {
	// CLI, NOP, NOP
	cpu, bus := newTestCPU(t, NMOS6502, 0x58, 0xea, 0xea)
	setVector(bus, irqVector, 0x9000)
	bus.mem[0x9000] = 0xea

	var acknowledged []Line
	cpu.SetIRQCallback(func(line Line) {
		acknowledged = append(acknowledged, line)
		cpu.SetIRQLine(line, ClearLine)
	})

	cpu.SetIRQLine(IRQLine, AssertLine)

	assert.Equal(t, 2, cpu.Execute(1)) // CLI
	assert.Equal(t, uint16(0x0201), cpu.Context().PC)
	assert.Equal(t, irqArmedAfterCLI, cpu.irqState)

	assert.Equal(t, 2, cpu.Execute(1)) // NOP, IRQ becomes pending
	assert.Equal(t, uint16(0x0202), cpu.Context().PC)
	assert.Len(t, acknowledged, 0)

	assert.Equal(t, interruptCycles+2, cpu.Execute(1)) // IRQ, NOP in handler
	assert.Equal(t, uint16(0x9001), cpu.Context().PC)
	assert.Equal(t, uint8(0x02), bus.mem[0x01ff])
	assert.Equal(t, uint8(0x02), bus.mem[0x01fe])
	assert.Len(t, acknowledged, 1)
	assert.Equal(t, IRQLine, acknowledged[0])
	assert.Equal(t, uint16(0), cpu.GetRegister(RegIRQState))
}

func TestIRQIgnoredWhileDisabled(t *testing.T) {
	cpu, bus := newTestCPU(t, NMOS6502, 0xea, 0xea, 0xea)
	setVector(bus, irqVector, 0x9000)

	cpu.SetIRQLine(IRQLine, AssertLine)
	assert.Equal(t, 6, cpu.Execute(6))
	assert.Equal(t, uint16(0x0203), cpu.Context().PC)
}

func TestIRQTakenAtNextBoundary(t *testing.T) {
	cpu, bus := newTestCPU(t, NMOS6502, 0xea)
	setVector(bus, irqVector, 0x9000)
	bus.mem[0x9000] = 0xea
	cpu.SetRegister(RegP, uint16(FlagReserved|FlagBreak|FlagCarry))

	cpu.SetIRQLine(IRQLine, AssertLine)
	assert.Equal(t, interruptCycles+2, cpu.Execute(1))

	reg := cpu.Context()
	assert.Equal(t, uint16(0x9001), reg.PC)
	assert.True(t, reg.P&FlagInterrupt != 0)
	assert.Equal(t, uint8(FlagReserved|FlagCarry), bus.mem[0x01fd])
}

func TestIRQPulseIsLatched(t *testing.T) {
	cpu, bus := newTestCPU(t, NMOS6502, 0xea)
	setVector(bus, irqVector, 0x9000)
	bus.mem[0x9000] = 0xea
	cpu.SetRegister(RegP, uint16(FlagReserved))

	cpu.SetIRQLine(IRQLine, AssertLine)
	cpu.SetIRQLine(IRQLine, ClearLine)
	cpu.Execute(1)
	assert.Equal(t, uint16(0x9001), cpu.Context().PC)
}

func TestPLPEnablingInterruptsDelaysIRQ(t *testing.T) {
	// LDA #$00, PHA, PLP, NOP
	cpu, bus := newTestCPU(t, NMOS6502, 0xa9, 0x00, 0x48, 0x28, 0xea)
	setVector(bus, irqVector, 0x9000)
	cpu.SetIRQLine(IRQLine, AssertLine)

	cpu.Execute(2 + 3 + 4)
	assert.Equal(t, uint16(0x0204), cpu.Context().PC)
	assert.Equal(t, irqArmedAfterCLI, cpu.irqState)

	cpu.Execute(1)
	assert.Equal(t, uint16(0x0205), cpu.Context().PC)
	assert.Equal(t, irqPending, cpu.irqState)
}

func TestSetOverflowLine(t *testing.T) {
	cpu, _ := newTestCPU(t, NMOS6502)

	cpu.SetIRQLine(SetOverflowLine, AssertLine)
	assert.True(t, cpu.Context().P&FlagOverflow == 0)
	assert.Equal(t, uint16(1), cpu.GetRegister(RegSOState))

	cpu.SetIRQLine(SetOverflowLine, ClearLine)
	assert.True(t, cpu.Context().P&FlagOverflow != 0)

	cpu.SetRegister(RegP, uint16(FlagReserved))
	cpu.SetIRQLine(SetOverflowLine, ClearLine)
	assert.True(t, cpu.Context().P&FlagOverflow == 0)
}

func TestSetOverflowPinPerVariant(t *testing.T) {
	tests := []struct {
		variant Variant
		sets    bool
	}{
		{NMOS6502, true},
		{NMOS6510, true},
		{CMOS65C02, true},
		{CMOS65SC02, true},
		{NES2A03, false},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			cpu, _ := newTestCPU(t, tt.variant)
			cpu.SetIRQLine(SetOverflowLine, AssertLine)
			cpu.SetIRQLine(SetOverflowLine, ClearLine)
			assert.Equal(t, tt.sets, cpu.Context().P&FlagOverflow != 0)
			assert.Equal(t, uint16(0), cpu.GetRegister(RegSOState))
		})
	}
}

func TestUnknownLineIgnored(t *testing.T) {
	cpu, _ := newTestCPU(t, NMOS6502)
	before := cpu.Context()
	cpu.SetIRQLine(Line(7), AssertLine)
	assert.Equal(t, before, cpu.Context())
	assert.Equal(t, irqIdle, cpu.irqState)
}

func TestRTIRestoresState(t *testing.T) {
	cpu, bus := newTestCPU(t, NMOS6502, 0xea, 0xea)
	setVector(bus, nmiVector, 0x9000)
	bus.mem[0x9000] = 0x40 // RTI
	cpu.SetRegister(RegP, uint16(FlagReserved|FlagBreak|FlagCarry))

	cpu.SetNMILine(AssertLine)
	cpu.Execute(1)

	reg := cpu.Context()
	assert.Equal(t, uint16(0x0200), reg.PC)
	assert.Equal(t, uint8(0xff), reg.SP)
	assert.Equal(t, FlagReserved|FlagBreak|FlagCarry, reg.P)
}
