package mos6502

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/log"
)

// Interrupt vector addresses.
const (
	nmiVector   = uint16(cpu6502.NMIAddress)
	resetVector = uint16(cpu6502.ResetAddress)
	irqVector   = uint16(cpu6502.IrqAddress)
)

// IRQCallback is called with the line number when an IRQ is taken.
type IRQCallback func(line Line)

// CPU is a single 6502 family processor. It is not safe for concurrent use,
// all methods have to be called from the goroutine that runs Execute.
type CPU struct {
	logger   *log.Logger
	bus      Bus
	operands OperandReader
	variant  Variant
	profile  *profile

	reg Registers

	nmiLine     bool
	irqLine     bool
	overflowSet bool
	irqState    irqLatch
	irqCallback IRQCallback

	halted    bool
	opcode    uint8 // opcode of the instruction being executed
	remaining int   // cycles left in the running Execute call
}

// New returns a CPU of the given variant that is attached to the bus and
// reset.
func New(logger *log.Logger, bus Bus, variant Variant) (*CPU, error) {
	c := &CPU{
		logger: logger,
		bus:    bus,
	}
	if operands, ok := bus.(OperandReader); ok {
		c.operands = operands
	}
	if err := c.Reset(variant); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset selects the variant and performs a power on reset: the stack
// pointer is set to 0xFF, interrupts are disabled, all interrupt inputs are
// cleared and the program counter is loaded from the reset vector. The
// accumulator and index registers keep their values.
func (c *CPU) Reset(variant Variant) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVariant, variant)
	}
	c.setVariant(variant)

	decimal := c.reg.P & FlagDecimal
	if c.profile.resetClearsDecimal {
		decimal = 0
	}
	c.reg.P = FlagReserved | FlagBreak | FlagInterrupt | FlagZero | decimal
	c.reg.SP = 0xff

	c.nmiLine = false
	c.irqLine = false
	c.overflowSet = false
	c.irqState = irqIdle
	c.halted = false

	c.reg.PC = c.readWord(resetVector)
	c.reg.PreviousPC = c.reg.PC
	c.bus.PCChanged(c.reg.PC)

	c.logger.Debug("CPU reset",
		log.Stringer("variant", variant),
		log.Hex("pc", c.reg.PC))
	return nil
}

func (c *CPU) setVariant(variant Variant) {
	c.variant = variant
	c.profile = profileOf(variant)
}

// Variant returns the selected variant.
func (c *CPU) Variant() Variant {
	return c.variant
}

// Halted returns whether the CPU executed a KIL opcode and stopped. Only a
// reset resumes execution.
func (c *CPU) Halted() bool {
	return c.halted
}

// Context returns a copy of the register file.
func (c *CPU) Context() Registers {
	return c.reg
}

// SetContext overwrites the register file.
func (c *CPU) SetContext(reg Registers) {
	c.reg = reg
	c.reg.setStatus(reg.P)
}

// SetIRQCallback sets the function that is called when an IRQ is taken.
func (c *CPU) SetIRQCallback(callback IRQCallback) {
	c.irqCallback = callback
}

// GetRegister returns the value of a register. Stack slots that are
// outside of the stack page and unknown registers return 0.
func (c *CPU) GetRegister(id RegisterID) uint16 {
	switch id {
	case RegPC:
		return c.reg.PC
	case RegSP:
		return uint16(c.reg.SP)
	case RegP:
		return uint16(c.reg.P)
	case RegA:
		return uint16(c.reg.A)
	case RegX:
		return uint16(c.reg.X)
	case RegY:
		return uint16(c.reg.Y)
	case RegEA:
		return c.reg.EffectiveAddress
	case RegZP:
		return c.reg.ZeroPageAddress
	case RegNMIState:
		return boolValue(c.nmiLine)
	case RegIRQState:
		return boolValue(c.irqLine)
	case RegSOState:
		return boolValue(c.overflowSet)
	case RegVariant:
		return uint16(c.variant)
	case RegPreviousPC:
		return c.reg.PreviousPC
	}

	address, ok := c.stackSlotAddress(id)
	if !ok {
		return 0
	}
	lo := uint16(c.bus.Read(address))
	hi := uint16(c.bus.Read(address + 1))
	return hi<<8 | lo
}

// SetRegister sets the value of a register. Writing the line state
// registers drives the corresponding input line. Stack slots that are
// outside of the stack page and unknown registers are ignored.
func (c *CPU) SetRegister(id RegisterID, value uint16) {
	switch id {
	case RegPC:
		c.jump(value)
	case RegSP:
		c.reg.SP = uint8(value)
	case RegP:
		c.reg.setStatus(Flags(value))
	case RegA:
		c.reg.A = uint8(value)
	case RegX:
		c.reg.X = uint8(value)
	case RegY:
		c.reg.Y = uint8(value)
	case RegEA:
		c.reg.EffectiveAddress = value
	case RegZP:
		c.reg.ZeroPageAddress = value
	case RegNMIState:
		c.SetNMILine(lineState(value))
	case RegIRQState:
		c.SetIRQLine(IRQLine, lineState(value))
	case RegSOState:
		c.SetIRQLine(SetOverflowLine, lineState(value))
	case RegVariant:
		if variant := Variant(value); variant.Valid() {
			c.setVariant(variant)
		}
	case RegPreviousPC:
		c.reg.PreviousPC = value
	default:
		address, ok := c.stackSlotAddress(id)
		if !ok {
			return
		}
		c.bus.Write(address, uint8(value))
		c.bus.Write(address+1, uint8(value>>8))
	}
}

// stackSlotAddress returns the memory address of the low byte of a stack
// slot, the word has to fit completely into the stack page.
func (c *CPU) stackSlotAddress(id RegisterID) (uint16, bool) {
	if id > RegStackContents {
		return 0, false
	}
	slot := int(RegStackContents - id)
	offset := int(c.reg.SP) + 1 + 2*slot
	if offset+1 > 0xff {
		return 0, false
	}
	return stackBase + uint16(offset), true
}

func boolValue(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func lineState(value uint16) LineState {
	if value != 0 {
		return AssertLine
	}
	return ClearLine
}
