package mos6502

import "github.com/retroenv/retrogolib/log"

// interruptCycles is the cost of taking an NMI or IRQ.
const interruptCycles = 7

// irqLatch is the IRQ recognition state that is evaluated before every
// instruction.
type irqLatch uint8

const (
	irqIdle irqLatch = iota
	// irqArmedAfterCLI delays recognition of an asserted IRQ line by one
	// instruction after the interrupt disable flag got cleared.
	irqArmedAfterCLI
	// irqPending is checked at the next instruction boundary.
	irqPending
)

// SetNMILine sets the level of the non maskable interrupt input. The NMI is
// edge triggered, a transition to asserted takes the interrupt immediately
// and charges its cycles to the running Execute call.
func (c *CPU) SetNMILine(state LineState) {
	asserted := state != ClearLine
	if c.nmiLine == asserted {
		return
	}
	c.nmiLine = asserted
	if !asserted || c.halted {
		return
	}

	c.logger.Debug("NMI",
		log.Hex("pc", c.reg.PC),
		log.Int("remaining_cycles", c.remaining))
	c.interrupt(nmiVector)
}

// SetIRQLine sets the level of the IRQ input or of the set overflow input.
// The IRQ is level triggered and taken at the next instruction boundary
// where the interrupt disable flag is clear. A falling edge of the set
// overflow input sets the overflow flag, the 2A03 has no such pin and only
// records the line state. Unknown lines are ignored.
func (c *CPU) SetIRQLine(line Line, state LineState) {
	asserted := state != ClearLine

	switch line {
	case IRQLine:
		c.irqLine = asserted
		if asserted && c.irqState != irqArmedAfterCLI {
			c.irqState = irqPending
		}

	case SetOverflowLine:
		if c.overflowSet && !asserted && c.profile.overflowPin {
			c.reg.P |= FlagOverflow
		}
		c.overflowSet = asserted
	}
}

// serviceIRQ takes a pending IRQ at an instruction boundary. A pending
// request is dropped while interrupts are disabled, a still asserted line
// gets recognized again when an instruction clears the disable flag.
func (c *CPU) serviceIRQ() {
	if c.irqState != irqPending {
		return
	}
	c.irqState = irqIdle
	if c.reg.flag(FlagInterrupt) {
		return
	}

	c.logger.Debug("IRQ", log.Hex("pc", c.reg.PC))
	c.interrupt(irqVector)
	if c.irqCallback != nil {
		c.irqCallback(IRQLine)
	}
}

// updateIRQLatch advances the IRQ latch after an instruction completed.
// An instruction that cleared the interrupt disable flag while the IRQ line
// is asserted arms the latch, the request becomes pending only after the
// following instruction.
func (c *CPU) updateIRQLatch(disabledBefore bool) {
	switch {
	case c.irqState == irqArmedAfterCLI:
		if c.irqLine {
			c.irqState = irqPending
		} else {
			c.irqState = irqIdle
		}

	case disabledBefore && !c.reg.flag(FlagInterrupt) && c.irqLine:
		c.irqState = irqArmedAfterCLI
		c.logger.Debug("IRQ delayed after interrupt enable",
			log.Hex("pc", c.reg.PreviousPC))
	}
}

// interrupt pushes the return address and the status with the break flag
// cleared, disables interrupts and jumps through the vector.
func (c *CPU) interrupt(vector uint16) {
	c.pushWord(c.reg.PC)
	c.push(uint8((c.reg.P | FlagReserved) &^ FlagBreak))
	c.reg.P |= FlagInterrupt
	if c.profile.interruptClearsDecimal {
		c.reg.P &^= FlagDecimal
	}
	c.remaining -= interruptCycles
	c.jump(c.readWord(vector))
}
