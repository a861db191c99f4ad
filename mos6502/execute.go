package mos6502

// Execute runs instructions until the cycle budget is used up and returns
// the number of cycles that were consumed. At least one instruction is
// executed, the last instruction may overrun the budget. Interrupts taken
// during the call are charged to the budget. A halted CPU consumes the
// whole budget without executing anything.
func (c *CPU) Execute(cycles int) int {
	if c.halted {
		return cycles
	}

	c.remaining = cycles
	c.bus.PCChanged(c.reg.PC)

	for {
		c.reg.PreviousPC = c.reg.PC
		c.serviceIRQ()

		c.step()

		if c.halted {
			c.remaining = min(c.remaining, 0)
			break
		}
		if c.remaining <= 0 {
			break
		}
	}

	consumed := cycles - c.remaining
	c.remaining = 0
	return consumed
}

// step decodes and executes a single instruction.
func (c *CPU) step() {
	c.opcode = c.bus.ReadOpcode(c.reg.PC)
	c.reg.PC++

	entry := &c.profile.table[c.opcode]
	op := operand{mode: entry.mode}
	disabledBefore := c.reg.flag(FlagInterrupt)

	c.resolve(&op)
	entry.ins.exec(c, &op)

	c.remaining -= int(entry.cycles) + op.extraCycles
	c.updateIRQLatch(disabledBefore)
}
