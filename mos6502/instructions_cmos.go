package mos6502

import "fmt"

// Instructions added by the CMOS parts.
var (
	insBBR = bitInstructions("BBR%d", (*CPU).bbr)
	insBBS = bitInstructions("BBS%d", (*CPU).bbs)
	insRMB = bitInstructions("RMB%d", (*CPU).rmb)
	insSMB = bitInstructions("SMB%d", (*CPU).smb)

	insBITImmediate = &instruction{name: "BIT", exec: (*CPU).bitImmediate}
	insBRA          = &instruction{name: "BRA", exec: func(c *CPU, op *operand) { c.branch(op, true) }}
	insBRKCMOS      = &instruction{name: "BRK", exec: func(c *CPU, _ *operand) { c.brk(true) }}
	insBSR          = &instruction{name: "BSR", exec: (*CPU).bsr}
	insDEA          = &instruction{name: "DEA", exec: (*CPU).dea}
	insINA          = &instruction{name: "INA", exec: (*CPU).ina}
	insPHX          = &instruction{name: "PHX", exec: (*CPU).phx}
	insPHY          = &instruction{name: "PHY", exec: (*CPU).phy}
	insPLX          = &instruction{name: "PLX", exec: (*CPU).plx}
	insPLY          = &instruction{name: "PLY", exec: (*CPU).ply}
	insSTZ          = &instruction{name: "STZ", exec: (*CPU).stz}
	insTRB          = &instruction{name: "TRB", exec: (*CPU).trb}
	insTSB          = &instruction{name: "TSB", exec: (*CPU).tsb}
)

// bitInstructions creates the 8 instructions of a bit manipulation group,
// one per bit number.
func bitInstructions(format string, exec func(c *CPU, op *operand, bit uint8)) [8]*instruction {
	var list [8]*instruction
	for i := range list {
		bit := uint8(i)
		list[i] = &instruction{
			name: fmt.Sprintf(format, i),
			exec: func(c *CPU, op *operand) {
				exec(c, op, bit)
			},
		}
	}
	return list
}

func (c *CPU) bbr(op *operand, bit uint8) {
	c.branch(op, c.load(op)&(1<<bit) == 0)
}

func (c *CPU) bbs(op *operand, bit uint8) {
	c.branch(op, c.load(op)&(1<<bit) != 0)
}

func (c *CPU) rmb(op *operand, bit uint8) {
	c.commit(op, c.load(op)&^(1<<bit))
}

func (c *CPU) smb(op *operand, bit uint8) {
	c.commit(op, c.load(op)|1<<bit)
}

// bitImmediate only affects the zero flag.
func (c *CPU) bitImmediate(op *operand) {
	c.reg.setFlag(FlagZero, c.reg.A&c.load(op) == 0)
}

// bsr calls a subroutine at a 16 bit PC relative offset and pushes the
// return address like JSR.
func (c *CPU) bsr(op *operand) {
	c.pushWord(c.reg.PC - 1)
	c.jump(op.target)
}

func (c *CPU) dea(*operand) {
	c.reg.A--
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) ina(*operand) {
	c.reg.A++
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) phx(*operand) {
	c.push(c.reg.X)
}

func (c *CPU) phy(*operand) {
	c.push(c.reg.Y)
}

func (c *CPU) plx(*operand) {
	c.reg.X = c.pull()
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) ply(*operand) {
	c.reg.Y = c.pull()
	c.reg.setNZ(c.reg.Y)
}

func (c *CPU) stz(op *operand) {
	c.bus.Write(op.address, 0)
}

func (c *CPU) trb(op *operand) {
	value := c.load(op)
	c.reg.setFlag(FlagZero, c.reg.A&value == 0)
	c.commit(op, value&^c.reg.A)
}

func (c *CPU) tsb(op *operand) {
	value := c.load(op)
	c.reg.setFlag(FlagZero, c.reg.A&value == 0)
	c.commit(op, value|c.reg.A)
}
