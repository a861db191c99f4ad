package mos6502

import "github.com/retroenv/retrogolib/log"

// Undocumented NMOS instructions that the 6510 table decodes. Several of
// them are unstable on real hardware, the emulated results follow the
// commonly documented behavior.
var (
	insANC = &instruction{name: "ANC", exec: (*CPU).anc}
	insARR = &instruction{name: "ARR", exec: (*CPU).arr}
	insASR = &instruction{name: "ASR", exec: (*CPU).asr}
	insAST = &instruction{name: "AST", exec: (*CPU).ast}
	insASX = &instruction{name: "ASX", exec: (*CPU).asx}
	insAXA = &instruction{name: "AXA", exec: (*CPU).axa}
	insDCP = &instruction{name: "DCP", exec: (*CPU).dcp}
	insDOP = &instruction{name: "DOP", exec: (*CPU).nop}
	insISB = &instruction{name: "ISB", exec: (*CPU).isb}
	insKIL = &instruction{name: "KIL", exec: (*CPU).kil}
	insLAX = &instruction{name: "LAX", exec: (*CPU).lax}
	insOAL = &instruction{name: "OAL", exec: (*CPU).oal}
	insRLA = &instruction{name: "RLA", exec: (*CPU).rla}
	insRRA = &instruction{name: "RRA", exec: (*CPU).rra}
	insSAH = &instruction{name: "SAH", exec: (*CPU).sah}
	insSAX = &instruction{name: "SAX", exec: (*CPU).sax}
	insSLO = &instruction{name: "SLO", exec: (*CPU).slo}
	insSRE = &instruction{name: "SRE", exec: (*CPU).sre}
	insSSH = &instruction{name: "SSH", exec: (*CPU).ssh}
	insSXH = &instruction{name: "SXH", exec: (*CPU).sxh}
	insSYH = &instruction{name: "SYH", exec: (*CPU).syh}
	insTOP = &instruction{name: "TOP", exec: (*CPU).nop}
)

// highPlusOne returns the high byte of the effective address plus one that
// the unstable store instructions combine their value with.
func highPlusOne(op *operand) uint8 {
	return uint8(op.address>>8) + 1
}

func (c *CPU) anc(op *operand) {
	c.reg.A &= c.load(op)
	c.reg.setNZ(c.reg.A)
	c.reg.setFlag(FlagCarry, c.reg.A&0x80 != 0)
}

// arr ands the operand into A and rotates A right. C and V are taken from
// bits 6 and 5 of the result, in decimal mode the result gets BCD fixups.
func (c *CPU) arr(op *operand) {
	value := c.reg.A & c.load(op)
	carry := uint8(c.reg.carry())
	result := value>>1 | carry<<7

	if !c.reg.flag(FlagDecimal) {
		c.reg.setNZ(result)
		c.reg.setFlag(FlagCarry, result&0x40 != 0)
		c.reg.setFlag(FlagOverflow, (result>>6^result>>5)&1 != 0)
		c.reg.A = result
		return
	}

	c.reg.setFlag(FlagNegative, carry != 0)
	c.reg.setFlag(FlagZero, result == 0)
	c.reg.setFlag(FlagOverflow, (value^result)&0x40 != 0)
	lo := value & 0x0f
	hi := value >> 4
	if lo+lo&1 > 5 {
		result = result&0xf0 | (result+6)&0x0f
	}
	if hi+hi&1 > 5 {
		c.reg.P |= FlagCarry
		result += 0x60
	} else {
		c.reg.P &^= FlagCarry
	}
	c.reg.A = result
}

func (c *CPU) asr(op *operand) {
	c.reg.A = c.shiftRight(c.reg.A & c.load(op))
}

func (c *CPU) ast(op *operand) {
	c.reg.SP &= c.load(op)
	c.reg.A = c.reg.SP
	c.reg.X = c.reg.SP
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) asx(op *operand) {
	value := c.load(op)
	c.reg.X &= c.reg.A
	c.reg.setFlag(FlagCarry, c.reg.X >= value)
	c.reg.X -= value
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) axa(op *operand) {
	c.reg.A = (c.reg.A | 0xee) & c.reg.X & c.load(op)
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) dcp(op *operand) {
	value := c.load(op) - 1
	c.commit(op, value)
	c.compare(c.reg.A, value)
}

func (c *CPU) isb(op *operand) {
	value := c.load(op) + 1
	c.commit(op, value)
	c.sbcNMOS(value)
}

// kil jams the CPU. The program counter stays on the opcode and only a
// reset brings the CPU back.
func (c *CPU) kil(*operand) {
	c.reg.PC--
	c.halted = true
	c.logger.Warn("CPU halted by KIL opcode",
		log.Hex("address", c.reg.PC),
		log.Uint8("opcode", c.opcode))
}

func (c *CPU) lax(op *operand) {
	c.reg.A = c.load(op)
	c.reg.X = c.reg.A
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) oal(op *operand) {
	c.reg.A = (c.reg.A | 0xee) & c.load(op)
	c.reg.X = c.reg.A
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) rla(op *operand) {
	value := c.rotateLeft(c.load(op))
	c.commit(op, value)
	c.reg.A &= value
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) rra(op *operand) {
	value := c.rotateRight(c.load(op))
	c.commit(op, value)
	c.adcNMOS(value)
}

func (c *CPU) sah(op *operand) {
	c.bus.Write(op.address, c.reg.A&c.reg.X&highPlusOne(op))
}

func (c *CPU) sax(op *operand) {
	c.bus.Write(op.address, c.reg.A&c.reg.X)
}

func (c *CPU) slo(op *operand) {
	value := c.shiftLeft(c.load(op))
	c.commit(op, value)
	c.reg.A |= value
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) sre(op *operand) {
	value := c.shiftRight(c.load(op))
	c.commit(op, value)
	c.reg.A ^= value
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) ssh(op *operand) {
	c.reg.SP = c.reg.A & c.reg.X
	c.bus.Write(op.address, c.reg.SP&highPlusOne(op))
}

func (c *CPU) sxh(op *operand) {
	c.bus.Write(op.address, c.reg.X&highPlusOne(op))
}

func (c *CPU) syh(op *operand) {
	c.bus.Write(op.address, c.reg.Y&highPlusOne(op))
}
