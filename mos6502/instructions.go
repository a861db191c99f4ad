package mos6502

import "github.com/retroenv/retrogolib/log"

// instruction is an operation primitive that is bound to an addressing mode
// and a cycle cost by the opcode tables.
type instruction struct {
	name string
	exec func(c *CPU, op *operand)
}

// Instructions shared by all variants.
var (
	insAND = &instruction{name: "AND", exec: (*CPU).and}
	insASL = &instruction{name: "ASL", exec: (*CPU).asl}
	insBCC = &instruction{name: "BCC", exec: branchIf(FlagCarry, false)}
	insBCS = &instruction{name: "BCS", exec: branchIf(FlagCarry, true)}
	insBEQ = &instruction{name: "BEQ", exec: branchIf(FlagZero, true)}
	insBIT = &instruction{name: "BIT", exec: (*CPU).bit}
	insBMI = &instruction{name: "BMI", exec: branchIf(FlagNegative, true)}
	insBNE = &instruction{name: "BNE", exec: branchIf(FlagZero, false)}
	insBPL = &instruction{name: "BPL", exec: branchIf(FlagNegative, false)}
	insBRK = &instruction{name: "BRK", exec: func(c *CPU, _ *operand) { c.brk(false) }}
	insBVC = &instruction{name: "BVC", exec: branchIf(FlagOverflow, false)}
	insBVS = &instruction{name: "BVS", exec: branchIf(FlagOverflow, true)}
	insCLC = &instruction{name: "CLC", exec: clearFlag(FlagCarry)}
	insCLD = &instruction{name: "CLD", exec: clearFlag(FlagDecimal)}
	insCLI = &instruction{name: "CLI", exec: clearFlag(FlagInterrupt)}
	insCLV = &instruction{name: "CLV", exec: clearFlag(FlagOverflow)}
	insCMP = &instruction{name: "CMP", exec: (*CPU).cmp}
	insCPX = &instruction{name: "CPX", exec: (*CPU).cpx}
	insCPY = &instruction{name: "CPY", exec: (*CPU).cpy}
	insDEC = &instruction{name: "DEC", exec: (*CPU).dec}
	insDEX = &instruction{name: "DEX", exec: (*CPU).dex}
	insDEY = &instruction{name: "DEY", exec: (*CPU).dey}
	insEOR = &instruction{name: "EOR", exec: (*CPU).eor}
	insINC = &instruction{name: "INC", exec: (*CPU).inc}
	insINX = &instruction{name: "INX", exec: (*CPU).inx}
	insINY = &instruction{name: "INY", exec: (*CPU).iny}
	insJMP = &instruction{name: "JMP", exec: (*CPU).jmp}
	insJSR = &instruction{name: "JSR", exec: (*CPU).jsr}
	insLDA = &instruction{name: "LDA", exec: (*CPU).lda}
	insLDX = &instruction{name: "LDX", exec: (*CPU).ldx}
	insLDY = &instruction{name: "LDY", exec: (*CPU).ldy}
	insLSR = &instruction{name: "LSR", exec: (*CPU).lsr}
	insNOP = &instruction{name: "NOP", exec: (*CPU).nop}
	insORA = &instruction{name: "ORA", exec: (*CPU).ora}
	insPHA = &instruction{name: "PHA", exec: (*CPU).pha}
	insPHP = &instruction{name: "PHP", exec: (*CPU).php}
	insPLA = &instruction{name: "PLA", exec: (*CPU).pla}
	insPLP = &instruction{name: "PLP", exec: (*CPU).plp}
	insROL = &instruction{name: "ROL", exec: (*CPU).rol}
	insROR = &instruction{name: "ROR", exec: (*CPU).ror}
	insRTI = &instruction{name: "RTI", exec: (*CPU).rti}
	insRTS = &instruction{name: "RTS", exec: (*CPU).rts}
	insSEC = &instruction{name: "SEC", exec: setFlag(FlagCarry)}
	insSED = &instruction{name: "SED", exec: setFlag(FlagDecimal)}
	insSEI = &instruction{name: "SEI", exec: setFlag(FlagInterrupt)}
	insSTA = &instruction{name: "STA", exec: (*CPU).sta}
	insSTX = &instruction{name: "STX", exec: (*CPU).stx}
	insSTY = &instruction{name: "STY", exec: (*CPU).sty}
	insTAX = &instruction{name: "TAX", exec: (*CPU).tax}
	insTAY = &instruction{name: "TAY", exec: (*CPU).tay}
	insTSX = &instruction{name: "TSX", exec: (*CPU).tsx}
	insTXA = &instruction{name: "TXA", exec: (*CPU).txa}
	insTXS = &instruction{name: "TXS", exec: (*CPU).txs}
	insTYA = &instruction{name: "TYA", exec: (*CPU).tya}

	insILL = &instruction{name: "ILL", exec: (*CPU).ill}
)

// Arithmetic flavors. NMOS parts compute N, V and Z from intermediate
// results in decimal mode, CMOS parts from the final result and the 2A03
// has no decimal mode at all.
var (
	insADC       = &instruction{name: "ADC", exec: func(c *CPU, op *operand) { c.adcNMOS(c.load(op)) }}
	insSBC       = &instruction{name: "SBC", exec: func(c *CPU, op *operand) { c.sbcNMOS(c.load(op)) }}
	insADCCMOS   = &instruction{name: "ADC", exec: func(c *CPU, op *operand) { c.adcCMOS(c.load(op)) }}
	insSBCCMOS   = &instruction{name: "SBC", exec: func(c *CPU, op *operand) { c.sbcCMOS(c.load(op)) }}
	insADCBinary = &instruction{name: "ADC", exec: func(c *CPU, op *operand) { c.adcBinary(c.load(op)) }}
	insSBCBinary = &instruction{name: "SBC", exec: func(c *CPU, op *operand) { c.sbcBinary(c.load(op)) }}
)

func (c *CPU) push(value uint8) {
	c.bus.Write(stackBase|uint16(c.reg.SP), value)
	c.reg.SP--
}

func (c *CPU) pull() uint8 {
	c.reg.SP++
	return c.bus.Read(stackBase | uint16(c.reg.SP))
}

func (c *CPU) pushWord(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value))
}

func (c *CPU) pullWord() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// jump sets the program counter to a non sequential location.
func (c *CPU) jump(address uint16) {
	c.reg.PC = address
	c.bus.PCChanged(address)
}

// branch jumps to the branch target of the operand if the condition is met.
// A taken branch costs one extra cycle and another one if the target is on
// a different page.
func (c *CPU) branch(op *operand, taken bool) {
	if !taken {
		return
	}
	op.extraCycles++
	if op.target&0xff00 != c.reg.PC&0xff00 {
		op.extraCycles++
	}
	c.jump(op.target)
}

func branchIf(flag Flags, set bool) func(c *CPU, op *operand) {
	return func(c *CPU, op *operand) {
		c.branch(op, c.reg.flag(flag) == set)
	}
}

func clearFlag(flag Flags) func(c *CPU, op *operand) {
	return func(c *CPU, _ *operand) {
		c.reg.P &^= flag
	}
}

func setFlag(flag Flags) func(c *CPU, op *operand) {
	return func(c *CPU, _ *operand) {
		c.reg.P |= flag
	}
}

func (c *CPU) adcBinary(value uint8) {
	a := int(c.reg.A)
	sum := a + int(value) + c.reg.carry()
	c.reg.setFlag(FlagOverflow, ^(a^int(value))&(a^sum)&0x80 != 0)
	c.reg.setFlag(FlagCarry, sum > 0xff)
	c.reg.A = uint8(sum)
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) sbcBinary(value uint8) {
	a := int(c.reg.A)
	diff := a - int(value) - (1 - c.reg.carry())
	c.reg.setFlag(FlagOverflow, (a^int(value))&(a^diff)&0x80 != 0)
	c.reg.setFlag(FlagCarry, diff&0xff00 == 0)
	c.reg.A = uint8(diff)
	c.reg.setNZ(c.reg.A)
}

// adcDecimal performs a BCD addition and returns the result together with
// the intermediate high nibble sum that NMOS parts derive N and V from.
func (c *CPU) adcDecimal(value uint8) (result uint8, hi int) {
	a := int(c.reg.A)
	v := int(value)
	carry := c.reg.carry()
	lo := a&0x0f + v&0x0f + carry
	hi = a&0xf0 + v&0xf0
	if lo > 0x09 {
		hi += 0x10
		lo += 0x06
	}
	c.reg.setFlag(FlagOverflow, ^(a^v)&(a^hi)&0x80 != 0)
	intermediate := hi
	if hi > 0x90 {
		hi += 0x60
	}
	c.reg.setFlag(FlagCarry, hi&0xff00 != 0)
	return uint8(lo&0x0f | hi&0xf0), intermediate
}

func (c *CPU) adcNMOS(value uint8) {
	if !c.reg.flag(FlagDecimal) {
		c.adcBinary(value)
		return
	}
	binary := c.reg.A + value + uint8(c.reg.carry())
	result, hi := c.adcDecimal(value)
	c.reg.setFlag(FlagZero, binary == 0)
	c.reg.setFlag(FlagNegative, hi&0x80 != 0)
	c.reg.A = result
}

func (c *CPU) adcCMOS(value uint8) {
	if !c.reg.flag(FlagDecimal) {
		c.adcBinary(value)
		return
	}
	c.reg.A, _ = c.adcDecimal(value)
	c.reg.setNZ(c.reg.A)
}

// sbcDecimal performs a BCD subtraction and returns the result together
// with the binary difference that NMOS parts derive N and Z from.
func (c *CPU) sbcDecimal(value uint8) (result uint8, diff int) {
	a := int(c.reg.A)
	v := int(value)
	borrow := 1 - c.reg.carry()
	diff = a - v - borrow
	lo := a&0x0f - v&0x0f - borrow
	hi := a&0xf0 - v&0xf0
	if lo&0x10 != 0 {
		lo -= 6
		hi--
	}
	c.reg.setFlag(FlagOverflow, (a^v)&(a^diff)&0x80 != 0)
	if hi&0x0100 != 0 {
		hi -= 0x60
	}
	c.reg.setFlag(FlagCarry, diff&0xff00 == 0)
	return uint8(lo&0x0f | hi&0xf0), diff
}

func (c *CPU) sbcNMOS(value uint8) {
	if !c.reg.flag(FlagDecimal) {
		c.sbcBinary(value)
		return
	}
	result, diff := c.sbcDecimal(value)
	c.reg.setNZ(uint8(diff))
	c.reg.A = result
}

func (c *CPU) sbcCMOS(value uint8) {
	if !c.reg.flag(FlagDecimal) {
		c.sbcBinary(value)
		return
	}
	c.reg.A, _ = c.sbcDecimal(value)
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) and(op *operand) {
	c.reg.A &= c.load(op)
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) ora(op *operand) {
	c.reg.A |= c.load(op)
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) eor(op *operand) {
	c.reg.A ^= c.load(op)
	c.reg.setNZ(c.reg.A)
}

// shiftLeft and the other shift helpers update C, N and Z and return the
// shifted value.
func (c *CPU) shiftLeft(value uint8) uint8 {
	c.reg.setFlag(FlagCarry, value&0x80 != 0)
	value <<= 1
	c.reg.setNZ(value)
	return value
}

func (c *CPU) shiftRight(value uint8) uint8 {
	c.reg.setFlag(FlagCarry, value&0x01 != 0)
	value >>= 1
	c.reg.setNZ(value)
	return value
}

func (c *CPU) rotateLeft(value uint8) uint8 {
	carry := uint8(c.reg.carry())
	c.reg.setFlag(FlagCarry, value&0x80 != 0)
	value = value<<1 | carry
	c.reg.setNZ(value)
	return value
}

func (c *CPU) rotateRight(value uint8) uint8 {
	carry := uint8(c.reg.carry())
	c.reg.setFlag(FlagCarry, value&0x01 != 0)
	value = value>>1 | carry<<7
	c.reg.setNZ(value)
	return value
}

func (c *CPU) asl(op *operand) {
	c.commit(op, c.shiftLeft(c.load(op)))
}

func (c *CPU) lsr(op *operand) {
	c.commit(op, c.shiftRight(c.load(op)))
}

func (c *CPU) rol(op *operand) {
	c.commit(op, c.rotateLeft(c.load(op)))
}

func (c *CPU) ror(op *operand) {
	c.commit(op, c.rotateRight(c.load(op)))
}

func (c *CPU) bit(op *operand) {
	value := c.load(op)
	c.reg.setFlag(FlagZero, c.reg.A&value == 0)
	c.reg.P = c.reg.P&^(FlagNegative|FlagOverflow) | Flags(value)&(FlagNegative|FlagOverflow)
}

func (c *CPU) compare(register, value uint8) {
	c.reg.setFlag(FlagCarry, register >= value)
	c.reg.setNZ(register - value)
}

func (c *CPU) cmp(op *operand) {
	c.compare(c.reg.A, c.load(op))
}

func (c *CPU) cpx(op *operand) {
	c.compare(c.reg.X, c.load(op))
}

func (c *CPU) cpy(op *operand) {
	c.compare(c.reg.Y, c.load(op))
}

func (c *CPU) dec(op *operand) {
	value := c.load(op) - 1
	c.reg.setNZ(value)
	c.commit(op, value)
}

func (c *CPU) inc(op *operand) {
	value := c.load(op) + 1
	c.reg.setNZ(value)
	c.commit(op, value)
}

func (c *CPU) dex(*operand) {
	c.reg.X--
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) dey(*operand) {
	c.reg.Y--
	c.reg.setNZ(c.reg.Y)
}

func (c *CPU) inx(*operand) {
	c.reg.X++
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) iny(*operand) {
	c.reg.Y++
	c.reg.setNZ(c.reg.Y)
}

func (c *CPU) jmp(op *operand) {
	c.jump(op.address)
}

func (c *CPU) jsr(op *operand) {
	c.pushWord(c.reg.PC - 1)
	c.jump(op.address)
}

func (c *CPU) rts(*operand) {
	c.jump(c.pullWord() + 1)
}

func (c *CPU) rti(*operand) {
	c.reg.setStatus(Flags(c.pull()))
	c.jump(c.pullWord())
}

// brk pushes the address after the padding byte and the status with the
// break flag set, then jumps through the IRQ vector.
func (c *CPU) brk(clearDecimal bool) {
	c.reg.PC++
	c.pushWord(c.reg.PC)
	c.push(uint8(c.reg.P | FlagBreak | FlagReserved))
	c.reg.P |= FlagInterrupt
	if clearDecimal {
		c.reg.P &^= FlagDecimal
	}
	c.jump(c.readWord(irqVector))
}

func (c *CPU) lda(op *operand) {
	c.reg.A = c.load(op)
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) ldx(op *operand) {
	c.reg.X = c.load(op)
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) ldy(op *operand) {
	c.reg.Y = c.load(op)
	c.reg.setNZ(c.reg.Y)
}

func (c *CPU) nop(*operand) {
}

func (c *CPU) pha(*operand) {
	c.push(c.reg.A)
}

func (c *CPU) php(*operand) {
	c.push(uint8(c.reg.P | FlagBreak | FlagReserved))
}

func (c *CPU) pla(*operand) {
	c.reg.A = c.pull()
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) plp(*operand) {
	c.reg.setStatus(Flags(c.pull()))
}

func (c *CPU) sta(op *operand) {
	c.bus.Write(op.address, c.reg.A)
}

func (c *CPU) stx(op *operand) {
	c.bus.Write(op.address, c.reg.X)
}

func (c *CPU) sty(op *operand) {
	c.bus.Write(op.address, c.reg.Y)
}

func (c *CPU) tax(*operand) {
	c.reg.X = c.reg.A
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) tay(*operand) {
	c.reg.Y = c.reg.A
	c.reg.setNZ(c.reg.Y)
}

func (c *CPU) tsx(*operand) {
	c.reg.X = c.reg.SP
	c.reg.setNZ(c.reg.X)
}

func (c *CPU) txa(*operand) {
	c.reg.A = c.reg.X
	c.reg.setNZ(c.reg.A)
}

func (c *CPU) txs(*operand) {
	c.reg.SP = c.reg.X
}

func (c *CPU) tya(*operand) {
	c.reg.A = c.reg.Y
	c.reg.setNZ(c.reg.A)
}

// ill handles opcodes that are not defined for the variant, they execute
// as a one byte no-op.
func (c *CPU) ill(*operand) {
	c.logger.Debug("Illegal opcode",
		log.Hex("address", c.reg.PreviousPC),
		log.Uint8("opcode", c.opcode),
		log.Stringer("variant", c.variant))
}
