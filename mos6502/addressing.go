package mos6502

// AddressingMode defines how an instruction locates its operand.
type AddressingMode uint8

// Addressing modes.
const (
	ImpliedMode                 AddressingMode = iota
	AccumulatorMode                            // A
	ImmediateMode                              // #$nn
	ZeroPageMode                               // $nn
	ZeroPageXMode                              // $nn,X
	ZeroPageYMode                              // $nn,Y
	AbsoluteMode                               // $nnnn
	AbsoluteXMode                              // $nnnn,X
	AbsoluteYMode                              // $nnnn,Y
	IndirectMode                               // ($nnnn)
	IndexedIndirectMode                        // ($nn,X)
	IndirectIndexedMode                        // ($nn),Y
	RelativeMode                               // branch offset
	ZeroPageIndirectMode                       // ($nn) CMOS
	AbsoluteIndexedIndirectMode                // ($nnnn,X) CMOS
	ZeroPageRelativeMode                       // $nn,offset for BBR/BBS
	RelativeLongMode                           // 16 bit branch offset for BSR
)

var operandSizes = [...]int{
	ImpliedMode:                 0,
	AccumulatorMode:             0,
	ImmediateMode:               1,
	ZeroPageMode:                1,
	ZeroPageXMode:               1,
	ZeroPageYMode:               1,
	AbsoluteMode:                2,
	AbsoluteXMode:               2,
	AbsoluteYMode:               2,
	IndirectMode:                2,
	IndexedIndirectMode:         1,
	IndirectIndexedMode:         1,
	RelativeMode:                1,
	ZeroPageIndirectMode:        1,
	AbsoluteIndexedIndirectMode: 2,
	ZeroPageRelativeMode:        2,
	RelativeLongMode:            2,
}

// OperandSize returns the number of operand bytes following the opcode.
func (m AddressingMode) OperandSize() int {
	if int(m) >= len(operandSizes) {
		return 0
	}
	return operandSizes[m]
}

// operand is the result of resolving the addressing mode of an
// instruction.
type operand struct {
	mode    AddressingMode
	address uint16 // effective address of memory operands
	value   uint8  // immediate operand
	target  uint16 // branch destination

	extraCycles int // cycles added by the instruction, like taken branches
}

// fetch reads the next operand byte at PC and advances PC.
func (c *CPU) fetch() uint8 {
	var b uint8
	if c.operands != nil {
		b = c.operands.ReadOperand(c.reg.PC)
	} else {
		b = c.bus.Read(c.reg.PC)
	}
	c.reg.PC++
	return b
}

func (c *CPU) fetchWord() uint16 {
	lo := uint16(c.fetch())
	hi := uint16(c.fetch())
	return hi<<8 | lo
}

// readWord reads a little endian word, the high byte address wraps at the
// end of the address space.
func (c *CPU) readWord(address uint16) uint16 {
	lo := uint16(c.bus.Read(address))
	hi := uint16(c.bus.Read(address + 1))
	return hi<<8 | lo
}

// readZeroPageWord reads a pointer from the zero page, the high byte wraps
// inside the zero page.
func (c *CPU) readZeroPageWord(address uint8) uint16 {
	c.reg.ZeroPageAddress = uint16(address)
	lo := uint16(c.bus.Read(uint16(address)))
	hi := uint16(c.bus.Read(uint16(address + 1)))
	return hi<<8 | lo
}

// resolve fetches the operand bytes of the instruction and computes the
// effective address. It does not read the operand itself so that stores do
// not trigger read side effects.
func (c *CPU) resolve(op *operand) {
	switch op.mode {
	case ImpliedMode, AccumulatorMode:
		return

	case ImmediateMode:
		op.value = c.fetch()
		return

	case ZeroPageMode:
		op.address = uint16(c.fetch())
		c.reg.ZeroPageAddress = op.address

	case ZeroPageXMode:
		op.address = uint16(c.fetch() + c.reg.X)
		c.reg.ZeroPageAddress = op.address

	case ZeroPageYMode:
		op.address = uint16(c.fetch() + c.reg.Y)
		c.reg.ZeroPageAddress = op.address

	case AbsoluteMode:
		op.address = c.fetchWord()

	case AbsoluteXMode:
		op.address = c.fetchWord() + uint16(c.reg.X)

	case AbsoluteYMode:
		op.address = c.fetchWord() + uint16(c.reg.Y)

	case IndirectMode:
		pointer := c.fetchWord()
		if c.profile.indirectPageWrapBug {
			lo := uint16(c.bus.Read(pointer))
			hi := uint16(c.bus.Read(pointer&0xff00 | (pointer+1)&0x00ff))
			op.address = hi<<8 | lo
		} else {
			op.address = c.readWord(pointer)
		}

	case IndexedIndirectMode:
		op.address = c.readZeroPageWord(c.fetch() + c.reg.X)

	case IndirectIndexedMode:
		op.address = c.readZeroPageWord(c.fetch()) + uint16(c.reg.Y)

	case ZeroPageIndirectMode:
		op.address = c.readZeroPageWord(c.fetch())

	case AbsoluteIndexedIndirectMode:
		op.address = c.readWord(c.fetchWord() + uint16(c.reg.X))

	case RelativeMode:
		offset := int8(c.fetch())
		op.target = c.reg.PC + uint16(offset)
		return

	case ZeroPageRelativeMode:
		op.address = uint16(c.fetch())
		c.reg.ZeroPageAddress = op.address
		offset := int8(c.fetch())
		op.target = c.reg.PC + uint16(offset)

	case RelativeLongMode:
		offset := c.fetchWord()
		op.target = c.reg.PC + offset - 1
		return
	}

	c.reg.EffectiveAddress = op.address
}

// load returns the operand value of the instruction.
func (c *CPU) load(op *operand) uint8 {
	switch op.mode {
	case ImmediateMode:
		return op.value
	case AccumulatorMode:
		return c.reg.A
	default:
		return c.bus.Read(op.address)
	}
}

// commit writes back the result of a read-modify-write instruction.
func (c *CPU) commit(op *operand, value uint8) {
	if op.mode == AccumulatorMode {
		c.reg.A = value
		return
	}
	c.bus.Write(op.address, value)
}
