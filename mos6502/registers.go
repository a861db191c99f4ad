package mos6502

import "strings"

// Flags is the processor status register P.
type Flags uint8

// Status register bits.
const (
	FlagCarry Flags = 1 << iota
	FlagZero
	FlagInterrupt
	FlagDecimal
	FlagBreak
	FlagReserved
	FlagOverflow
	FlagNegative
)

const stackBase = 0x0100

// String returns the flags in the classic NV-BDIZC notation, lowercase
// letters mark cleared bits.
func (f Flags) String() string {
	const names = "czidbrvn"
	var sb strings.Builder
	for i := 7; i >= 0; i-- {
		c := names[i]
		if f&(1<<i) != 0 {
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Registers is the register file of a CPU.
type Registers struct {
	PC uint16
	SP uint8
	P  Flags
	A  uint8
	X  uint8
	Y  uint8

	PreviousPC       uint16 // address of the last instruction started
	EffectiveAddress uint16 // last effective address computed by operand resolution
	ZeroPageAddress  uint16 // last zero page address used by operand resolution
}

// setNZ updates the Negative and Zero flags for the given value.
func (r *Registers) setNZ(value uint8) {
	r.P &^= FlagNegative | FlagZero
	if value == 0 {
		r.P |= FlagZero
	}
	r.P |= Flags(value) & FlagNegative
}

// setStatus loads the status register, Reserved and Break always read as set.
func (r *Registers) setStatus(p Flags) {
	r.P = p | FlagReserved | FlagBreak
}

func (r *Registers) setFlag(flag Flags, set bool) {
	if set {
		r.P |= flag
	} else {
		r.P &^= flag
	}
}

func (r *Registers) flag(flag Flags) bool {
	return r.P&flag != 0
}

// carry returns the carry flag as a number for arithmetic.
func (r *Registers) carry() int {
	return int(r.P & FlagCarry)
}

// RegisterID identifies a register for GetRegister and SetRegister.
// Negative identifiers address the previous PC and words on the stack.
type RegisterID int

// Register identifiers.
const (
	RegPC RegisterID = iota + 1
	RegSP
	RegP
	RegA
	RegX
	RegY
	RegEA
	RegZP
	RegNMIState
	RegIRQState
	RegSOState
	RegVariant
)

const (
	// RegPreviousPC reads the address of the last instruction started.
	RegPreviousPC RegisterID = -1
	// RegStackContents is the first stack slot, see StackSlot.
	RegStackContents RegisterID = -2
)

// StackSlot returns the register identifier of the n-th 16 bit word on the
// stack, slot 0 being the word most recently pushed.
func StackSlot(n int) RegisterID {
	return RegStackContents - RegisterID(n)
}

// LineState is the level of an interrupt input line.
type LineState uint8

// Line states.
const (
	ClearLine LineState = iota
	AssertLine
)

// Line selects an input line for SetIRQLine.
type Line int

// Input lines beside NMI.
const (
	IRQLine         Line = 0
	SetOverflowLine Line = 1
)
