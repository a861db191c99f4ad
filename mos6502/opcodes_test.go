package mos6502

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/set"
)

var allVariants = []Variant{NMOS6502, CMOS65C02, CMOS65SC02, NMOS6510, NES2A03}

// controlFlow contains the instructions that set the program counter.
var controlFlow = set.New[string]()

func init() {
	for _, name := range []string{"BRK", "JMP", "JSR", "RTS", "RTI", "BSR", "KIL"} {
		controlFlow.Add(name)
	}
}

func TestOpcodeLengthAndCycles(t *testing.T) {
	for _, variant := range allVariants {
		t.Run(variant.String(), func(t *testing.T) {
			for code := range 256 {
				info := variant.Opcode(uint8(code))
				if controlFlow.Contains(info.Mnemonic) ||
					info.Mode == RelativeMode || info.Mode == ZeroPageRelativeMode {
					continue
				}

				cpu, _ := newTestCPU(t, variant, uint8(code))
				consumed := cpu.Execute(1)

				wantPC := uint16(testOrigin + 1 + info.Mode.OperandSize())
				assert.Equal(t, wantPC, cpu.Context().PC, info.Mnemonic)
				assert.Equal(t, info.Cycles, consumed, info.Mnemonic)
			}
		})
	}
}

var operandSizes6502 = map[cpu6502.AddressingMode]int{
	cpu6502.ImpliedAddressing:     0,
	cpu6502.AccumulatorAddressing: 0,
	cpu6502.ImmediateAddressing:   1,
	cpu6502.ZeroPageAddressing:    1,
	cpu6502.ZeroPageXAddressing:   1,
	cpu6502.ZeroPageYAddressing:   1,
	cpu6502.RelativeAddressing:    1,
	cpu6502.IndirectXAddressing:   1,
	cpu6502.IndirectYAddressing:   1,
	cpu6502.AbsoluteAddressing:    2,
	cpu6502.AbsoluteXAddressing:   2,
	cpu6502.AbsoluteYAddressing:   2,
	cpu6502.IndirectAddressing:    2,
}

// undocumented reports whether the reference table entry is an undocumented
// opcode. The reference lists the KIL group as official instructions.
func undocumented(ref cpu6502.Opcode) bool {
	return ref.Instruction.Unofficial || ref.Instruction.Name == cpu6502.KilName
}

func TestDocumentedOpcodesMatchReference(t *testing.T) {
	documented := 0
	for code, ref := range cpu6502.Opcodes {
		if ref.Instruction == nil || undocumented(ref) {
			continue
		}
		documented++

		info := NMOS6502.Opcode(uint8(code))
		assert.True(t, strings.EqualFold(ref.Instruction.Name, info.Mnemonic),
			"opcode mnemonic mismatch for "+info.Mnemonic)
		if size, ok := operandSizes6502[ref.Addressing]; ok {
			assert.Equal(t, size, info.Mode.OperandSize(), info.Mnemonic)
		}
	}
	assert.Equal(t, 151, documented)
}

func TestUndocumentedOpcodesAreUnofficial(t *testing.T) {
	for code := range 256 {
		nmos := NMOS6502.Opcode(uint8(code))
		nmos6510 := NMOS6510.Opcode(uint8(code))
		if nmos == nmos6510 {
			continue
		}

		assert.Equal(t, "ILL", nmos.Mnemonic)
		ref := cpu6502.Opcodes[uint8(code)]
		if ref.Instruction != nil {
			assert.True(t, undocumented(ref), nmos6510.Mnemonic)
		}
	}
}

func TestVariantTables(t *testing.T) {
	tests := []struct {
		variant  Variant
		code     uint8
		mnemonic string
		mode     AddressingMode
		cycles   int
	}{
		{NMOS6502, 0x80, "ILL", ImpliedMode, 2},
		{NMOS6510, 0x80, "DOP", ImmediateMode, 2},
		{CMOS65C02, 0x80, "BRA", RelativeMode, 2},
		{CMOS65SC02, 0x80, "BRA", RelativeMode, 2},
		{NES2A03, 0x80, "ILL", ImpliedMode, 2},

		{NMOS6502, 0x6c, "JMP", IndirectMode, 5},
		{CMOS65C02, 0x6c, "JMP", IndirectMode, 6},
		{CMOS65C02, 0x7c, "JMP", AbsoluteIndexedIndirectMode, 6},
		{CMOS65C02, 0x63, "ILL", ImpliedMode, 2},
		{CMOS65SC02, 0x63, "BSR", RelativeLongMode, 5},
		{NMOS6510, 0x63, "RRA", IndexedIndirectMode, 8},

		{CMOS65C02, 0x07, "RMB0", ZeroPageMode, 5},
		{CMOS65C02, 0xf7, "SMB7", ZeroPageMode, 5},
		{CMOS65SC02, 0x3f, "BBR3", ZeroPageRelativeMode, 5},
		{CMOS65SC02, 0xcf, "BBS4", ZeroPageRelativeMode, 5},
		{CMOS65C02, 0xb2, "LDA", ZeroPageIndirectMode, 5},
		{NMOS6510, 0xb2, "KIL", ImpliedMode, 2},
		{NMOS6510, 0xa7, "LAX", ZeroPageMode, 3},
		{NMOS6510, 0xfc, "TOP", AbsoluteXMode, 4},
		{NMOS6510, 0xeb, "SBC", ImmediateMode, 2},
		{NES2A03, 0x69, "ADC", ImmediateMode, 2},
		{NES2A03, 0xa7, "ILL", ImpliedMode, 2},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String()+"_"+tt.mnemonic, func(t *testing.T) {
			got := tt.variant.Opcode(tt.code)
			assert.Equal(t, tt.mnemonic, got.Mnemonic)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.cycles, got.Cycles)
		})
	}
}

func TestUndocumentedOpcodeCount(t *testing.T) {
	changed := 0
	for code := range 256 {
		if NMOS6502.Opcode(uint8(code)) != NMOS6510.Opcode(uint8(code)) {
			changed++
		}
	}
	assert.Equal(t, 105, changed)
}
