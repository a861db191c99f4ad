package mos6502

// opcodeEntry binds an instruction to an addressing mode and a cycle cost.
type opcodeEntry struct {
	ins    *instruction
	mode   AddressingMode
	cycles uint8
}

type opcodeTable [256]opcodeEntry

// descriptor declares a single opcode of a variant.
type descriptor struct {
	code   uint8
	ins    *instruction
	mode   AddressingMode
	cycles uint8
}

// buildTable creates an opcode table where every opcode that the given
// lists do not declare is an illegal one byte opcode. Later lists override
// earlier ones.
func buildTable(lists ...[]descriptor) opcodeTable {
	var table opcodeTable
	for i := range table {
		table[i] = opcodeEntry{ins: insILL, mode: ImpliedMode, cycles: 2}
	}
	for _, list := range lists {
		for _, d := range list {
			table[d.code] = opcodeEntry{ins: d.ins, mode: d.mode, cycles: d.cycles}
		}
	}
	return table
}

var (
	nmosTable       = buildTable(nmosOpcodes)
	cmosTable       = buildTable(nmosOpcodes, cmosOpcodes)
	cmos65SC02Table = buildTable(nmosOpcodes, cmosOpcodes, cmos65SC02Opcodes)
	nmos6510Table   = buildTable(nmosOpcodes, undocumentedOpcodes)
	nes2A03Table    = buildTable(nmosOpcodes, binaryArithmeticOpcodes)
)

// nmosOpcodes lists the documented opcodes of the NMOS 6502.
var nmosOpcodes = []descriptor{
	{0x00, insBRK, ImpliedMode, 7},
	{0x01, insORA, IndexedIndirectMode, 6},
	{0x05, insORA, ZeroPageMode, 3},
	{0x06, insASL, ZeroPageMode, 5},
	{0x08, insPHP, ImpliedMode, 3},
	{0x09, insORA, ImmediateMode, 2},
	{0x0a, insASL, AccumulatorMode, 2},
	{0x0d, insORA, AbsoluteMode, 4},
	{0x0e, insASL, AbsoluteMode, 6},

	{0x10, insBPL, RelativeMode, 2},
	{0x11, insORA, IndirectIndexedMode, 5},
	{0x15, insORA, ZeroPageXMode, 4},
	{0x16, insASL, ZeroPageXMode, 6},
	{0x18, insCLC, ImpliedMode, 2},
	{0x19, insORA, AbsoluteYMode, 4},
	{0x1d, insORA, AbsoluteXMode, 4},
	{0x1e, insASL, AbsoluteXMode, 7},

	{0x20, insJSR, AbsoluteMode, 6},
	{0x21, insAND, IndexedIndirectMode, 6},
	{0x24, insBIT, ZeroPageMode, 3},
	{0x25, insAND, ZeroPageMode, 3},
	{0x26, insROL, ZeroPageMode, 5},
	{0x28, insPLP, ImpliedMode, 4},
	{0x29, insAND, ImmediateMode, 2},
	{0x2a, insROL, AccumulatorMode, 2},
	{0x2c, insBIT, AbsoluteMode, 4},
	{0x2d, insAND, AbsoluteMode, 4},
	{0x2e, insROL, AbsoluteMode, 6},

	{0x30, insBMI, RelativeMode, 2},
	{0x31, insAND, IndirectIndexedMode, 5},
	{0x35, insAND, ZeroPageXMode, 4},
	{0x36, insROL, ZeroPageXMode, 6},
	{0x38, insSEC, ImpliedMode, 2},
	{0x39, insAND, AbsoluteYMode, 4},
	{0x3d, insAND, AbsoluteXMode, 4},
	{0x3e, insROL, AbsoluteXMode, 7},

	{0x40, insRTI, ImpliedMode, 6},
	{0x41, insEOR, IndexedIndirectMode, 6},
	{0x45, insEOR, ZeroPageMode, 3},
	{0x46, insLSR, ZeroPageMode, 5},
	{0x48, insPHA, ImpliedMode, 3},
	{0x49, insEOR, ImmediateMode, 2},
	{0x4a, insLSR, AccumulatorMode, 2},
	{0x4c, insJMP, AbsoluteMode, 3},
	{0x4d, insEOR, AbsoluteMode, 4},
	{0x4e, insLSR, AbsoluteMode, 6},

	{0x50, insBVC, RelativeMode, 2},
	{0x51, insEOR, IndirectIndexedMode, 5},
	{0x55, insEOR, ZeroPageXMode, 4},
	{0x56, insLSR, ZeroPageXMode, 6},
	{0x58, insCLI, ImpliedMode, 2},
	{0x59, insEOR, AbsoluteYMode, 4},
	{0x5d, insEOR, AbsoluteXMode, 4},
	{0x5e, insLSR, AbsoluteXMode, 7},

	{0x60, insRTS, ImpliedMode, 6},
	{0x61, insADC, IndexedIndirectMode, 6},
	{0x65, insADC, ZeroPageMode, 3},
	{0x66, insROR, ZeroPageMode, 5},
	{0x68, insPLA, ImpliedMode, 4},
	{0x69, insADC, ImmediateMode, 2},
	{0x6a, insROR, AccumulatorMode, 2},
	{0x6c, insJMP, IndirectMode, 5},
	{0x6d, insADC, AbsoluteMode, 4},
	{0x6e, insROR, AbsoluteMode, 6},

	{0x70, insBVS, RelativeMode, 2},
	{0x71, insADC, IndirectIndexedMode, 5},
	{0x75, insADC, ZeroPageXMode, 4},
	{0x76, insROR, ZeroPageXMode, 6},
	{0x78, insSEI, ImpliedMode, 2},
	{0x79, insADC, AbsoluteYMode, 4},
	{0x7d, insADC, AbsoluteXMode, 4},
	{0x7e, insROR, AbsoluteXMode, 7},

	{0x81, insSTA, IndexedIndirectMode, 6},
	{0x84, insSTY, ZeroPageMode, 3},
	{0x85, insSTA, ZeroPageMode, 3},
	{0x86, insSTX, ZeroPageMode, 3},
	{0x88, insDEY, ImpliedMode, 2},
	{0x8a, insTXA, ImpliedMode, 2},
	{0x8c, insSTY, AbsoluteMode, 4},
	{0x8d, insSTA, AbsoluteMode, 4},
	{0x8e, insSTX, AbsoluteMode, 4},

	{0x90, insBCC, RelativeMode, 2},
	{0x91, insSTA, IndirectIndexedMode, 6},
	{0x94, insSTY, ZeroPageXMode, 4},
	{0x95, insSTA, ZeroPageXMode, 4},
	{0x96, insSTX, ZeroPageYMode, 4},
	{0x98, insTYA, ImpliedMode, 2},
	{0x99, insSTA, AbsoluteYMode, 5},
	{0x9a, insTXS, ImpliedMode, 2},
	{0x9d, insSTA, AbsoluteXMode, 5},

	{0xa0, insLDY, ImmediateMode, 2},
	{0xa1, insLDA, IndexedIndirectMode, 6},
	{0xa2, insLDX, ImmediateMode, 2},
	{0xa4, insLDY, ZeroPageMode, 3},
	{0xa5, insLDA, ZeroPageMode, 3},
	{0xa6, insLDX, ZeroPageMode, 3},
	{0xa8, insTAY, ImpliedMode, 2},
	{0xa9, insLDA, ImmediateMode, 2},
	{0xaa, insTAX, ImpliedMode, 2},
	{0xac, insLDY, AbsoluteMode, 4},
	{0xad, insLDA, AbsoluteMode, 4},
	{0xae, insLDX, AbsoluteMode, 4},

	{0xb0, insBCS, RelativeMode, 2},
	{0xb1, insLDA, IndirectIndexedMode, 5},
	{0xb4, insLDY, ZeroPageXMode, 4},
	{0xb5, insLDA, ZeroPageXMode, 4},
	{0xb6, insLDX, ZeroPageYMode, 4},
	{0xb8, insCLV, ImpliedMode, 2},
	{0xb9, insLDA, AbsoluteYMode, 4},
	{0xba, insTSX, ImpliedMode, 2},
	{0xbc, insLDY, AbsoluteXMode, 4},
	{0xbd, insLDA, AbsoluteXMode, 4},
	{0xbe, insLDX, AbsoluteYMode, 4},

	{0xc0, insCPY, ImmediateMode, 2},
	{0xc1, insCMP, IndexedIndirectMode, 6},
	{0xc4, insCPY, ZeroPageMode, 3},
	{0xc5, insCMP, ZeroPageMode, 3},
	{0xc6, insDEC, ZeroPageMode, 5},
	{0xc8, insINY, ImpliedMode, 2},
	{0xc9, insCMP, ImmediateMode, 2},
	{0xca, insDEX, ImpliedMode, 2},
	{0xcc, insCPY, AbsoluteMode, 4},
	{0xcd, insCMP, AbsoluteMode, 4},
	{0xce, insDEC, AbsoluteMode, 6},

	{0xd0, insBNE, RelativeMode, 2},
	{0xd1, insCMP, IndirectIndexedMode, 5},
	{0xd5, insCMP, ZeroPageXMode, 4},
	{0xd6, insDEC, ZeroPageXMode, 6},
	{0xd8, insCLD, ImpliedMode, 2},
	{0xd9, insCMP, AbsoluteYMode, 4},
	{0xdd, insCMP, AbsoluteXMode, 4},
	{0xde, insDEC, AbsoluteXMode, 7},

	{0xe0, insCPX, ImmediateMode, 2},
	{0xe1, insSBC, IndexedIndirectMode, 6},
	{0xe4, insCPX, ZeroPageMode, 3},
	{0xe5, insSBC, ZeroPageMode, 3},
	{0xe6, insINC, ZeroPageMode, 5},
	{0xe8, insINX, ImpliedMode, 2},
	{0xe9, insSBC, ImmediateMode, 2},
	{0xea, insNOP, ImpliedMode, 2},
	{0xec, insCPX, AbsoluteMode, 4},
	{0xed, insSBC, AbsoluteMode, 4},
	{0xee, insINC, AbsoluteMode, 6},

	{0xf0, insBEQ, RelativeMode, 2},
	{0xf1, insSBC, IndirectIndexedMode, 5},
	{0xf5, insSBC, ZeroPageXMode, 4},
	{0xf6, insINC, ZeroPageXMode, 6},
	{0xf8, insSED, ImpliedMode, 2},
	{0xf9, insSBC, AbsoluteYMode, 4},
	{0xfd, insSBC, AbsoluteXMode, 4},
	{0xfe, insINC, AbsoluteXMode, 7},
}

// arithmeticOpcodes returns the ADC and SBC opcodes of all NMOS addressing
// modes bound to the given instructions.
func arithmeticOpcodes(adc, sbc *instruction) []descriptor {
	var list []descriptor
	for _, d := range nmosOpcodes {
		switch d.ins {
		case insADC:
			list = append(list, descriptor{d.code, adc, d.mode, d.cycles})
		case insSBC:
			list = append(list, descriptor{d.code, sbc, d.mode, d.cycles})
		}
	}
	return list
}

// binaryArithmeticOpcodes replaces ADC and SBC for the 2A03 that has the
// decimal mode circuit disabled.
var binaryArithmeticOpcodes = arithmeticOpcodes(insADCBinary, insSBCBinary)

// cmosOpcodes lists the changes of the 65C02 to the NMOS opcode table.
var cmosOpcodes = append(append(arithmeticOpcodes(insADCCMOS, insSBCCMOS), bitOpcodes()...), []descriptor{
	{0x00, insBRKCMOS, ImpliedMode, 7},
	{0x04, insTSB, ZeroPageMode, 5},
	{0x0c, insTSB, AbsoluteMode, 6},
	{0x12, insORA, ZeroPageIndirectMode, 5},
	{0x14, insTRB, ZeroPageMode, 5},
	{0x1a, insINA, AccumulatorMode, 2},
	{0x1c, insTRB, AbsoluteMode, 6},
	{0x32, insAND, ZeroPageIndirectMode, 5},
	{0x34, insBIT, ZeroPageXMode, 4},
	{0x3a, insDEA, AccumulatorMode, 2},
	{0x3c, insBIT, AbsoluteXMode, 4},
	{0x52, insEOR, ZeroPageIndirectMode, 5},
	{0x5a, insPHY, ImpliedMode, 3},
	{0x64, insSTZ, ZeroPageMode, 3},
	{0x6c, insJMP, IndirectMode, 6},
	{0x72, insADCCMOS, ZeroPageIndirectMode, 5},
	{0x74, insSTZ, ZeroPageXMode, 4},
	{0x7a, insPLY, ImpliedMode, 4},
	{0x7c, insJMP, AbsoluteIndexedIndirectMode, 6},
	{0x80, insBRA, RelativeMode, 2},
	{0x89, insBITImmediate, ImmediateMode, 2},
	{0x92, insSTA, ZeroPageIndirectMode, 5},
	{0x9c, insSTZ, AbsoluteMode, 4},
	{0x9e, insSTZ, AbsoluteXMode, 5},
	{0xb2, insLDA, ZeroPageIndirectMode, 5},
	{0xd2, insCMP, ZeroPageIndirectMode, 5},
	{0xda, insPHX, ImpliedMode, 3},
	{0xf2, insSBCCMOS, ZeroPageIndirectMode, 5},
	{0xfa, insPLX, ImpliedMode, 4},
}...)

// bitOpcodes returns the Rockwell bit manipulation opcodes, bit n of a
// group is encoded in the high nibble.
func bitOpcodes() []descriptor {
	list := make([]descriptor, 0, 32)
	for bit := range 8 {
		row := uint8(bit) << 4
		list = append(list,
			descriptor{0x07 | row, insRMB[bit], ZeroPageMode, 5},
			descriptor{0x87 | row, insSMB[bit], ZeroPageMode, 5},
			descriptor{0x0f | row, insBBR[bit], ZeroPageRelativeMode, 5},
			descriptor{0x8f | row, insBBS[bit], ZeroPageRelativeMode, 5},
		)
	}
	return list
}

// cmos65SC02Opcodes lists the additions of the 65SC02 to the 65C02 table.
var cmos65SC02Opcodes = []descriptor{
	{0x63, insBSR, RelativeLongMode, 5},
}

// undocumentedOpcodes lists the undocumented NMOS opcodes that the 6510
// table decodes.
var undocumentedOpcodes = []descriptor{
	{0x02, insKIL, ImpliedMode, 2},
	{0x12, insKIL, ImpliedMode, 2},
	{0x22, insKIL, ImpliedMode, 2},
	{0x32, insKIL, ImpliedMode, 2},
	{0x42, insKIL, ImpliedMode, 2},
	{0x52, insKIL, ImpliedMode, 2},
	{0x62, insKIL, ImpliedMode, 2},
	{0x72, insKIL, ImpliedMode, 2},
	{0x92, insKIL, ImpliedMode, 2},
	{0xb2, insKIL, ImpliedMode, 2},
	{0xd2, insKIL, ImpliedMode, 2},
	{0xf2, insKIL, ImpliedMode, 2},

	{0x03, insSLO, IndexedIndirectMode, 8},
	{0x07, insSLO, ZeroPageMode, 5},
	{0x0f, insSLO, AbsoluteMode, 6},
	{0x13, insSLO, IndirectIndexedMode, 8},
	{0x17, insSLO, ZeroPageXMode, 6},
	{0x1b, insSLO, AbsoluteYMode, 7},
	{0x1f, insSLO, AbsoluteXMode, 7},

	{0x23, insRLA, IndexedIndirectMode, 8},
	{0x27, insRLA, ZeroPageMode, 5},
	{0x2f, insRLA, AbsoluteMode, 6},
	{0x33, insRLA, IndirectIndexedMode, 8},
	{0x37, insRLA, ZeroPageXMode, 6},
	{0x3b, insRLA, AbsoluteYMode, 7},
	{0x3f, insRLA, AbsoluteXMode, 7},

	{0x43, insSRE, IndexedIndirectMode, 8},
	{0x47, insSRE, ZeroPageMode, 5},
	{0x4f, insSRE, AbsoluteMode, 6},
	{0x53, insSRE, IndirectIndexedMode, 8},
	{0x57, insSRE, ZeroPageXMode, 6},
	{0x5b, insSRE, AbsoluteYMode, 7},
	{0x5f, insSRE, AbsoluteXMode, 7},

	{0x63, insRRA, IndexedIndirectMode, 8},
	{0x67, insRRA, ZeroPageMode, 5},
	{0x6f, insRRA, AbsoluteMode, 6},
	{0x73, insRRA, IndirectIndexedMode, 8},
	{0x77, insRRA, ZeroPageXMode, 6},
	{0x7b, insRRA, AbsoluteYMode, 7},
	{0x7f, insRRA, AbsoluteXMode, 7},

	{0x83, insSAX, IndexedIndirectMode, 6},
	{0x87, insSAX, ZeroPageMode, 3},
	{0x8f, insSAX, AbsoluteMode, 4},
	{0x97, insSAX, ZeroPageYMode, 4},

	{0xa3, insLAX, IndexedIndirectMode, 6},
	{0xa7, insLAX, ZeroPageMode, 3},
	{0xaf, insLAX, AbsoluteMode, 4},
	{0xb3, insLAX, IndirectIndexedMode, 5},
	{0xb7, insLAX, ZeroPageYMode, 4},
	{0xbf, insLAX, AbsoluteYMode, 4},

	{0xc3, insDCP, IndexedIndirectMode, 8},
	{0xc7, insDCP, ZeroPageMode, 5},
	{0xcf, insDCP, AbsoluteMode, 6},
	{0xd3, insDCP, IndirectIndexedMode, 8},
	{0xd7, insDCP, ZeroPageXMode, 6},
	{0xdb, insDCP, AbsoluteYMode, 7},
	{0xdf, insDCP, AbsoluteXMode, 7},

	{0xe3, insISB, IndexedIndirectMode, 8},
	{0xe7, insISB, ZeroPageMode, 5},
	{0xef, insISB, AbsoluteMode, 6},
	{0xf3, insISB, IndirectIndexedMode, 8},
	{0xf7, insISB, ZeroPageXMode, 6},
	{0xfb, insISB, AbsoluteYMode, 7},
	{0xff, insISB, AbsoluteXMode, 7},

	{0x0b, insANC, ImmediateMode, 2},
	{0x2b, insANC, ImmediateMode, 2},
	{0x4b, insASR, ImmediateMode, 2},
	{0x6b, insARR, ImmediateMode, 2},
	{0x8b, insAXA, ImmediateMode, 2},
	{0xab, insOAL, ImmediateMode, 2},
	{0xcb, insASX, ImmediateMode, 2},
	{0xeb, insSBC, ImmediateMode, 2},

	{0x93, insSAH, IndirectIndexedMode, 6},
	{0x9b, insSSH, AbsoluteYMode, 5},
	{0x9c, insSYH, AbsoluteXMode, 5},
	{0x9e, insSXH, AbsoluteYMode, 5},
	{0x9f, insSAH, AbsoluteYMode, 5},
	{0xbb, insAST, AbsoluteYMode, 4},

	{0x04, insDOP, ZeroPageMode, 3},
	{0x44, insDOP, ZeroPageMode, 3},
	{0x64, insDOP, ZeroPageMode, 3},
	{0x14, insDOP, ZeroPageXMode, 4},
	{0x34, insDOP, ZeroPageXMode, 4},
	{0x54, insDOP, ZeroPageXMode, 4},
	{0x74, insDOP, ZeroPageXMode, 4},
	{0xd4, insDOP, ZeroPageXMode, 4},
	{0xf4, insDOP, ZeroPageXMode, 4},
	{0x80, insDOP, ImmediateMode, 2},
	{0x82, insDOP, ImmediateMode, 2},
	{0x89, insDOP, ImmediateMode, 2},
	{0xc2, insDOP, ImmediateMode, 2},
	{0xe2, insDOP, ImmediateMode, 2},

	{0x0c, insTOP, AbsoluteMode, 4},
	{0x1c, insTOP, AbsoluteXMode, 4},
	{0x3c, insTOP, AbsoluteXMode, 4},
	{0x5c, insTOP, AbsoluteXMode, 4},
	{0x7c, insTOP, AbsoluteXMode, 4},
	{0xdc, insTOP, AbsoluteXMode, 4},
	{0xfc, insTOP, AbsoluteXMode, 4},

	{0x1a, insNOP, ImpliedMode, 2},
	{0x3a, insNOP, ImpliedMode, 2},
	{0x5a, insNOP, ImpliedMode, 2},
	{0x7a, insNOP, ImpliedMode, 2},
	{0xda, insNOP, ImpliedMode, 2},
	{0xfa, insNOP, ImpliedMode, 2},
}
