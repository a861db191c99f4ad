// Package mos6502 implements an instruction level emulation core for the
// MOS 6502 CPU family: the NMOS 6502, the CMOS 65C02 and 65SC02, the 6510
// with its undocumented opcodes and the NES 2A03 without decimal mode.
//
// A CPU is attached to a Bus that provides all memory accesses. The host
// runs the CPU by calling Execute with a cycle budget and controls the
// interrupt inputs between or during execution slices:
//
//	cpu, err := mos6502.New(logger, bus, mos6502.NMOS6502)
//	if err != nil {
//		return err
//	}
//	for {
//		cpu.Execute(29780)
//		cpu.SetNMILine(mos6502.AssertLine)
//		cpu.SetNMILine(mos6502.ClearLine)
//	}
//
// Timing is modelled at instruction granularity: every opcode costs a fixed
// number of cycles, taken branches add one cycle and one more when crossing
// a page.
package mos6502
