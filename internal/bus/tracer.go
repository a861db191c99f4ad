package bus

import (
	"fmt"
	"io"

	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/arch/system/nes/codedatalog"
	"github.com/retroenv/retrogolib/set"
)

// Opcodes of subroutine calls, their targets are marked as entry points.
const (
	opcodeJSR = 0x20
	opcodeBSR = 0x63
)

// Tracer wraps a system and records executed program bytes as a Code/Data log.
// Opcode and operand fetches mark bytes as code, subroutine call targets are
// marked as sub entry points.
type Tracer struct {
	System

	flags       []codedatalog.PrgFlag
	entryPoints set.Set[uint16]
	callPending bool
	variant     mos6502.Variant
}

var (
	_ System                = (*Tracer)(nil)
	_ mos6502.OperandReader = (*Tracer)(nil)
)

// NewTracer returns a tracer for a system with a program image of prgSize bytes.
func NewTracer(system System, prgSize int, variant mos6502.Variant) *Tracer {
	return &Tracer{
		System:      system,
		flags:       make([]codedatalog.PrgFlag, prgSize),
		entryPoints: set.New[uint16](),
		variant:     variant,
	}
}

// SetVariant sets the CPU variant that decides which opcodes are calls.
func (t *Tracer) SetVariant(variant mos6502.Variant) {
	t.variant = variant
}

// ReadOpcode marks the opcode byte as code.
func (t *Tracer) ReadOpcode(address uint16) uint8 {
	value := t.System.ReadOpcode(address)
	t.mark(address, codedatalog.Code)
	t.callPending = value == opcodeJSR ||
		(value == opcodeBSR && t.variant == mos6502.CMOS65SC02)
	return value
}

// ReadOperand marks the operand byte as code.
func (t *Tracer) ReadOperand(address uint16) uint8 {
	var value uint8
	if reader, ok := t.System.(mos6502.OperandReader); ok {
		value = reader.ReadOperand(address)
	} else {
		value = t.System.Read(address)
	}
	t.mark(address, codedatalog.Code)
	return value
}

// PCChanged marks the target of a subroutine call as entry point.
func (t *Tracer) PCChanged(pc uint16) {
	if t.callPending {
		t.callPending = false
		t.entryPoints.Add(pc)
		t.mark(pc, codedatalog.SubEntryPoint)
	}
	t.System.PCChanged(pc)
}

func (t *Tracer) mark(address uint16, flag codedatalog.PrgFlag) {
	offset, ok := t.System.PRGOffset(address)
	if !ok || offset >= len(t.flags) {
		return
	}
	t.flags[offset] |= flag
}

// Merge adds the flags of a previously recorded log.
func (t *Tracer) Merge(flags []codedatalog.PrgFlag) {
	for i, flag := range flags {
		if i >= len(t.flags) {
			break
		}
		t.flags[i] |= flag
	}
}

// EntryPoints returns the number of distinct subroutine entry points called.
func (t *Tracer) EntryPoints() int {
	return len(t.entryPoints)
}

// CodeBytes returns the number of program bytes marked as code.
func (t *Tracer) CodeBytes() int {
	count := 0
	for _, flag := range t.flags {
		if flag&codedatalog.Code != 0 {
			count++
		}
	}
	return count
}

// Save writes the log in the FCEUX Code/Data log format, the PRG flags
// followed by chrSize empty CHR flags.
func (t *Tracer) Save(w io.Writer, chrSize int) error {
	data := make([]byte, len(t.flags)+chrSize)
	for i, flag := range t.flags {
		data[i] = byte(flag)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing code/data log: %w", err)
	}
	return nil
}
