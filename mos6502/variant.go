package mos6502

import (
	"errors"
	"fmt"
	"strings"
)

// Variant selects a member of the 6502 family.
type Variant uint8

// Supported variants. The numeric values are stored in snapshots.
const (
	NMOS6502 Variant = iota
	CMOS65C02
	CMOS65SC02
	NMOS6510
	NES2A03

	variantCount
)

// ErrInvalidVariant is returned for unknown variant values or names.
var ErrInvalidVariant = errors.New("invalid cpu variant")

var variantNames = [variantCount]string{
	NMOS6502:   "6502",
	CMOS65C02:  "65c02",
	CMOS65SC02: "65sc02",
	NMOS6510:   "6510",
	NES2A03:    "2a03",
}

func (v Variant) String() string {
	if v >= variantCount {
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
	return variantNames[v]
}

// Valid returns whether the variant is a known family member.
func (v Variant) Valid() bool {
	return v < variantCount
}

// ParseVariant returns the variant for a name like "65c02". Matching is
// case insensitive and accepts an optional "m" or "r" prefix.
func ParseVariant(name string) (Variant, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "m")
	s = strings.TrimPrefix(s, "r")
	for v, n := range variantNames {
		if s == n {
			return Variant(v), nil
		}
	}
	if s == "nes" {
		return NES2A03, nil
	}
	return 0, fmt.Errorf("%w: '%s'", ErrInvalidVariant, name)
}

// Opcode describes a decoded opcode of a variant.
type Opcode struct {
	Mnemonic string
	Mode     AddressingMode
	Cycles   int
}

// Opcode returns the metadata of the opcode table entry for the given
// opcode byte. Unknown variants return the NMOS 6502 entry.
func (v Variant) Opcode(code uint8) Opcode {
	p := profileOf(v)
	e := &p.table[code]
	return Opcode{
		Mnemonic: e.ins.name,
		Mode:     e.mode,
		Cycles:   int(e.cycles),
	}
}

// profile bundles all variant specific behavior of the core.
type profile struct {
	table *opcodeTable

	resetClearsDecimal     bool
	interruptClearsDecimal bool
	indirectPageWrapBug    bool // JMP (abs) fetches the high byte from the same page
	overflowPin            bool // the set overflow input is wired to the V flag
}

var profiles = [variantCount]profile{
	NMOS6502: {
		table:               &nmosTable,
		indirectPageWrapBug: true,
		overflowPin:         true,
	},
	CMOS65C02: {
		table:                  &cmosTable,
		resetClearsDecimal:     true,
		interruptClearsDecimal: true,
		overflowPin:            true,
	},
	CMOS65SC02: {
		table:                  &cmos65SC02Table,
		resetClearsDecimal:     true,
		interruptClearsDecimal: true,
		overflowPin:            true,
	},
	NMOS6510: {
		table:               &nmos6510Table,
		indirectPageWrapBug: true,
		overflowPin:         true,
	},
	NES2A03: {
		table:                  &nes2A03Table,
		interruptClearsDecimal: true,
		indirectPageWrapBug:    true,
	},
}

func profileOf(v Variant) *profile {
	if !v.Valid() {
		return &profiles[NMOS6502]
	}
	return &profiles[v]
}
