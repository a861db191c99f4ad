package mos6502

import "fmt"

// StateSink receives the named fields of a saved CPU state.
type StateSink interface {
	SaveUint8(name string, value uint8)
	SaveUint16(name string, value uint16)
}

// StateSource provides the named fields of a CPU state to load.
type StateSource interface {
	LoadUint8(name string) (uint8, error)
	LoadUint16(name string) (uint16, error)
}

// Names of the saved state fields in save order.
const (
	StateVariant  = "TYPE"
	StatePC       = "PC"
	StateSP       = "SP"
	StateP        = "P"
	StateA        = "A"
	StateX        = "X"
	StateY        = "Y"
	StatePending  = "PENDING"
	StateAfterCLI = "AFTER_CLI"
	StateNMI      = "NMI_STATE"
	StateIRQ      = "IRQ_STATE"
	StateSO       = "SO_STATE"
)

// SaveState writes all fields that define the CPU state to the sink.
func (c *CPU) SaveState(sink StateSink) {
	sink.SaveUint8(StateVariant, uint8(c.variant))
	sink.SaveUint16(StatePC, c.reg.PC)
	sink.SaveUint8(StateSP, c.reg.SP)
	sink.SaveUint8(StateP, uint8(c.reg.P))
	sink.SaveUint8(StateA, c.reg.A)
	sink.SaveUint8(StateX, c.reg.X)
	sink.SaveUint8(StateY, c.reg.Y)
	sink.SaveUint8(StatePending, uint8(boolValue(c.irqState == irqPending)))
	sink.SaveUint8(StateAfterCLI, uint8(boolValue(c.irqState == irqArmedAfterCLI)))
	sink.SaveUint8(StateNMI, uint8(boolValue(c.nmiLine)))
	sink.SaveUint8(StateIRQ, uint8(boolValue(c.irqLine)))
	sink.SaveUint8(StateSO, uint8(boolValue(c.overflowSet)))
}

// LoadState restores a state written by SaveState. The opcode table is
// selected by the saved variant. The CPU is not modified if any field is
// missing or the variant is unknown.
func (c *CPU) LoadState(source StateSource) error {
	var fields8 [11]uint8
	names8 := [...]string{StateVariant, StateSP, StateP, StateA, StateX, StateY,
		StatePending, StateAfterCLI, StateNMI, StateIRQ, StateSO}
	for i, name := range names8 {
		value, err := source.LoadUint8(name)
		if err != nil {
			return fmt.Errorf("loading state field %s: %w", name, err)
		}
		fields8[i] = value
	}
	pc, err := source.LoadUint16(StatePC)
	if err != nil {
		return fmt.Errorf("loading state field %s: %w", StatePC, err)
	}

	variant := Variant(fields8[0])
	if !variant.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVariant, variant)
	}

	c.setVariant(variant)
	c.reg.PC = pc
	c.reg.SP = fields8[1]
	c.reg.setStatus(Flags(fields8[2]))
	c.reg.A = fields8[3]
	c.reg.X = fields8[4]
	c.reg.Y = fields8[5]

	switch {
	case fields8[6] != 0:
		c.irqState = irqPending
	case fields8[7] != 0:
		c.irqState = irqArmedAfterCLI
	default:
		c.irqState = irqIdle
	}
	c.nmiLine = fields8[8] != 0
	c.irqLine = fields8[9] != 0
	c.overflowSet = fields8[10] != 0
	c.halted = false

	c.bus.PCChanged(c.reg.PC)
	return nil
}
