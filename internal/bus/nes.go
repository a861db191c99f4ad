package bus

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/log"
)

// NES memory map.
const (
	ramSize        = 0x0800
	ramEnd         = 0x2000
	ppuStart       = 0x2000
	ppuEnd         = 0x4000
	ppuMirrorMask  = 0x2007
	ppuStatus      = 0x2002
	ioEnd          = 0x4020
	prgRAMStart    = 0x6000
	prgRAMSize     = 0x2000
	prgStart       = 0x8000
	prgBankSize    = 0x4000
	vblankFlag     = 0x80
	maxDirectPRG   = 2 * prgBankSize
	openBusDefault = 0x00
)

// NES maps the CPU address space of a NES with a fixed PRG mapping.
// PPU and APU registers are not emulated, accesses to them are logged by
// register name and writes are latched.
type NES struct {
	logger *log.Logger

	ram    [ramSize]uint8
	prgRAM [prgRAMSize]uint8
	io     [ioEnd - ppuStart]uint8
	prg    []byte

	lastBankOffset int // offset of the PRG bank mapped to 0xC000
	vblank         bool

	registers *ioRegisters
}

var _ System = (*NES)(nil)

// NewNES returns a new NES bus for the cartridge.
// PRG of 16K is mirrored, 32K is mapped directly and larger images map the
// first bank to 0x8000 and the last bank to 0xC000.
func NewNES(logger *log.Logger, cart *cartridge.Cartridge) (*NES, error) {
	if len(cart.PRG) == 0 {
		return nil, fmt.Errorf("cartridge has no PRG data")
	}

	registers, err := newNESRegisters()
	if err != nil {
		return nil, fmt.Errorf("creating register map: %w", err)
	}

	n := &NES{
		logger:    logger,
		prg:       cart.PRG,
		registers: registers,
	}

	switch {
	case len(cart.PRG) <= prgBankSize:
		n.lastBankOffset = 0
	case len(cart.PRG) <= maxDirectPRG:
		n.lastBankOffset = prgBankSize
	default:
		n.lastBankOffset = len(cart.PRG) - prgBankSize
		logger.Warn("Bank switching is not supported, mapping first and last PRG bank",
			log.Uint16("mapper", cart.Mapper),
			log.Int("prg_size", len(cart.PRG)))
	}
	return n, nil
}

// SetVBlank sets the vertical blank flag returned by PPUSTATUS reads.
func (n *NES) SetVBlank(vblank bool) {
	n.vblank = vblank
}

// Read returns the byte at the given address.
func (n *NES) Read(address uint16) uint8 {
	switch {
	case address < ramEnd:
		return n.ram[address%ramSize]

	case address < ppuEnd:
		address &= ppuMirrorMask
		n.logAccess(address, false, 0)
		if address == ppuStatus {
			value := n.io[address-ppuStart] &^ vblankFlag
			if n.vblank {
				value |= vblankFlag
				n.vblank = false
			}
			return value
		}
		return n.io[address-ppuStart]

	case address < ioEnd:
		n.logAccess(address, false, 0)
		return openBusDefault

	case address >= prgStart:
		offset, _ := n.PRGOffset(address)
		return n.prg[offset]

	case address >= prgRAMStart:
		return n.prgRAM[address-prgRAMStart]

	default:
		return openBusDefault
	}
}

// Write stores a byte at the given address. Writes to PRG are ignored.
func (n *NES) Write(address uint16, value uint8) {
	switch {
	case address < ramEnd:
		n.ram[address%ramSize] = value

	case address < ppuEnd:
		address &= ppuMirrorMask
		n.logAccess(address, true, value)
		n.io[address-ppuStart] = value

	case address < ioEnd:
		n.logAccess(address, true, value)
		n.io[address-ppuStart] = value

	case address >= prgStart:
		n.logger.Debug("Write to PRG ignored",
			log.Hex("address", address),
			log.Hex("value", value))

	case address >= prgRAMStart:
		n.prgRAM[address-prgRAMStart] = value
	}
}

// ReadOpcode returns the opcode byte at the given address.
func (n *NES) ReadOpcode(address uint16) uint8 {
	return n.Read(address)
}

// PCChanged does nothing as the NES has no opcode fetch side effects.
func (n *NES) PCChanged(uint16) {}

// PRGOffset maps an address in the PRG window to an offset in PRG.
func (n *NES) PRGOffset(address uint16) (int, bool) {
	if address < prgStart {
		return 0, false
	}
	offset := int(address-prgStart) % (2 * prgBankSize)
	if offset >= prgBankSize {
		offset = n.lastBankOffset + offset - prgBankSize
	}
	return offset % len(n.prg), true
}

// UsedRegisters returns the names of all accessed I/O registers.
func (n *NES) UsedRegisters() []string {
	return n.registers.usedNames()
}

// Dump returns the internal RAM followed by the PRG RAM.
func (n *NES) Dump() []byte {
	data := make([]byte, 0, ramSize+prgRAMSize)
	data = append(data, n.ram[:]...)
	data = append(data, n.prgRAM[:]...)
	return data
}

// Restore sets the internal RAM and PRG RAM from a buffer returned by Dump.
func (n *NES) Restore(data []byte) error {
	if len(data) != ramSize+prgRAMSize {
		return fmt.Errorf("invalid memory size %d, expected %d", len(data), ramSize+prgRAMSize)
	}
	copy(n.ram[:], data[:ramSize])
	copy(n.prgRAM[:], data[ramSize:])
	return nil
}

func (n *NES) logAccess(address uint16, write bool, value uint8) {
	name, ok := n.registers.name(address, write)
	if !ok {
		name = "unknown"
	}
	if write {
		n.logger.Debug("I/O write",
			log.String("register", name),
			log.Hex("address", address),
			log.Hex("value", value))
		return
	}
	n.logger.Debug("I/O read",
		log.String("register", name),
		log.Hex("address", address))
}
