package bus

import (
	"fmt"
	"sort"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/arch/system/nes/register"
	"github.com/retroenv/retrogolib/set"
)

// ioRegister contains the names of a memory mapped register per access mode.
type ioRegister struct {
	Address uint16
	Read    string
	Write   string
}

// ioRegisters tracks the named I/O registers of a system and which of them
// were accessed.
type ioRegisters struct {
	registers map[uint16]ioRegister
	used      set.Set[uint16]
}

// newNESRegisters builds the map of all known NES I/O registers.
func newNESRegisters() (*ioRegisters, error) {
	m := map[uint16]ioRegister{}
	if err := mergeRegisterMaps(m, register.APUAddressToName); err != nil {
		return nil, fmt.Errorf("processing apu registers: %w", err)
	}
	if err := mergeRegisterMaps(m, register.ControllerAddressToName); err != nil {
		return nil, fmt.Errorf("processing controller registers: %w", err)
	}
	if err := mergeRegisterMaps(m, register.PPUAddressToName); err != nil {
		return nil, fmt.Errorf("processing ppu registers: %w", err)
	}
	return &ioRegisters{
		registers: m,
		used:      set.New[uint16](),
	}, nil
}

func mergeRegisterMaps(destination map[uint16]ioRegister, source map[uint16]cpu6502.AccessModeConstant) error {
	for address, info := range source {
		reg := destination[address]
		reg.Address = address

		if info.Mode&cpu6502.ReadAccess != 0 {
			if reg.Read != "" {
				return fmt.Errorf("register with address 0x%04X and read mode is defined twice", address)
			}
			reg.Read = info.Constant
		}

		if info.Mode&cpu6502.WriteAccess != 0 {
			if reg.Write != "" {
				return fmt.Errorf("register with address 0x%04X and write mode is defined twice", address)
			}
			reg.Write = info.Constant
		}

		destination[address] = reg
	}
	return nil
}

// name returns the register name for an access and marks the register as used.
func (r *ioRegisters) name(address uint16, write bool) (string, bool) {
	reg, ok := r.registers[address]
	if !ok {
		return "", false
	}
	name := reg.Read
	if write {
		name = reg.Write
	}
	if name == "" {
		return "", false
	}
	r.used.Add(address)
	return name, true
}

// usedNames returns the names of all accessed registers sorted by address.
func (r *ioRegisters) usedNames() []string {
	addresses := make([]uint16, 0, len(r.used))
	for address := range r.used {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i] < addresses[j]
	})

	names := make([]string, 0, len(addresses))
	for _, address := range addresses {
		reg := r.registers[address]
		switch {
		case reg.Read != "" && reg.Write != "" && reg.Read != reg.Write:
			names = append(names, reg.Read+"/"+reg.Write)
		case reg.Write != "":
			names = append(names, reg.Write)
		default:
			names = append(names, reg.Read)
		}
	}
	return names
}
