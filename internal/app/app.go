// Package app provides the main application helpers for the runner.
package app

import (
	"fmt"

	"github.com/retroenv/retro6502/internal/bus"
	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/log"
)

// Machine is the memory system that a program runs on.
type Machine struct {
	System bus.System
	NES    *bus.NES // set for NES systems only
}

// PrintInfo prints the information about the input file and the cartridge.
func PrintInfo(logger *log.Logger, opts options.Program, run options.Run, cart *cartridge.Cartridge, system arch.System) {
	if opts.Quiet {
		return
	}

	switch system {
	case arch.NES:
		logger.Info("Running NES ROM",
			log.String("file", opts.Input),
			log.Uint16("mapper", cart.Mapper),
			log.Stringer("cpu", run.Variant),
			log.Int("frames", run.Frames()),
		)
		if cart.Mapper != 0 && cart.Mapper != 3 {
			logger.Warn("Mapper registers are not emulated, only the initial PRG banks are mapped")
		}

	default:
		logger.Info("Running binary",
			log.String("file", opts.Input),
			log.Hex("load_address", run.LoadAddress),
			log.Int("size", len(cart.PRG)),
			log.Stringer("cpu", run.Variant),
			log.Int("frames", run.Frames()),
		)
	}
}

// NewMachine creates the memory system for the cartridge. Raw binaries are
// loaded at the load address, if they do not provide a reset vector it is
// pointed to the load address.
func NewMachine(logger *log.Logger, cart *cartridge.Cartridge, system arch.System, run options.Run) (Machine, error) {
	if system == arch.NES {
		nes, err := bus.NewNES(logger, cart)
		if err != nil {
			return Machine{}, fmt.Errorf("creating NES bus: %w", err)
		}
		return Machine{System: nes, NES: nes}, nil
	}

	memory := bus.NewMemory()
	n := memory.Load(run.LoadAddress, cart.PRG)
	if n < len(cart.PRG) {
		logger.Warn("Binary exceeds the address space, truncating",
			log.Int("size", len(cart.PRG)),
			log.Int("loaded", n))
	}
	resetVector := uint16(cpu6502.ResetAddress)
	if memory.Read(resetVector) == 0 && memory.Read(resetVector+1) == 0 {
		memory.SetVector(resetVector, run.LoadAddress)
	}
	return Machine{System: memory}, nil
}
