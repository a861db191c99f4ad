// Package detector handles system and CPU variant detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Raw is the system of a flat 64K memory image without any mapped I/O.
const Raw arch.System = "raw"

// Detector handles system detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system from options or file auto-detection.
// An explicit system option wins, binary mode forces a raw memory image,
// otherwise the input filename extension decides.
func (d *Detector) Detect(opts options.Program) arch.System {
	switch opts.System {
	case "":
	case string(Raw):
		return Raw
	default:
		if system, _ := arch.SystemFromString(opts.System); system == arch.NES {
			return arch.NES
		}
		d.logger.Warn("Unsupported system, using raw memory image",
			log.String("system", opts.System))
		return Raw
	}

	if opts.Binary {
		return Raw
	}

	system := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected system",
		log.Stringer("system", system),
		log.String("file", opts.Input))
	return system
}

// Variant determines the CPU variant. An explicit cpu option wins, otherwise
// the system and input filename extension decide.
func (d *Detector) Variant(opts options.Program, run options.Run, system arch.System) mos6502.Variant {
	if opts.CPU != "" {
		return run.Variant
	}

	variant := mos6502.NMOS6502
	switch {
	case system == arch.NES:
		variant = mos6502.NES2A03
	default:
		ext := strings.ToLower(filepath.Ext(opts.Input))
		if ext == ".prg" || ext == ".c64" {
			variant = mos6502.NMOS6510
		}
	}

	d.logger.Debug("Auto-detected CPU variant",
		log.Stringer("cpu", variant),
		log.String("file", opts.Input))
	return variant
}

// detectFromFile determines the system type based on file extension.
func (d *Detector) detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		return Raw
	}
}
