// Package options contains the program options.
package options

import (
	"github.com/retroenv/retro6502/mos6502"
)

// Default run settings.
const (
	DefaultCycles      = 1_000_000
	DefaultFrameCycles = 29780 // NTSC NES CPU cycles per frame
)

// Parameters contains file path options.
type Parameters struct {
	Input       string `flag:"i" usage:"input program file"`
	StateIn     string `flag:"state-in" usage:"restore CPU state and memory from a snapshot"`
	StateOut    string `flag:"state-out" usage:"save CPU state and memory to a snapshot after the run"`
	CodeDataLog string `flag:"cdl" usage:"Code/Data log file (.cdl) to merge into and write back"`
	Script      string `flag:"script" usage:"Lua script with run hooks"`
	Batch       string `flag:"batch" usage:"batch process files matching pattern (e.g. *.nes)"`
}

// Flags contains behavior options.
type Flags struct {
	CPU    string `flag:"cpu" usage:"CPU variant: 6502, 65c02, 65sc02, 6510, 2a03 (default: auto-detect)"`
	System string `flag:"s" usage:"target system: nes, raw (default: auto-detect)"`
	Binary bool   `flag:"binary" usage:"treat input as raw binary without header"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// RunFlags contains the unparsed execution options.
type RunFlags struct {
	LoadAddress  string `flag:"load" usage:"load address of raw binaries" default:"0x0000"`
	StartAddress string `flag:"start" usage:"override the reset vector start address"`
	Cycles       int    `flag:"cycles" usage:"total cycles to execute" default:"1000000"`
	FrameCycles  int    `flag:"frame" usage:"cycles per frame slice" default:"29780"`
	NMI          bool   `flag:"nmi" usage:"pulse the NMI line at the end of every frame"`
}

// Program options of the runner.
type Program struct {
	Parameters
	Flags
	RunFlags
}

// Run defines the resolved options that control an execution run.
type Run struct {
	Variant mos6502.Variant

	LoadAddress     uint16
	StartAddress    uint16
	HasStartAddress bool // start address overrides the reset vector

	Cycles      int
	FrameCycles int
	NMI         bool
}

// NewRun returns a new run options instance with default options.
func NewRun() Run {
	return Run{
		Variant:     mos6502.NMOS6502,
		Cycles:      DefaultCycles,
		FrameCycles: DefaultFrameCycles,
	}
}

// Frames returns the number of frame slices needed to execute all cycles.
func (r Run) Frames() int {
	if r.FrameCycles <= 0 || r.Cycles <= 0 {
		return 0
	}
	return (r.Cycles + r.FrameCycles - 1) / r.FrameCycles
}
