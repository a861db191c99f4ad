package detector

import (
	"testing"

	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		systemOpt  string
		binary     bool
		inputFile  string
		wantSystem arch.System
	}{
		{
			name:       "explicit NES system option",
			systemOpt:  "nes",
			inputFile:  "game.bin",
			wantSystem: arch.NES,
		},
		{
			name:       "explicit raw system option",
			systemOpt:  "raw",
			inputFile:  "game.nes",
			wantSystem: Raw,
		},
		{
			name:       "unsupported system option",
			systemOpt:  "chip8",
			inputFile:  "game.nes",
			wantSystem: Raw,
		},
		{
			name:       "detect from .nes extension",
			inputFile:  "game.nes",
			wantSystem: arch.NES,
		},
		{
			name:       "binary mode overrides .nes extension",
			binary:     true,
			inputFile:  "game.nes",
			wantSystem: Raw,
		},
		{
			name:       "unknown extension defaults to raw",
			inputFile:  "game.bin",
			wantSystem: Raw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{System: tt.systemOpt, Binary: tt.binary},
			}

			got := d.Detect(opts)
			assert.Equal(t, tt.wantSystem, got)
		})
	}
}

func TestVariant(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name        string
		cpuOpt      string
		runVariant  mos6502.Variant
		inputFile   string
		system      arch.System
		wantVariant mos6502.Variant
	}{
		{
			name:        "explicit cpu option",
			cpuOpt:      "65c02",
			runVariant:  mos6502.CMOS65C02,
			inputFile:   "game.nes",
			system:      arch.NES,
			wantVariant: mos6502.CMOS65C02,
		},
		{
			name:        "NES system uses 2A03",
			inputFile:   "game.nes",
			system:      arch.NES,
			wantVariant: mos6502.NES2A03,
		},
		{
			name:        "c64 program uses 6510",
			inputFile:   "DEMO.PRG",
			system:      Raw,
			wantVariant: mos6502.NMOS6510,
		},
		{
			name:        "raw binary uses 6502",
			inputFile:   "test.bin",
			system:      Raw,
			wantVariant: mos6502.NMOS6502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{CPU: tt.cpuOpt},
			}
			run := options.NewRun()
			run.Variant = tt.runVariant

			got := d.Variant(opts, run, tt.system)
			assert.Equal(t, tt.wantVariant, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		filename   string
		wantSystem arch.System
	}{
		{
			name:       ".nes extension",
			filename:   "super_mario.nes",
			wantSystem: arch.NES,
		},
		{
			name:       ".NES extension (uppercase)",
			filename:   "ZELDA.NES",
			wantSystem: arch.NES,
		},
		{
			name:       "no extension",
			filename:   "game",
			wantSystem: Raw,
		},
		{
			name:       ".bin extension",
			filename:   "game.bin",
			wantSystem: Raw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantSystem, got)
		})
	}
}
