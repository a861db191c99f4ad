package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_RunOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Run
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.bin"},
			want: options.Run{
				Variant:     mos6502.NMOS6502,
				Cycles:      options.DefaultCycles,
				FrameCycles: options.DefaultFrameCycles,
			},
		},
		{
			name: "input flag",
			args: []string{"prog", "-i", "test.bin"},
			want: options.Run{
				Variant:     mos6502.NMOS6502,
				Cycles:      options.DefaultCycles,
				FrameCycles: options.DefaultFrameCycles,
			},
		},
		{
			name: "cpu flag",
			args: []string{"prog", "-cpu", "R65C02", "test.bin"},
			want: options.Run{
				Variant:     mos6502.CMOS65C02,
				Cycles:      options.DefaultCycles,
				FrameCycles: options.DefaultFrameCycles,
			},
		},
		{
			name: "addresses in hex notations",
			args: []string{"prog", "-load", "$8000", "-start", "0x8010", "test.bin"},
			want: options.Run{
				Variant:         mos6502.NMOS6502,
				LoadAddress:     0x8000,
				StartAddress:    0x8010,
				HasStartAddress: true,
				Cycles:          options.DefaultCycles,
				FrameCycles:     options.DefaultFrameCycles,
			},
		},
		{
			name: "cycle budget and nmi",
			args: []string{"prog", "-cycles", "500", "-frame", "100", "-nmi", "test.bin"},
			want: options.Run{
				Variant:     mos6502.NMOS6502,
				Cycles:      500,
				FrameCycles: 100,
				NMI:         true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			opts, got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, "test.bin", opts.Input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{
			name:  "missing input file",
			args:  []string{"prog"},
			usage: true,
		},
		{
			name:  "flag after input file",
			args:  []string{"prog", "test.bin", "-q"},
			usage: true,
		},
		{
			name: "unknown cpu",
			args: []string{"prog", "-cpu", "z80", "test.bin"},
		},
		{
			name: "invalid load address",
			args: []string{"prog", "-load", "0x10000", "test.bin"},
		},
		{
			name: "invalid frame size",
			args: []string{"prog", "-frame", "0", "test.bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseArgs(tt.args)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}

func TestParseArgs_UnknownCPUWrapsVariantError(t *testing.T) {
	_, _, err := parseArgs([]string{"prog", "-cpu", "z80", "test.bin"})
	assert.True(t, errors.Is(err, mos6502.ErrInvalidVariant))
}

func TestParseArgs_StateInWithoutInput(t *testing.T) {
	opts, _, err := parseArgs([]string{"prog", "-state-in", "saved.r65s"})
	assert.NoError(t, err)
	assert.Equal(t, "", opts.Input)
	assert.Equal(t, "saved.r65s", opts.StateIn)
}

func TestParseArgs_InputFlag(t *testing.T) {
	opts, run, err := parseArgs([]string{"prog", "-i", "prog.bin", "-cpu", "6510"})
	assert.NoError(t, err)
	assert.Equal(t, "prog.bin", opts.Input)
	assert.Equal(t, mos6502.NMOS6510, run.Variant)

	// a positional program file takes precedence
	opts, _, err = parseArgs([]string{"prog", "-i", "prog.bin", "other.bin"})
	assert.NoError(t, err)
	assert.Equal(t, "other.bin", opts.Input)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input string
		want  uint16
	}{
		{"0", 0},
		{"4096", 0x1000},
		{"0xC000", 0xc000},
		{"$fffc", 0xfffc},
		{" 0x0200 ", 0x0200},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAddress(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseAddress("zz")
	assert.Error(t, err)
}
