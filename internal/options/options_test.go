package options

import (
	"testing"

	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/assert"
)

func TestNewRun(t *testing.T) {
	run := NewRun()
	assert.Equal(t, mos6502.NMOS6502, run.Variant)
	assert.Equal(t, DefaultCycles, run.Cycles)
	assert.Equal(t, DefaultFrameCycles, run.FrameCycles)
	assert.False(t, run.HasStartAddress)
}

func TestRunFrames(t *testing.T) {
	tests := []struct {
		cycles int
		frame  int
		want   int
	}{
		{0, 100, 0},
		{100, 0, 0},
		{100, 100, 1},
		{101, 100, 2},
		{1_000_000, 29780, 34},
	}

	for _, tt := range tests {
		run := Run{Cycles: tt.cycles, FrameCycles: tt.frame}
		assert.Equal(t, tt.want, run.Frames())
	}
}
