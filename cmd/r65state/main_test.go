package main

import (
	"bytes"
	"testing"

	"github.com/retroenv/retro6502/internal/snapshot"
	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/assert"
)

func TestPrintSnapshot(t *testing.T) {
	snap := &snapshot.Snapshot{Memory: make([]byte, 0x800)}
	snap.SaveUint8(mos6502.StateVariant, uint8(mos6502.NES2A03))
	snap.SaveUint16(mos6502.StatePC, 0xc000)
	snap.SaveUint8(mos6502.StateA, 0x7f)
	snap.Memory[0x0200] = 0xa9

	var buf bytes.Buffer
	assert.NoError(t, printSnapshot(&buf, snap, "0x0200:16"))
	out := buf.String()
	assert.Contains(t, out, "TYPE       2a03")
	assert.Contains(t, out, "PC         $C000")
	assert.Contains(t, out, "A          $7F")
	assert.Contains(t, out, "MEMORY     2048 bytes")
	assert.Contains(t, out, "a9 00")

	assert.Error(t, printSnapshot(&buf, snap, "0x4000:16"))
	assert.Error(t, printSnapshot(&buf, snap, "zz"))
}

func TestParseRange(t *testing.T) {
	start, length, err := parseRange("0x10:32")
	assert.NoError(t, err)
	assert.Equal(t, 0x10, start)
	assert.Equal(t, 32, length)

	start, length, err = parseRange("512")
	assert.NoError(t, err)
	assert.Equal(t, 512, start)
	assert.Equal(t, 256, length)

	_, _, err = parseRange("1:x")
	assert.Error(t, err)
}
