package mos6502

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

var errMissingField = errors.New("missing field")

// mapState stores saved fields in a map and remembers their order.
type mapState struct {
	order  []string
	fields map[string]uint16
}

func newMapState() *mapState {
	return &mapState{fields: map[string]uint16{}}
}

func (s *mapState) SaveUint8(name string, value uint8) {
	s.SaveUint16(name, uint16(value))
}

func (s *mapState) SaveUint16(name string, value uint16) {
	s.order = append(s.order, name)
	s.fields[name] = value
}

func (s *mapState) LoadUint8(name string) (uint8, error) {
	value, err := s.LoadUint16(name)
	return uint8(value), err
}

func (s *mapState) LoadUint16(name string) (uint16, error) {
	value, ok := s.fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingField, name)
	}
	return value, nil
}

func TestSaveStateFieldOrder(t *testing.T) {
	cpu, _ := newTestCPU(t, CMOS65C02)
	state := newMapState()
	cpu.SaveState(state)

	assert.Equal(t, "TYPE,PC,SP,P,A,X,Y,PENDING,AFTER_CLI,NMI_STATE,IRQ_STATE,SO_STATE",
		strings.Join(state.order, ","))
	assert.Equal(t, uint16(CMOS65C02), state.fields[StateVariant])
	assert.Equal(t, uint16(testOrigin), state.fields[StatePC])
	assert.Equal(t, uint16(0xff), state.fields[StateSP])
}

func TestStateRoundTrip(t *testing.T) {
	// loop: INX, ADC #$03, PHA, PLA, CLI, NOP, SEI, BNE loop
	program := []uint8{0xe8, 0x69, 0x03, 0x48, 0x68, 0x58, 0xea, 0x78, 0xd0, 0xf6}

	first, firstBus := newTestCPU(t, NMOS6510, program...)
	setVector(firstBus, irqVector, 0x9000)
	copy(firstBus.mem[0x9000:], []uint8{0xc8, 0x40}) // INY, RTI

	first.SetIRQLine(IRQLine, AssertLine)
	first.Execute(37)

	state := newMapState()
	first.SaveState(state)

	secondBus := &testBus{mem: firstBus.mem}
	second := newCPUForBus(t, secondBus, CMOS65C02)
	assert.NoError(t, second.LoadState(state))
	assert.Equal(t, NMOS6510, second.Variant())

	firstBus.record = true
	secondBus.record = true
	firstBus.calls = nil

	for range 10 {
		assert.Equal(t, first.Execute(23), second.Execute(23))
	}

	assert.Equal(t, first.reg.PC, second.reg.PC)
	assert.Equal(t, first.reg.SP, second.reg.SP)
	assert.Equal(t, first.reg.P, second.reg.P)
	assert.Equal(t, first.reg.A, second.reg.A)
	assert.Equal(t, first.reg.X, second.reg.X)
	assert.Equal(t, first.reg.Y, second.reg.Y)
	assert.Equal(t, first.irqState, second.irqState)
	assert.Equal(t, strings.Join(firstBus.calls, "\n"), strings.Join(secondBus.calls, "\n"))
	assert.True(t, len(firstBus.calls) > 0)
}

func TestStateLatchRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state irqLatch
	}{
		{"idle", irqIdle},
		{"armed", irqArmedAfterCLI},
		{"pending", irqPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, _ := newTestCPU(t, NMOS6502)
			cpu.irqState = tt.state
			state := newMapState()
			cpu.SaveState(state)

			restored, _ := newTestCPU(t, NMOS6502)
			assert.NoError(t, restored.LoadState(state))
			assert.Equal(t, tt.state, restored.irqState)
		})
	}
}

func TestLoadStateErrors(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		cpu, _ := newTestCPU(t, NMOS6502)
		before := cpu.Context()
		state := newMapState()
		cpu.SaveState(state)
		delete(state.fields, StateY)

		cpu.SetContext(Registers{})
		err := cpu.LoadState(state)
		assert.True(t, errors.Is(err, errMissingField))
		assert.ErrorContains(t, err, StateY)
		assert.Equal(t, Registers{P: FlagReserved | FlagBreak}, cpu.Context())
		assert.True(t, before != cpu.Context())
	})

	t.Run("invalid variant", func(t *testing.T) {
		cpu, _ := newTestCPU(t, NMOS6502)
		state := newMapState()
		cpu.SaveState(state)
		state.fields[StateVariant] = 42

		err := cpu.LoadState(state)
		assert.True(t, errors.Is(err, ErrInvalidVariant))
		assert.Equal(t, NMOS6502, cpu.Variant())
	})
}
