// Package script runs Lua hooks that observe and drive an execution run.
package script

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/log"
	lua "github.com/yuin/gopher-lua"
)

// Hook function names that a script can define.
const (
	HookStart  = "on_start"
	HookFrame  = "on_frame"
	HookFinish = "on_finish"
)

// ErrUnknownRegister is returned for register names that do not exist.
var ErrUnknownRegister = errors.New("unknown register")

// CPU is the part of the CPU core that scripts can access.
type CPU interface {
	GetRegister(id mos6502.RegisterID) uint16
	SetRegister(id mos6502.RegisterID, value uint16)
	SetNMILine(state mos6502.LineState)
	SetIRQLine(line mos6502.Line, state mos6502.LineState)
	Halted() bool
}

var registerNames = map[string]mos6502.RegisterID{
	"pc":   mos6502.RegPC,
	"sp":   mos6502.RegSP,
	"p":    mos6502.RegP,
	"a":    mos6502.RegA,
	"x":    mos6502.RegX,
	"y":    mos6502.RegY,
	"ea":   mos6502.RegEA,
	"zp":   mos6502.RegZP,
	"nmi":  mos6502.RegNMIState,
	"irq":  mos6502.RegIRQState,
	"so":   mos6502.RegSOState,
	"ppc":  mos6502.RegPreviousPC,
	"type": mos6502.RegVariant,
}

// Engine is a Lua state with the machine functions registered.
type Engine struct {
	logger *log.Logger
	state  *lua.LState
	cpu    CPU
	bus    mos6502.Bus

	stopped bool
}

// New returns a new engine for the CPU and bus.
func New(logger *log.Logger, cpu CPU, bus mos6502.Bus) *Engine {
	e := &Engine{
		logger: logger,
		state:  lua.NewState(),
		cpu:    cpu,
		bus:    bus,
	}
	e.register()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.state.Close()
}

// LoadFile runs a script file which defines the hook functions.
func (e *Engine) LoadFile(path string) error {
	if err := e.state.DoFile(path); err != nil {
		return fmt.Errorf("loading script %s: %w", path, err)
	}
	return nil
}

// LoadString runs a script source which defines the hook functions.
func (e *Engine) LoadString(source string) error {
	if err := e.state.DoString(source); err != nil {
		return fmt.Errorf("loading script: %w", err)
	}
	return nil
}

// Stopped returns whether the script requested the run to stop.
func (e *Engine) Stopped() bool {
	return e.stopped
}

// Start calls the start hook.
func (e *Engine) Start() error {
	return e.call(HookStart)
}

// Frame calls the frame hook with the frame number and the total number of
// cycles executed so far.
func (e *Engine) Frame(frame, cycles int) error {
	return e.call(HookFrame, lua.LNumber(frame), lua.LNumber(cycles))
}

// Finish calls the finish hook.
func (e *Engine) Finish() error {
	return e.call(HookFinish)
}

// call runs a hook function if the script defines it.
func (e *Engine) call(name string, args ...lua.LValue) error {
	fn := e.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil
	}
	err := e.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
	if err != nil {
		return fmt.Errorf("calling hook %s: %w", name, err)
	}
	return nil
}

func (e *Engine) register() {
	functions := map[string]lua.LGFunction{
		"reg":     e.luaReg,
		"set_reg": e.luaSetReg,
		"peek":    e.luaPeek,
		"poke":    e.luaPoke,
		"irq":     e.luaIRQ,
		"nmi":     e.luaNMI,
		"halted":  e.luaHalted,
		"stop":    e.luaStop,
		"log":     e.luaLog,
	}
	for name, fn := range functions {
		e.state.SetGlobal(name, e.state.NewFunction(fn))
	}
}

// RegisterID returns the register identifier for a register name as used
// by scripts. Stack slots are named s0, s1 and so on.
func RegisterID(name string) (mos6502.RegisterID, error) {
	name = strings.ToLower(name)
	if id, ok := registerNames[name]; ok {
		return id, nil
	}
	var slot int
	if _, err := fmt.Sscanf(name, "s%d", &slot); err == nil && slot >= 0 {
		return mos6502.StackSlot(slot), nil
	}
	return 0, fmt.Errorf("%w: %s, known registers are %s and stack slots s<n>",
		ErrUnknownRegister, name, strings.Join(RegisterNames(), ", "))
}

// RegisterNames returns all fixed register names sorted.
func RegisterNames() []string {
	names := make([]string, 0, len(registerNames))
	for name := range registerNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) checkRegister(L *lua.LState) mos6502.RegisterID {
	name := L.CheckString(1)
	id, err := RegisterID(name)
	if err != nil {
		L.ArgError(1, err.Error())
	}
	return id
}

func (e *Engine) luaReg(L *lua.LState) int {
	id := e.checkRegister(L)
	L.Push(lua.LNumber(e.cpu.GetRegister(id)))
	return 1
}

func (e *Engine) luaSetReg(L *lua.LState) int {
	id := e.checkRegister(L)
	value := L.CheckInt(2)
	e.cpu.SetRegister(id, uint16(value))
	return 0
}

func (e *Engine) luaPeek(L *lua.LState) int {
	address := L.CheckInt(1)
	L.Push(lua.LNumber(e.bus.Read(uint16(address))))
	return 1
}

func (e *Engine) luaPoke(L *lua.LState) int {
	address := L.CheckInt(1)
	value := L.CheckInt(2)
	e.bus.Write(uint16(address), uint8(value))
	return 0
}

func lineArg(L *lua.LState, n int) mos6502.LineState {
	if L.OptBool(n, true) {
		return mos6502.AssertLine
	}
	return mos6502.ClearLine
}

func (e *Engine) luaIRQ(L *lua.LState) int {
	e.cpu.SetIRQLine(mos6502.IRQLine, lineArg(L, 1))
	return 0
}

func (e *Engine) luaNMI(L *lua.LState) int {
	e.cpu.SetNMILine(lineArg(L, 1))
	return 0
}

func (e *Engine) luaHalted(L *lua.LState) int {
	L.Push(lua.LBool(e.cpu.Halted()))
	return 1
}

func (e *Engine) luaStop(*lua.LState) int {
	e.stopped = true
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.logger.Info("Script", log.String("message", L.CheckString(1)))
	return 0
}
