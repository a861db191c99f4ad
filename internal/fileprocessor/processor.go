// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retro6502/internal/app"
	"github.com/retroenv/retro6502/internal/bus"
	"github.com/retroenv/retro6502/internal/detector"
	"github.com/retroenv/retro6502/internal/loader"
	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retro6502/internal/script"
	"github.com/retroenv/retro6502/internal/snapshot"
	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/arch/system/nes/codedatalog"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// Result contains the outcome of an execution run.
type Result struct {
	Cycles      int
	Frames      int
	IRQs        int
	Halted      bool
	Stopped     bool // stopped by a script
	Registers   mos6502.Registers
	NextOpcode  mos6502.Opcode
	IORegisters []string // accessed NES I/O registers
	CodeBytes   int      // program bytes marked as code in the Code/Data log
}

// ProcessFile handles the complete file processing workflow and prints the
// final register state to stdout.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, run options.Run) error {
	result, err := Execute(ctx, logger, opts, run)
	if err != nil {
		return err
	}

	table := term.IsTerminal(int(os.Stdout.Fd()))
	PrintResult(os.Stdout, result, table)
	return nil
}

// session holds the components of a single execution run.
type session struct {
	logger  *log.Logger
	opts    options.Program
	run     options.Run
	cart    *cartridge.Cartridge
	machine app.Machine
	tracer  *bus.Tracer
	cpu     *mos6502.CPU
	engine  *script.Engine
	irqs    int
}

// Execute loads the program, runs it for the configured cycle budget in frame
// slices and writes the requested state and Code/Data log files.
func Execute(ctx context.Context, logger *log.Logger, opts options.Program, run options.Run) (Result, error) {
	s := &session{
		logger: logger,
		opts:   opts,
		run:    run,
	}
	if err := s.setup(); err != nil {
		return Result{}, err
	}
	if s.engine != nil {
		defer s.engine.Close()
	}

	result, err := s.execute(ctx)
	if err != nil {
		return Result{}, err
	}

	if err := s.saveOutputs(); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (s *session) setup() error {
	system, cdlReader, err := s.loadProgram()
	if err != nil {
		return err
	}

	s.machine, err = app.NewMachine(s.logger, s.cart, system, s.run)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	cpuBus := mos6502.Bus(s.machine.System)
	if s.opts.CodeDataLog != "" {
		s.tracer = bus.NewTracer(s.machine.System, len(s.cart.PRG), s.run.Variant)
		if cdlReader != nil {
			prgFlags, err := codedatalog.LoadFile(s.cart, cdlReader)
			_ = cdlReader.Close()
			if err != nil {
				return fmt.Errorf("loading code/data log: %w", err)
			}
			s.tracer.Merge(prgFlags)
		}
		cpuBus = s.tracer
	}

	s.cpu, err = mos6502.New(s.logger, cpuBus, s.run.Variant)
	if err != nil {
		return fmt.Errorf("creating cpu: %w", err)
	}
	s.cpu.SetIRQCallback(func(line mos6502.Line) {
		s.irqs++
	})

	if err := s.restoreState(); err != nil {
		return err
	}
	s.syncVariant()
	if s.run.HasStartAddress {
		s.cpu.SetRegister(mos6502.RegPC, s.run.StartAddress)
	}

	if s.opts.Script != "" {
		s.engine = script.New(s.logger, s.cpu, cpuBus)
		if err := s.engine.LoadFile(s.opts.Script); err != nil {
			s.engine.Close()
			s.engine = nil
			return err
		}
	}
	return nil
}

// loadProgram loads the input file. A run without input file starts from an
// empty raw memory that is expected to be restored from a snapshot.
func (s *session) loadProgram() (arch.System, io.ReadCloser, error) {
	if s.opts.Input == "" {
		s.cart = &cartridge.Cartridge{}
		return detector.Raw, nil, nil
	}

	det := detector.New(s.logger)
	system := det.Detect(s.opts)
	s.run.Variant = det.Variant(s.opts, s.run, system)

	cart, cdlReader, err := loader.New().Load(s.opts, system)
	if err != nil {
		return "", nil, fmt.Errorf("loading program: %w", err)
	}
	s.cart = cart

	app.PrintInfo(s.logger, s.opts, s.run, cart, system)
	return system, cdlReader, nil
}

func (s *session) restoreState() error {
	if s.opts.StateIn == "" {
		return nil
	}

	snap, err := snapshot.Load(s.opts.StateIn)
	if err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}
	if err := s.cpu.LoadState(snap); err != nil {
		return fmt.Errorf("restoring cpu state: %w", err)
	}
	if len(snap.Memory) > 0 {
		if err := s.machine.System.Restore(snap.Memory); err != nil {
			return fmt.Errorf("restoring memory: %w", err)
		}
	}
	s.logger.Debug("Restored state",
		log.String("file", s.opts.StateIn),
		log.Hex("pc", s.cpu.GetRegister(mos6502.RegPC)))
	return nil
}

func (s *session) execute(ctx context.Context) (Result, error) {
	if s.engine != nil {
		if err := s.engine.Start(); err != nil {
			return Result{}, err
		}
		s.syncVariant()
	}

	var result Result
	for result.Cycles < s.run.Cycles {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("running frame %d: %w", result.Frames+1, err)
		}

		slice := min(s.run.FrameCycles, s.run.Cycles-result.Cycles)
		result.Cycles += s.cpu.Execute(slice)
		result.Frames++

		s.endFrame()

		if s.engine != nil {
			if err := s.engine.Frame(result.Frames, result.Cycles); err != nil {
				return Result{}, err
			}
			s.syncVariant()
			if s.engine.Stopped() {
				result.Stopped = true
				break
			}
		}
		if s.cpu.Halted() {
			break
		}
	}

	if s.engine != nil {
		if err := s.engine.Finish(); err != nil {
			return Result{}, err
		}
	}

	result.IRQs = s.irqs
	result.Halted = s.cpu.Halted()
	result.Registers = s.cpu.Context()
	result.NextOpcode = s.cpu.Variant().Opcode(s.machine.System.Read(result.Registers.PC))
	if s.machine.NES != nil {
		result.IORegisters = s.machine.NES.UsedRegisters()
	}
	if s.tracer != nil {
		result.CodeBytes = s.tracer.CodeBytes()
	}

	if !s.opts.Quiet {
		s.logger.Info("Run finished",
			log.Int("cycles", result.Cycles),
			log.Int("frames", result.Frames),
			log.Int("irqs", result.IRQs),
			log.Hex("pc", result.Registers.PC))
	}
	if result.Halted {
		s.logger.Warn("CPU halted", log.Hex("pc", result.Registers.PC))
	}
	return result, nil
}

// syncVariant follows variant changes of the CPU by a restored state or a
// script.
func (s *session) syncVariant() {
	s.run.Variant = s.cpu.Variant()
	if s.tracer != nil {
		s.tracer.SetVariant(s.run.Variant)
	}
}

// endFrame signals the vertical blank of a frame. The NMI line is pulsed
// so that the interrupt is taken immediately.
func (s *session) endFrame() {
	if s.machine.NES != nil {
		s.machine.NES.SetVBlank(true)
	}
	if s.run.NMI {
		s.cpu.SetNMILine(mos6502.AssertLine)
		s.cpu.SetNMILine(mos6502.ClearLine)
	}
}

func (s *session) saveOutputs() error {
	if s.opts.StateOut != "" {
		snap := &snapshot.Snapshot{Memory: s.machine.System.Dump()}
		s.cpu.SaveState(snap)
		if err := snap.Save(s.opts.StateOut); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
		s.logger.Debug("Saved state", log.String("file", s.opts.StateOut))
	}

	if s.tracer != nil {
		if err := s.writeCodeDataLog(); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) writeCodeDataLog() error {
	file, err := os.Create(s.opts.CodeDataLog)
	if err != nil {
		return fmt.Errorf("creating CDL file %s: %w", s.opts.CodeDataLog, err)
	}
	if err := s.tracer.Save(file, len(s.cart.CHR)); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing CDL file %s: %w", s.opts.CodeDataLog, err)
	}

	s.logger.Debug("Wrote code/data log",
		log.String("file", s.opts.CodeDataLog),
		log.Int("code_bytes", s.tracer.CodeBytes()),
		log.Int("entry_points", s.tracer.EntryPoints()))
	return nil
}

// PrintResult prints the final register state, as aligned table for
// terminals and as key=value pairs otherwise.
func PrintResult(w io.Writer, result Result, table bool) {
	reg := result.Registers
	if table {
		_, _ = fmt.Fprintf(w, "%-4s  %-2s  %-2s  %-2s  %-2s  %-8s  %s\n", "PC", "SP", "A", "X", "Y", "P", "NEXT")
		_, _ = fmt.Fprintf(w, "%04X  %02X  %02X  %02X  %02X  %-8s  %s\n",
			reg.PC, reg.SP, reg.A, reg.X, reg.Y, reg.P, result.NextOpcode.Mnemonic)
	} else {
		_, _ = fmt.Fprintf(w, "pc=$%04X sp=$%02X a=$%02X x=$%02X y=$%02X p=%s next=%s\n",
			reg.PC, reg.SP, reg.A, reg.X, reg.Y, reg.P, result.NextOpcode.Mnemonic)
	}

	_, _ = fmt.Fprintf(w, "cycles=%d frames=%d irqs=%d halted=%t stopped=%t\n",
		result.Cycles, result.Frames, result.IRQs, result.Halted, result.Stopped)
	if len(result.IORegisters) > 0 {
		_, _ = fmt.Fprintf(w, "io=%s\n", strings.Join(result.IORegisters, ","))
	}
	if result.CodeBytes > 0 {
		_, _ = fmt.Fprintf(w, "code_bytes=%d\n", result.CodeBytes)
	}
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates a snapshot filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".r65s"
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retro6502", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
