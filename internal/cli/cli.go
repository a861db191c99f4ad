// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retro6502/mos6502"
)

// ParseFlags parses command line flags and returns program and run options
func ParseFlags() (options.Program, options.Run, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, options.Run, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "" && opts.StateIn == "") {
		return opts, options.Run{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Run{}, err
	}

	normalizeOptions(&opts)

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	run, err := createRunOptions(opts)
	if err != nil {
		return opts, options.Run{}, err
	}
	return opts, run, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retro6502 [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes option values
func normalizeOptions(opts *options.Program) {
	opts.CPU = strings.ToLower(strings.TrimSpace(opts.CPU))
	opts.System = strings.ToLower(strings.TrimSpace(opts.System))
}

// createRunOptions resolves the run options from the program options.
func createRunOptions(opts options.Program) (options.Run, error) {
	run := options.NewRun()

	if opts.CPU != "" {
		variant, err := mos6502.ParseVariant(opts.CPU)
		if err != nil {
			return options.Run{}, fmt.Errorf("parsing cpu option: %w", err)
		}
		run.Variant = variant
	}

	if opts.LoadAddress != "" {
		address, err := parseAddress(opts.LoadAddress)
		if err != nil {
			return options.Run{}, fmt.Errorf("parsing load address: %w", err)
		}
		run.LoadAddress = address
	}

	if opts.StartAddress != "" {
		address, err := parseAddress(opts.StartAddress)
		if err != nil {
			return options.Run{}, fmt.Errorf("parsing start address: %w", err)
		}
		run.StartAddress = address
		run.HasStartAddress = true
	}

	if opts.Cycles < 0 {
		return options.Run{}, fmt.Errorf("invalid cycle count %d", opts.Cycles)
	}
	if opts.FrameCycles <= 0 {
		return options.Run{}, fmt.Errorf("invalid frame cycle count %d", opts.FrameCycles)
	}
	run.Cycles = opts.Cycles
	run.FrameCycles = opts.FrameCycles
	run.NMI = opts.NMI

	return run, nil
}

// parseAddress parses a 16 bit address in decimal, 0x hex or $ hex notation.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}
	value, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return uint16(value), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program file")
	flags.StringVar(&opts.StateIn, "state-in", "", "name of a snapshot file to restore the CPU state and memory from")
	flags.StringVar(&opts.StateOut, "state-out", "", "name of a snapshot file to save the CPU state and memory to after the run")
	flags.StringVar(&opts.CodeDataLog, "cdl", "", "name of the .cdl Code/Data log file to merge executed code into")
	flags.StringVar(&opts.Script, "script", "", "name of a Lua script that defines run hooks")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask, for example *.nes")
	flags.StringVar(&opts.CPU, "cpu", "", "CPU variant to emulate (6502/65c02/65sc02/6510/2a03) - if not auto-detected from the file")
	flags.StringVar(&opts.System, "s", "", "system to run (nes, raw) - if not auto-detected from file extension")
	flags.BoolVar(&opts.Binary, "binary", false, "read input file as raw binary file without any header")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.StringVar(&opts.LoadAddress, "load", "0x0000", "address to load raw binary files to")
	flags.StringVar(&opts.StartAddress, "start", "", "start address, overrides the reset vector")
	flags.IntVar(&opts.Cycles, "cycles", options.DefaultCycles, "total number of CPU cycles to execute")
	flags.IntVar(&opts.FrameCycles, "frame", options.DefaultFrameCycles, "number of CPU cycles per frame slice")
	flags.BoolVar(&opts.NMI, "nmi", false, "pulse the NMI line at the end of every frame slice")
}
