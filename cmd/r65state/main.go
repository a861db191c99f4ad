// Package main implements a tool that prints the contents of a CPU state snapshot
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retro6502/internal/config"
	"github.com/retroenv/retro6502/internal/snapshot"
	"github.com/retroenv/retro6502/mos6502"
	"github.com/retroenv/retrogolib/log"
)

type optionFlags struct {
	input  string
	memory string
	quiet  bool
}

func main() {
	options := readArguments()
	logger := config.CreateLogger(false, options.quiet)

	snap, err := snapshot.Load(options.input)
	if err != nil {
		logger.Fatal("Reading snapshot failed", log.Err(err))
	}

	if err := printSnapshot(os.Stdout, snap, options.memory); err != nil {
		logger.Fatal("Printing snapshot failed", log.Err(err))
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.memory, "mem", "", "memory range to dump as start:length, for example 0x0200:64")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		fmt.Printf("usage: r65state [options] <snapshot file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printSnapshot(w io.Writer, snap *snapshot.Snapshot, memoryRange string) error {
	for _, f := range snap.Fields {
		value := fmt.Sprintf("$%02X", f.Value)
		if f.Width == 2 {
			value = fmt.Sprintf("$%04X", f.Value)
		}
		switch f.Name {
		case mos6502.StateVariant:
			value = mos6502.Variant(f.Value).String()
		case mos6502.StateP:
			value = mos6502.Flags(f.Value).String()
		}
		_, _ = fmt.Fprintf(w, "%-10s %s\n", f.Name, value)
	}
	_, _ = fmt.Fprintf(w, "%-10s %d bytes\n", "MEMORY", len(snap.Memory))

	if memoryRange == "" {
		return nil
	}
	start, length, err := parseRange(memoryRange)
	if err != nil {
		return err
	}
	if start >= len(snap.Memory) {
		return fmt.Errorf("memory range start 0x%04X outside of %d bytes", start, len(snap.Memory))
	}
	end := min(start+length, len(snap.Memory))
	_, _ = fmt.Fprint(w, hex.Dump(snap.Memory[start:end]))
	return nil
}

func parseRange(s string) (int, int, error) {
	startPart, lengthPart, ok := strings.Cut(s, ":")
	if !ok {
		lengthPart = "256"
	}
	start, err := strconv.ParseUint(startPart, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing memory range start '%s': %w", startPart, err)
	}
	length, err := strconv.ParseUint(lengthPart, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing memory range length '%s': %w", lengthPart, err)
	}
	return int(start), int(length), nil
}
