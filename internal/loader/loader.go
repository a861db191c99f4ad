// Package loader handles program file loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/retroenv/retro6502/internal/detector"
	"github.com/retroenv/retro6502/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

// Loader handles loading program files from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses a program file based on the system type and options.
// It supports both the NES ROM format and raw binary images.
// Returns the cartridge and a Code/Data Log reader if the specified log
// file already exists. A missing log file is created after the run.
func (l *Loader) Load(opts options.Program, system arch.System) (*cartridge.Cartridge, io.ReadCloser, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	cart, err := l.LoadFromBytes(data, opts.Binary, system)
	if err != nil {
		return nil, nil, err
	}

	var cdlReader io.ReadCloser
	if opts.CodeDataLog != "" {
		cdlReader, err = os.Open(opts.CodeDataLog)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			cdlReader = nil
		case err != nil:
			return nil, nil, fmt.Errorf("opening CDL file %s: %w", opts.CodeDataLog, err)
		}
	}

	return cart, cdlReader, nil
}

// LoadFromBytes parses program data based on the system type.
// Raw systems keep the data unchanged as PRG, binary mode on a NES pads it
// to a full PRG bank.
func (l *Loader) LoadFromBytes(data []byte, binary bool, system arch.System) (*cartridge.Cartridge, error) {
	if system == detector.Raw {
		return &cartridge.Cartridge{PRG: data}, nil
	}

	reader := bytes.NewReader(data)

	var cart *cartridge.Cartridge
	var err error
	switch {
	case binary:
		cart, err = cartridge.LoadBuffer(reader)
	default:
		cart, err = cartridge.LoadFile(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}
	return cart, nil
}
