// Package snapshot stores CPU state and memory for save and restore.
package snapshot

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retro6502/mos6502"
)

const (
	magic   = "R65S"
	version = 1
)

// MaxMemorySize is the largest memory image a snapshot can hold, the full
// 64K address space.
const MaxMemorySize = 0x10000

// ErrFieldNotFound is returned when a state field is not part of the snapshot.
var ErrFieldNotFound = errors.New("state field not found")

// Field is a named CPU state value.
type Field struct {
	Name  string
	Width uint8 // 1 or 2 bytes
	Value uint16
}

// Snapshot captures the CPU state fields and the system memory.
// It implements the state sink and source of the CPU core.
type Snapshot struct {
	Fields []Field
	Memory []byte
}

var (
	_ mos6502.StateSink   = (*Snapshot)(nil)
	_ mos6502.StateSource = (*Snapshot)(nil)
)

// SaveUint8 stores a byte field.
func (s *Snapshot) SaveUint8(name string, value uint8) {
	s.save(name, 1, uint16(value))
}

// SaveUint16 stores a word field.
func (s *Snapshot) SaveUint16(name string, value uint16) {
	s.save(name, 2, value)
}

func (s *Snapshot) save(name string, width uint8, value uint16) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			s.Fields[i].Width = width
			s.Fields[i].Value = value
			return
		}
	}
	s.Fields = append(s.Fields, Field{Name: name, Width: width, Value: value})
}

// LoadUint8 returns a byte field.
func (s *Snapshot) LoadUint8(name string) (uint8, error) {
	f, err := s.field(name)
	if err != nil {
		return 0, err
	}
	if f.Width != 1 {
		return 0, fmt.Errorf("state field %s has width %d, expected 1", name, f.Width)
	}
	return uint8(f.Value), nil
}

// LoadUint16 returns a word field.
func (s *Snapshot) LoadUint16(name string) (uint16, error) {
	f, err := s.field(name)
	if err != nil {
		return 0, err
	}
	if f.Width != 2 {
		return 0, fmt.Errorf("state field %s has width %d, expected 2", name, f.Width)
	}
	return f.Value, nil
}

func (s *Snapshot) field(name string) (Field, error) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
}

// Write encodes the snapshot. Memory is stored gzip compressed.
func (s *Snapshot) Write(w io.Writer) error {
	var buf bytes.Buffer

	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(version))

	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.Fields)))
	for _, f := range s.Fields {
		if len(f.Name) > 0xff {
			return fmt.Errorf("state field name %s too long", f.Name)
		}
		buf.WriteByte(byte(len(f.Name)))
		buf.WriteString(f.Name)
		buf.WriteByte(f.Width)
		_ = binary.Write(&buf, binary.LittleEndian, f.Value)
	}

	if len(s.Memory) > MaxMemorySize {
		return fmt.Errorf("memory size %d exceeds maximum of %d bytes", len(s.Memory), MaxMemorySize)
	}
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.Memory)))
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(s.Memory); err != nil {
		return fmt.Errorf("compressing memory: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot written by Write.
func Read(r io.Reader) (*Snapshot, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(header) != magic {
		return nil, fmt.Errorf("invalid snapshot magic: %q", string(header))
	}

	var ver uint32
	if err := binary.Read(r, binary.LittleEndian, &ver); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if ver != version {
		return nil, fmt.Errorf("unsupported snapshot version: %d", ver)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading field count: %w", err)
	}

	s := &Snapshot{}
	for i := range count {
		f, err := readField(r)
		if err != nil {
			return nil, fmt.Errorf("reading field %d: %w", i, err)
		}
		s.Fields = append(s.Fields, f)
	}

	var memSize uint32
	if err := binary.Read(r, binary.LittleEndian, &memSize); err != nil {
		return nil, fmt.Errorf("reading memory size: %w", err)
	}
	if memSize > MaxMemorySize {
		return nil, fmt.Errorf("invalid memory size %d, maximum is %d bytes", memSize, MaxMemorySize)
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	s.Memory = make([]byte, memSize)
	if _, err := io.ReadFull(gz, s.Memory); err != nil {
		return nil, fmt.Errorf("decompressing memory: %w", err)
	}
	return s, nil
}

func readField(r io.Reader) (Field, error) {
	var nameLen [1]byte
	if _, err := io.ReadFull(r, nameLen[:]); err != nil {
		return Field{}, fmt.Errorf("reading name length: %w", err)
	}
	name := make([]byte, nameLen[0])
	if _, err := io.ReadFull(r, name); err != nil {
		return Field{}, fmt.Errorf("reading name: %w", err)
	}

	f := Field{Name: string(name)}
	if err := binary.Read(r, binary.LittleEndian, &f.Width); err != nil {
		return Field{}, fmt.Errorf("reading width: %w", err)
	}
	if f.Width != 1 && f.Width != 2 {
		return Field{}, fmt.Errorf("invalid width %d of field %s", f.Width, f.Name)
	}
	if err := binary.Read(r, binary.LittleEndian, &f.Value); err != nil {
		return Field{}, fmt.Errorf("reading value: %w", err)
	}
	return f, nil
}

// Save writes the snapshot to a file.
func (s *Snapshot) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file %s: %w", path, err)
	}
	if err := s.Write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing snapshot file %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot from a file.
func Load(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	s, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file %s: %w", path, err)
	}
	return s, nil
}
