// Package symbols reads debug-symbol side files for compiled modules.
//
// Two mutually exclusive formats exist, selected by file extension:
// portable symbols (.pdb, magic "WSPB") and classic symbols (.mdb, magic
// "WSMB"). Both carry the owning module's fingerprint; the assembly store
// rejects a symbol stream whose fingerprint does not match the container.
package symbols

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/websharper/wsc/internal/binary"
)

// Format identifies a symbol file format.
type Format int

const (
	// Portable is the current format, carrying a document table.
	Portable Format = iota
	// Classic is the legacy format with an opaque payload.
	Classic
)

// Extensions in probe priority order: portable symbols win when both
// side files exist.
var Extensions = []struct {
	Ext    string
	Format Format
}{
	{".pdb", Portable},
	{".mdb", Classic},
}

var (
	magicPortable = []byte("WSPB")
	magicClassic  = []byte("WSMB")
)

// ErrBadMagic is returned when a symbol stream does not start with the
// magic of its declared format.
var ErrBadMagic = errors.New("invalid symbol file magic")

func (f Format) String() string {
	switch f {
	case Portable:
		return "portable"
	case Classic:
		return "classic"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Symbols is a parsed debug-symbol stream.
type Symbols struct {
	Format      Format
	Fingerprint [16]byte

	// Documents lists source document paths (portable format only).
	Documents []string

	// Data is the raw symbol payload past the header, kept opaque.
	Data []byte
}

// Read parses a symbol stream in the given format.
func Read(data []byte, format Format) (*Symbols, error) {
	switch format {
	case Portable:
		return readPortable(data)
	case Classic:
		return readClassic(data)
	default:
		return nil, fmt.Errorf("unknown symbol format %d", int(format))
	}
}

// Matches reports whether the symbol stream belongs to a module with the
// given fingerprint.
func (s *Symbols) Matches(fp [16]byte) bool {
	return s.Fingerprint == fp
}

func readPortable(data []byte) (*Symbols, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], magicPortable) {
		return nil, ErrBadMagic
	}
	r := binary.NewReader(bytes.NewReader(data[4:]))

	version, err := r.ReadU32()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != 1 {
		return nil, fmt.Errorf("unsupported portable symbol version %d", version)
	}

	s := &Symbols{Format: Portable}
	fp, err := r.ReadBytes(16)
	if err != nil {
		return nil, r.WrapError("fingerprint", err)
	}
	copy(s.Fingerprint[:], fp)

	count, err := r.ReadU32()
	if err != nil {
		return nil, r.WrapError("document table", err)
	}
	for i := uint32(0); i < count; i++ {
		doc, err := r.ReadName()
		if err != nil {
			return nil, r.WrapError("document table", err)
		}
		s.Documents = append(s.Documents, doc)
	}

	s.Data, err = r.ReadRemaining()
	if err != nil {
		return nil, r.WrapError("payload", err)
	}
	return s, nil
}

func readClassic(data []byte) (*Symbols, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], magicClassic) {
		return nil, ErrBadMagic
	}
	if len(data) < 20 {
		return nil, errors.New("classic symbol stream truncated")
	}
	s := &Symbols{Format: Classic}
	copy(s.Fingerprint[:], data[4:20])
	s.Data = data[20:]
	return s, nil
}

// Write encodes the symbol stream. Used by tests and by tooling that
// regenerates side files; compilation itself only reads symbols.
func (s *Symbols) Write() []byte {
	switch s.Format {
	case Portable:
		w := binary.NewWriter()
		w.WriteBytes(magicPortable)
		w.WriteU32(1)
		w.WriteBytes(s.Fingerprint[:])
		w.WriteU32(uint32(len(s.Documents)))
		for _, doc := range s.Documents {
			w.WriteName(doc)
		}
		w.WriteBytes(s.Data)
		return w.Bytes()
	default:
		out := make([]byte, 0, 20+len(s.Data))
		out = append(out, magicClassic...)
		out = append(out, s.Fingerprint[:]...)
		out = append(out, s.Data...)
		return out
	}
}
