package assembly

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/websharper/wsc"
	"github.com/websharper/wsc/container"
	"github.com/websharper/wsc/errors"
	"github.com/websharper/wsc/symbols"
)

// Ext is the module container file extension.
const Ext = ".wsm"

// Store loads compiled modules and resolves module references against a
// set of search locations.
type Store struct {
	searchDirs []string
}

// NewStore creates a store with the given search directories, probed in
// order during reference resolution.
func NewStore(searchDirs ...string) *Store {
	return &Store{searchDirs: searchDirs}
}

// SearchDirs returns the registered search directories.
func (s *Store) SearchDirs() []string {
	return append([]string(nil), s.searchDirs...)
}

// Load decodes a binary module from a byte buffer. When symbolData is
// non-nil it is attached using the reader for the given format; a symbol
// stream that does not match the module fails the load with a recoverable
// symbol_mismatch error, which callers may handle by reloading without
// symbols (LoadFile does exactly that).
func (s *Store) Load(data []byte, symbolData []byte, format symbols.Format) (*Assembly, error) {
	c, err := container.Parse(data)
	if err != nil {
		return nil, errors.MalformedModule("", err)
	}

	a := &Assembly{
		name:      wsc.Name{Name: c.Name, Version: c.VersionText},
		container: c,
		decoded:   make(map[ArtifactKind]string),
	}

	// The decode contract is per artifact kind: invalid text bytes fail
	// the whole load, not the first lazy access.
	for _, kind := range allKinds {
		if !kind.IsText() {
			continue
		}
		if raw, ok := a.Artifact(kind); ok {
			if err := validateText(a.Raw(), kind, raw); err != nil {
				return nil, err
			}
		}
	}

	if symbolData != nil {
		sym, err := symbols.Read(symbolData, format)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindSymbolMismatch).
				Module(a.Raw()).
				Detail("cannot read %s symbol stream", format).
				Cause(err).
				Build()
		}
		if !sym.Matches(c.Fingerprint) {
			return nil, errors.SymbolMismatch(a.Raw(), format.String())
		}
		a.symbols = sym
	}

	return a, nil
}

// LoadFile reads a module file plus, opportunistically, a sibling symbol
// file with a recognized extension (portable before classic). A symbol
// stream that is corrupt or does not match the module downgrades to a
// logged warning and a symbol-less load.
func (s *Store) LoadFile(path string) (*Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read module file")
	}

	symbolData, format, symbolPath := probeSymbols(path)

	a, err := s.Load(data, symbolData, format)
	if err != nil && symbolData != nil {
		mismatch := &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindSymbolMismatch}
		if goerrors.Is(err, mismatch) {
			Logger().Warn("symbol file does not match module, loading without symbols",
				zap.String("module", path),
				zap.String("symbols", symbolPath),
				zap.Error(err))
			a, err = s.Load(data, nil, 0)
		}
	}
	if err != nil {
		return nil, err
	}

	a.path = path
	return a, nil
}

// probeSymbols looks for a sibling symbol file next to a module path,
// checking extensions in fixed priority order.
func probeSymbols(modulePath string) (data []byte, format symbols.Format, path string) {
	base := strings.TrimSuffix(modulePath, filepath.Ext(modulePath))
	for _, e := range symbols.Extensions {
		candidate := base + e.Ext
		if d, err := os.ReadFile(candidate); err == nil {
			return d, e.Format, candidate
		}
	}
	return nil, 0, ""
}

// ResolveReference looks up a module reference by raw name, probing the
// extra directories first and then the store's search directories. The
// second result is false when the reference cannot be located; callers
// decide whether that is fatal.
func (s *Store) ResolveReference(name string, extraDirs []string) (string, bool) {
	for _, dir := range extraDirs {
		if p, ok := probeModule(dir, name); ok {
			return p, true
		}
	}
	for _, dir := range s.searchDirs {
		if p, ok := probeModule(dir, name); ok {
			return p, true
		}
	}
	return "", false
}

func probeModule(dir, name string) (string, bool) {
	p := filepath.Join(dir, name+Ext)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, true
	}
	return "", false
}

// Save writes the assembly's container back to the file it was loaded
// from. It fails for assemblies loaded from byte buffers.
func (s *Store) Save(a *Assembly) error {
	if a.path == "" {
		return errors.InvalidData(errors.PhasePersist, "assembly was not loaded from a file")
	}
	return s.SaveAs(a, a.path)
}

// SaveAs writes the assembly's container to the given path.
func (s *Store) SaveAs(a *Assembly, path string) error {
	if err := os.WriteFile(path, a.Encode(), 0o644); err != nil {
		return errors.Wrap(errors.PhasePersist, errors.KindInvalidData, err, "write module file")
	}
	return nil
}
