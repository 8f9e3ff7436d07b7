package assembly_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/container"
	wscerrors "github.com/websharper/wsc/errors"
	"github.com/websharper/wsc/symbols"
)

var testFP = [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

func buildContainer(name string, refs ...string) *container.Container {
	c := &container.Container{
		Name:        name,
		VersionText: "1.0.0.0",
		References:  refs,
		Code:        []byte{0x01, 0x02},
	}
	c.Fingerprint = testFP
	return c
}

func TestLoadBasics(t *testing.T) {
	store := assembly.NewStore()
	c := buildContainer("App.Main", "App.Core")

	a, err := store.Load(c.Encode(), nil, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Raw() != "App.Main" {
		t.Errorf("raw name: got %q", a.Raw())
	}
	if a.Name().String() != "App.Main, Version=1.0.0.0" {
		t.Errorf("full name: got %q", a.Name())
	}
	if got := a.References(); len(got) != 1 || got[0] != "App.Core" {
		t.Errorf("references: got %v", got)
	}
	if a.Symbols() != nil {
		t.Error("unexpected symbols")
	}
	if a.Fingerprint() != testFP {
		t.Errorf("fingerprint: got %x", a.Fingerprint())
	}
}

func TestLoadMalformed(t *testing.T) {
	store := assembly.NewStore()
	_, err := store.Load([]byte{0xDE, 0xAD}, nil, 0)
	if !errors.Is(err, &wscerrors.Error{Phase: wscerrors.PhaseLoad, Kind: wscerrors.KindMalformedModule}) {
		t.Errorf("expected malformed_module, got %v", err)
	}
}

func TestLoadRejectsInvalidArtifactText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"invalid utf8", []byte{0xFF, 0xFE, 0x01}},
		{"byte order mark", []byte{0xEF, 0xBB, 0xBF, 'x'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildContainer("App.Main")
			c.SetResource("WebSharper.js", tt.data)

			store := assembly.NewStore()
			_, err := store.Load(c.Encode(), nil, 0)
			if !errors.Is(err, &wscerrors.Error{Phase: wscerrors.PhaseDecode, Kind: wscerrors.KindArtifactDecode}) {
				t.Errorf("expected artifact_decode, got %v", err)
			}
		})
	}
}

func TestWriteArtifactsRoundTrip(t *testing.T) {
	store := assembly.NewStore()
	a, err := store.Load(buildContainer("App.Main").Encode(), nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	art := assembly.Artifacts{
		Metadata:         []byte{0x10, 0x20, 0x30},
		RuntimeMetadata:  []byte{0x40},
		ReadableScript:   "var x = 1;\n",
		CompressedScript: "var x=1;",
		Declarations:     "declare var x: number;\n",
		HasScript:        true,
	}
	a.WriteArtifacts(art)

	reloaded, err := store.Load(a.Encode(), nil, 0)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	meta, ok := reloaded.Artifact(assembly.Metadata)
	if !ok || !bytes.Equal(meta, art.Metadata) {
		t.Errorf("metadata: got %x, %v", meta, ok)
	}
	rt, ok := reloaded.Artifact(assembly.RuntimeMetadata)
	if !ok || !bytes.Equal(rt, art.RuntimeMetadata) {
		t.Errorf("runtime metadata: got %x, %v", rt, ok)
	}
	if s, ok := reloaded.Text(assembly.ReadableScript); !ok || s != art.ReadableScript {
		t.Errorf("readable script: got %q, %v", s, ok)
	}
	if s, ok := reloaded.Text(assembly.CompressedScript); !ok || s != art.CompressedScript {
		t.Errorf("compressed script: got %q, %v", s, ok)
	}
	if s, ok := reloaded.Text(assembly.Declarations); !ok || s != art.Declarations {
		t.Errorf("declarations: got %q, %v", s, ok)
	}
}

func TestWriteArtifactsEmptyPackage(t *testing.T) {
	store := assembly.NewStore()
	a, err := store.Load(buildContainer("App.Types").Encode(), nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate a previous compile that produced a script.
	a.WriteArtifacts(assembly.Artifacts{
		Metadata:        []byte{1},
		RuntimeMetadata: []byte{2},
		ReadableScript:  "old();",
		HasScript:       true,
	})
	// Recompile with an empty package: no script to emit.
	a.WriteArtifacts(assembly.Artifacts{
		Metadata:        []byte{1},
		RuntimeMetadata: []byte{2},
		Declarations:    "export {};\n",
		HasScript:       false,
	})

	reloaded, err := store.Load(a.Encode(), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reloaded.Artifact(assembly.ReadableScript); ok {
		t.Error("readable script should be absent")
	}
	if _, ok := reloaded.Artifact(assembly.CompressedScript); ok {
		t.Error("compressed script should be absent")
	}
	if _, ok := reloaded.Artifact(assembly.Metadata); !ok {
		t.Error("metadata should be present")
	}
	if s, ok := reloaded.Text(assembly.Declarations); !ok || s != "export {};\n" {
		t.Errorf("declarations: got %q, %v", s, ok)
	}
}

func TestTextMemoized(t *testing.T) {
	store := assembly.NewStore()
	c := buildContainer("App.Main")
	c.SetResource("WebSharper.js", []byte("f();"))

	a, err := store.Load(c.Encode(), nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	first, ok := a.Text(assembly.ReadableScript)
	if !ok || first != "f();" {
		t.Fatalf("first read: %q, %v", first, ok)
	}
	second, ok := a.Text(assembly.ReadableScript)
	if !ok || second != first {
		t.Errorf("second read: %q, %v", second, ok)
	}

	if _, ok := a.Text(assembly.Declarations); ok {
		t.Error("absent artifact should report false")
	}
}

func writeModuleFile(t *testing.T, dir, name string, c *container.Container) string {
	t.Helper()
	p := filepath.Join(dir, name+assembly.Ext)
	if err := os.WriteFile(p, c.Encode(), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFileWithMatchingSymbols(t *testing.T) {
	dir := t.TempDir()
	p := writeModuleFile(t, dir, "App.Main", buildContainer("App.Main"))

	sym := &symbols.Symbols{Format: symbols.Portable, Fingerprint: testFP, Documents: []string{"Main.fs"}}
	if err := os.WriteFile(filepath.Join(dir, "App.Main.pdb"), sym.Write(), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := assembly.NewStore().LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if a.Symbols() == nil {
		t.Fatal("expected attached symbols")
	}
	if a.Symbols().Format != symbols.Portable {
		t.Errorf("format: got %v", a.Symbols().Format)
	}
	if a.Path() != p {
		t.Errorf("path: got %q", a.Path())
	}
}

func TestLoadFilePortableBeatsClassic(t *testing.T) {
	dir := t.TempDir()
	p := writeModuleFile(t, dir, "App.Main", buildContainer("App.Main"))

	portable := &symbols.Symbols{Format: symbols.Portable, Fingerprint: testFP}
	classic := &symbols.Symbols{Format: symbols.Classic, Fingerprint: testFP}
	if err := os.WriteFile(filepath.Join(dir, "App.Main.pdb"), portable.Write(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "App.Main.mdb"), classic.Write(), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := assembly.NewStore().LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Symbols() == nil || a.Symbols().Format != symbols.Portable {
		t.Errorf("expected portable symbols to win, got %+v", a.Symbols())
	}
}

func TestLoadFileCorruptSymbolsDegrades(t *testing.T) {
	core, observed := observer.New(zap.WarnLevel)
	assembly.SetLogger(zap.New(core))
	defer assembly.SetLogger(zap.NewNop())

	dir := t.TempDir()
	p := writeModuleFile(t, dir, "App.Main", buildContainer("App.Main"))

	// Truncated symbol stream.
	if err := os.WriteFile(filepath.Join(dir, "App.Main.pdb"), []byte("WS"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := assembly.NewStore().LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile should degrade, got %v", err)
	}
	if a.Symbols() != nil {
		t.Error("symbols should not be attached")
	}
	if got := observed.FilterLevelExact(zap.WarnLevel).Len(); got != 1 {
		t.Errorf("expected exactly one warning, got %d", got)
	}
}

func TestLoadFileMismatchedFingerprintDegrades(t *testing.T) {
	core, observed := observer.New(zap.WarnLevel)
	assembly.SetLogger(zap.New(core))
	defer assembly.SetLogger(zap.NewNop())

	dir := t.TempDir()
	p := writeModuleFile(t, dir, "App.Main", buildContainer("App.Main"))

	other := testFP
	other[0] ^= 0xFF
	sym := &symbols.Symbols{Format: symbols.Portable, Fingerprint: other}
	if err := os.WriteFile(filepath.Join(dir, "App.Main.pdb"), sym.Write(), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := assembly.NewStore().LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Symbols() != nil {
		t.Error("mismatched symbols should not be attached")
	}
	if got := observed.FilterLevelExact(zap.WarnLevel).Len(); got != 1 {
		t.Errorf("expected exactly one warning, got %d", got)
	}
}

func TestResolveReference(t *testing.T) {
	storeDir := t.TempDir()
	extraDir := t.TempDir()
	writeModuleFile(t, storeDir, "App.Core", buildContainer("App.Core"))
	writeModuleFile(t, extraDir, "App.Core", buildContainer("App.Core"))
	writeModuleFile(t, extraDir, "App.Extra", buildContainer("App.Extra"))

	store := assembly.NewStore(storeDir)

	// Extra dirs are probed before store dirs.
	if p, ok := store.ResolveReference("App.Core", []string{extraDir}); !ok || filepath.Dir(p) != extraDir {
		t.Errorf("App.Core: got %q, %v", p, ok)
	}
	if p, ok := store.ResolveReference("App.Core", nil); !ok || filepath.Dir(p) != storeDir {
		t.Errorf("App.Core from store: got %q, %v", p, ok)
	}
	if p, ok := store.ResolveReference("App.Extra", []string{extraDir}); !ok || filepath.Dir(p) != extraDir {
		t.Errorf("App.Extra: got %q, %v", p, ok)
	}
	if _, ok := store.ResolveReference("App.Missing", []string{extraDir}); ok {
		t.Error("unexpected resolution of App.Missing")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := writeModuleFile(t, dir, "App.Main", buildContainer("App.Main"))

	store := assembly.NewStore()
	a, err := store.LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}

	a.WriteArtifacts(assembly.Artifacts{
		Metadata:        []byte{0xAB},
		RuntimeMetadata: []byte{0xCD},
		ReadableScript:  "g();",
		HasScript:       true,
	})
	if err := store.Save(a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := store.LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := reloaded.Text(assembly.ReadableScript); !ok || s != "g();" {
		t.Errorf("persisted script: got %q, %v", s, ok)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	store := assembly.NewStore()
	a, err := store.Load(buildContainer("App.Main").Encode(), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(a); err == nil {
		t.Error("expected error saving a buffer-loaded assembly")
	}
}
