package assembly

import (
	"github.com/websharper/wsc"
	"github.com/websharper/wsc/container"
	"github.com/websharper/wsc/symbols"
)

// Assembly is a loaded compiled module: a binary container plus an
// optional debug-symbol payload. Identity is the fully-qualified module
// name; after load nothing addresses the assembly by file path.
type Assembly struct {
	name      wsc.Name
	container *container.Container
	symbols   *symbols.Symbols
	path      string

	// decoded memoizes per-kind text decoding. Write-once and idempotent:
	// every writer computes the same value from the same artifact bytes.
	decoded map[ArtifactKind]string
}

// Name returns the module's fully-qualified name.
func (a *Assembly) Name() wsc.Name {
	return a.name
}

// Raw returns the bare module name, the identity join key.
func (a *Assembly) Raw() string {
	return a.name.Raw()
}

// Fingerprint returns the container's 16-byte identity fingerprint.
func (a *Assembly) Fingerprint() [16]byte {
	return a.container.Fingerprint
}

// References returns the raw names of modules this module depends on.
func (a *Assembly) References() []string {
	return a.container.References
}

// Symbols returns the attached debug symbols, or nil when none attached.
func (a *Assembly) Symbols() *symbols.Symbols {
	return a.symbols
}

// Path returns the file the assembly was loaded from, or "" for buffers.
func (a *Assembly) Path() string {
	return a.path
}

// Artifact returns the raw bytes of an embedded artifact, or false when
// the container does not carry it.
func (a *Assembly) Artifact(kind ArtifactKind) ([]byte, bool) {
	return a.container.Resource(kind.ResourceName())
}

// Text returns the decoded text of a text artifact. The decode is
// memoized; validity was established at load time, so decoding cannot
// fail here.
func (a *Assembly) Text(kind ArtifactKind) (string, bool) {
	if s, ok := a.decoded[kind]; ok {
		return s, true
	}
	data, ok := a.container.Resource(kind.ResourceName())
	if !ok {
		return "", false
	}
	s := string(data)
	a.decoded[kind] = s
	return s, true
}

// WebResource returns the bytes of an arbitrary named embedded resource,
// used by the rendering protocol to serve style sheets and similar
// content declared in dependency metadata.
func (a *Assembly) WebResource(name string) ([]byte, bool) {
	return a.container.Resource(name)
}

// SetArtifact replaces an artifact's raw bytes and drops any stale decode.
func (a *Assembly) SetArtifact(kind ArtifactKind, data []byte) {
	a.container.SetResource(kind.ResourceName(), data)
	delete(a.decoded, kind)
}

// DeleteArtifact removes an artifact from the container.
func (a *Assembly) DeleteArtifact(kind ArtifactKind) {
	a.container.DeleteResource(kind.ResourceName())
	delete(a.decoded, kind)
}

// WriteArtifacts recreates the full artifact set from a compile result.
// When the compiled package is empty there is no script to emit: both
// script artifacts are removed so a later load reports their absence.
func (a *Assembly) WriteArtifacts(art Artifacts) {
	a.SetArtifact(Metadata, art.Metadata)
	a.SetArtifact(RuntimeMetadata, art.RuntimeMetadata)
	if art.HasScript {
		a.SetArtifact(ReadableScript, []byte(art.ReadableScript))
		a.SetArtifact(CompressedScript, []byte(art.CompressedScript))
	} else {
		a.DeleteArtifact(ReadableScript)
		a.DeleteArtifact(CompressedScript)
	}
	a.SetArtifact(Declarations, []byte(art.Declarations))
}

// Encode serializes the assembly's container back to its binary form.
func (a *Assembly) Encode() []byte {
	return a.container.Encode()
}
