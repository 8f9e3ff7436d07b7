package assembly

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/websharper/wsc/errors"
)

// ArtifactKind enumerates the embedded compiler artifacts a compiled
// module may carry. The resource names are fixed for interoperability
// with previously compiled modules.
type ArtifactKind int

const (
	// Metadata is the dependency metadata blob.
	Metadata ArtifactKind = iota
	// RuntimeMetadata is the runtime identity record.
	RuntimeMetadata
	// ReadableScript is the generated script at readable fidelity.
	ReadableScript
	// CompressedScript is the generated script at minified fidelity.
	CompressedScript
	// Declarations is the declaration text.
	Declarations
)

// allKinds lists every artifact kind; order matches the constants.
var allKinds = []ArtifactKind{Metadata, RuntimeMetadata, ReadableScript, CompressedScript, Declarations}

// ResourceName returns the fixed embedded resource name for the kind.
func (k ArtifactKind) ResourceName() string {
	switch k {
	case Metadata:
		return "WebSharper.dep"
	case RuntimeMetadata:
		return "WebSharper.meta"
	case ReadableScript:
		return "WebSharper.js"
	case CompressedScript:
		return "WebSharper.min.js"
	case Declarations:
		return "WebSharper.d.ts"
	default:
		return fmt.Sprintf("ArtifactKind(%d)", int(k))
	}
}

// IsText reports whether the artifact decodes to text. Text artifacts are
// strict UTF-8 with no byte order mark; the metadata blobs are binary.
func (k ArtifactKind) IsText() bool {
	switch k {
	case ReadableScript, CompressedScript, Declarations:
		return true
	default:
		return false
	}
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// validateText checks the strict UTF-8, no-BOM decode contract for a text
// artifact's raw bytes.
func validateText(module string, kind ArtifactKind, data []byte) error {
	if bytes.HasPrefix(data, bom) {
		return errors.ArtifactDecode(module, kind.ResourceName(), "byte order mark not allowed")
	}
	if !utf8.Valid(data) {
		return errors.ArtifactDecode(module, kind.ResourceName(), "invalid UTF-8 sequence")
	}
	return nil
}

// Artifacts is the full artifact set written back into a container after a
// successful compile. HasScript distinguishes a module with no script to
// emit (a valid state) from one whose script is the empty string.
type Artifacts struct {
	Metadata         []byte
	RuntimeMetadata  []byte
	ReadableScript   string
	CompressedScript string
	Declarations     string
	HasScript        bool
}
