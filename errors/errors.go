package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // container and symbol loading
	PhaseDecode  Phase = "decode"  // embedded artifact decoding
	PhaseResolve Phase = "resolve" // reference and closure resolution
	PhaseRender  Phase = "render"  // bundle rendering
	PhaseCompile Phase = "compile" // compilation pipeline
	PhasePersist Phase = "persist" // writing artifacts back
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedModule     Kind = "malformed_module"
	KindSymbolMismatch      Kind = "symbol_mismatch"
	KindArtifactDecode      Kind = "artifact_decode"
	KindUnresolvedReference Kind = "unresolved_reference"
	KindCyclicDependency    Kind = "cyclic_dependency"
	KindErrorLimit          Kind = "error_limit"
	KindInvalidData         Kind = "invalid_data"
	KindNotFound            Kind = "not_found"
	KindEncoding            Kind = "encoding"
)

// Error is the structured error type used throughout the compiler core
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Module   string
	Artifact string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" {
		b.WriteString(" in module ")
		b.WriteString(e.Module)
	}
	if e.Artifact != "" {
		b.WriteString(" artifact ")
		b.WriteString(e.Artifact)
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Module sets the module name
func (b *Builder) Module(name string) *Builder {
	b.err.Module = name
	return b
}

// Artifact sets the embedded artifact name
func (b *Builder) Artifact(name string) *Builder {
	b.err.Artifact = name
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedModule creates a container parse failure error
func MalformedModule(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMalformedModule,
		Module: module,
		Detail: "cannot parse module container",
		Cause:  cause,
	}
}

// SymbolMismatch creates a recoverable symbol attachment error
func SymbolMismatch(module, symbolFile string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSymbolMismatch,
		Module: module,
		Detail: fmt.Sprintf("symbol stream %q does not match module", symbolFile),
	}
}

// ArtifactDecode creates an embedded artifact decode error
func ArtifactDecode(module, artifact, detail string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindArtifactDecode,
		Module:   module,
		Artifact: artifact,
		Detail:   detail,
	}
}

// UnresolvedReference creates a non-fatal reference lookup failure
func UnresolvedReference(name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolvedReference,
		Detail: fmt.Sprintf("module reference %q not found in any search location", name),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Encoding creates an output encoding failure error
func Encoding(module, detail string) *Error {
	return &Error{
		Phase:  PhaseRender,
		Kind:   KindEncoding,
		Module: module,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ErrorLimit signals that a compile invocation crossed its diagnostic limit.
// Remaining pipeline stages observe it and abort immediately.
var ErrorLimit = &Error{
	Phase:  PhaseCompile,
	Kind:   KindErrorLimit,
	Detail: "diagnostic limit exceeded",
}

// CycleError is returned when the dependency closure encounters a cycle in
// declared prerequisites. Nodes lists the cycle in traversal order; the
// first node is also reachable from the last.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	if len(e.Nodes) == 0 {
		return "[resolve] cyclic_dependency: cycle detected"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("dependency cycle through %d node(s):\n", len(e.Nodes)))
	for _, n := range e.Nodes {
		b.WriteString("  - ")
		b.WriteString(n)
		b.WriteByte('\n')
	}
	b.WriteString("  - ")
	b.WriteString(e.Nodes[0])
	return b.String()
}

// Is reports whether target matches this error type
func (e *CycleError) Is(target error) bool {
	if _, ok := target.(*CycleError); ok {
		return true
	}
	if t, ok := target.(*Error); ok {
		return t.Phase == PhaseResolve && t.Kind == KindCyclicDependency
	}
	return false
}
