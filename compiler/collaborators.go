package compiler

import (
	"github.com/websharper/wsc"
	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/deps"
)

// Module is the reflected semantic view of a module binary: the member
// set the pipeline routes between collaborators, plus the annotation side
// table attached by the Reflector. The pipeline never interprets members
// beyond identity.
type Module struct {
	Name        wsc.Name
	Members     []MemberID
	Annotations Annotations
}

// Package is the generated target-language package tree prior to
// serialization. The pipeline treats it as opaque apart from emptiness: a
// module compiling to an empty package has no script to emit, which is a
// valid outcome, not a failure.
type Package struct {
	Name  string
	Empty bool
	Tree  any
}

// Reflector turns a module binary into its semantic module tree and
// annotation side table.
type Reflector interface {
	Reflect(d *Diagnostics, a *assembly.Assembly) (*Module, error)
}

// PackageResolver turns a semantic module tree into the target-language
// package tree.
type PackageResolver interface {
	Resolve(d *Diagnostics, m *Module) (*Package, error)
}

// Validator applies the inline and macro annotations, expanding templates
// and rejecting malformed ones through the diagnostics sink.
type Validator interface {
	Validate(d *Diagnostics, m *Module) error
}

// Analyzer derives the module's own dependency metadata record from the
// semantic tree and the metadata inherited from already-compiled modules.
type Analyzer interface {
	Analyze(d *Diagnostics, m *Module, inherited *deps.Registry) (*deps.Info, error)
}

// DeclarationExporter renders the module's declaration text.
type DeclarationExporter interface {
	Export(d *Diagnostics, m *Module) (string, error)
}

// ScriptWriter serializes a package tree to script text at the requested
// fidelity.
type ScriptWriter interface {
	Write(p *Package, readable bool) (string, error)
}

// Collaborators bundles the external stages the pipeline sequences.
// Scripts is only exercised when persisting.
type Collaborators struct {
	Reflector    Reflector
	Packages     PackageResolver
	Validator    Validator
	Analyzer     Analyzer
	Declarations DeclarationExporter
	Scripts      ScriptWriter
}
