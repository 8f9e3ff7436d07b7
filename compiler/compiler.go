package compiler

import (
	goerrors "errors"
	"sync"

	"go.uber.org/zap"

	"github.com/websharper/wsc"
	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/deps"
	"github.com/websharper/wsc/errors"
)

// Options configures one compile invocation.
type Options struct {
	// ErrorLimit caps error-priority diagnostics before the pipeline
	// aborts. Zero selects DefaultErrorLimit.
	ErrorLimit int

	// Logger receives diagnostics. Nil selects the package logger.
	Logger *zap.Logger
}

// Unit is a successfully compiled module: its dependency metadata record,
// generated package tree, declaration text, and the merged metadata view
// it was compiled against. Units are immutable after construction; only
// the derived closure is memoized lazily.
type Unit struct {
	Name         wsc.Name
	Assembly     *assembly.Assembly
	Info         *deps.Info
	Package      *Package
	Declarations string
	Metadata     *deps.Registry

	closureOnce sync.Once
	closure     []deps.Node
	closureErr  error
}

// Closure returns the unit's dependency closure over the merged metadata
// view, computed on first access.
func (u *Unit) Closure() ([]deps.Node, error) {
	u.closureOnce.Do(func() {
		root := deps.Node{Assembly: u.Info.Name.Raw(), Mode: deps.CompiledAssembly}
		u.closure, u.closureErr = u.Metadata.Closure([]deps.Node{root})
	})
	return u.closure, u.closureErr
}

// Compiler sequences the external collaborator stages.
type Compiler struct {
	collab Collaborators
}

// New creates a compiler over a collaborator set.
func New(collab Collaborators) *Compiler {
	return &Compiler{collab: collab}
}

// Compile runs the pipeline for one module against the metadata inherited
// from already-compiled modules. A nil error implies a non-nil unit; any
// failure, including error-priority diagnostics recorded by a stage,
// yields no unit. Crossing the diagnostic limit aborts the remaining
// stages immediately.
func (c *Compiler) Compile(a *assembly.Assembly, inherited *deps.Registry, opts Options) (*Unit, error) {
	d := newDiagnostics(a.Raw(), opts.ErrorLimit, opts.Logger)

	m, err := c.collab.Reflector.Reflect(d, a)
	if err != nil {
		return nil, wrapStage(a.Raw(), "reflect", err)
	}

	pkg, err := c.collab.Packages.Resolve(d, m)
	if err != nil {
		return nil, wrapStage(a.Raw(), "resolve packages", err)
	}

	if err := c.collab.Validator.Validate(d, m); err != nil {
		return nil, wrapStage(a.Raw(), "validate", err)
	}

	info, err := c.collab.Analyzer.Analyze(d, m, inherited)
	if err != nil {
		return nil, wrapStage(a.Raw(), "analyze", err)
	}

	decls, err := c.collab.Declarations.Export(d, m)
	if err != nil {
		return nil, wrapStage(a.Raw(), "export declarations", err)
	}

	if d.Failed() {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
			Module(a.Raw()).
			Detail("compilation failed with %d error diagnostic(s)", d.Count()).
			Build()
	}

	return &Unit{
		Name:         a.Name(),
		Assembly:     a,
		Info:         info,
		Package:      pkg,
		Declarations: decls,
		Metadata:     inherited.Merge(info),
	}, nil
}

// wrapStage preserves the diagnostic-limit signal while giving other
// collaborator failures a pipeline identity.
func wrapStage(module, stage string, err error) error {
	if goerrors.Is(err, errors.ErrorLimit) {
		return err
	}
	return errors.New(errors.PhaseCompile, errors.KindInvalidData).
		Module(module).
		Detail("%s stage failed", stage).
		Cause(err).
		Build()
}

// CompileAndPersist compiles a module and, on success, writes the
// resulting metadata, script texts and declaration text back into the
// module's container through the store. An empty compiled package
// persists with no script artifacts.
func (c *Compiler) CompileAndPersist(store *assembly.Store, a *assembly.Assembly, inherited *deps.Registry, opts Options) (*Unit, error) {
	unit, err := c.Compile(a, inherited, opts)
	if err != nil {
		return nil, err
	}

	art := assembly.Artifacts{
		Metadata: unit.Info.Encode(),
		RuntimeMetadata: (&deps.RuntimeInfo{
			Name:        unit.Name,
			Fingerprint: a.Fingerprint(),
		}).Encode(),
		Declarations: unit.Declarations,
		HasScript:    !unit.Package.Empty,
	}
	if art.HasScript {
		if art.ReadableScript, err = c.collab.Scripts.Write(unit.Package, true); err != nil {
			return nil, errors.Wrap(errors.PhasePersist, errors.KindEncoding, err, "write readable script")
		}
		if art.CompressedScript, err = c.collab.Scripts.Write(unit.Package, false); err != nil {
			return nil, errors.Wrap(errors.PhasePersist, errors.KindEncoding, err, "write minified script")
		}
	}

	a.WriteArtifacts(art)
	if err := store.Save(a); err != nil {
		return nil, err
	}

	Logger().Info("module compiled and persisted",
		zap.String("module", a.Raw()),
		zap.Bool("has_script", art.HasScript),
		zap.Int("requires", len(unit.Info.Requires)))
	return unit, nil
}
