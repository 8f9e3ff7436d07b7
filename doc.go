// Package wsc is the compiler-and-linker core of a cross-compiler that
// translates compiled modules of a managed host language into web script,
// and packages the result for deployment.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wsc/              Root package with the module identity type
//	├── container/    Binary module container parsing and encoding
//	├── symbols/      Debug symbol side-file readers (portable and classic)
//	├── assembly/     Module store: loading, reference resolution, artifacts
//	├── deps/         Dependency metadata, node model, registry and closure
//	├── res/          Resource rendering protocol and render-result cache
//	├── bundle/       Immutable, lazily rendered multi-mode bundles
//	├── compiler/     Per-module compilation pipeline and persistence
//	├── config/       HCL configuration for search paths and settings
//	└── errors/       Structured error types for diagnostics
//
// # Quick Start
//
// Bundle a module and its transitive references:
//
//	store := assembly.NewStore("lib")
//	b, err := bundle.New(store).WithModule("app.wsm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err = b.WithTransitiveReferences()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.JavaScript().WriteFile("app.js"); err != nil {
//	    log.Fatal(err)
//	}
//
// Compile a single module against already-compiled references:
//
//	inherited := deps.Build(refs)
//	c := compiler.New(collaborators)
//	unit, err := c.Compile(asm, inherited, compiler.Options{})
//
// # Artifact Model
//
// A compiled module is an opaque binary container carrying named embedded
// artifacts: dependency metadata, generated script at two fidelity levels,
// declaration text, and a runtime identity record. The fully-qualified
// module name is the only join key between containers, metadata and
// dependency nodes; nothing is addressed by file path after load.
//
// # Concurrency Model
//
// The core is single-threaded and synchronous. All laziness is memoization
// of pure computations: per-artifact decode caches are write-once and
// idempotent, and each render pass owns its resource cache exclusively.
package wsc
