// Package compiler orchestrates single-module compilation.
//
// The pipeline itself owns no language semantics. Reflection, package
// resolution, validation, analysis, declaration export and script writing
// are all external collaborators supplied by the host; the pipeline
// sequences them, threads a bounded diagnostics sink through every stage,
// merges inherited and local dependency metadata, and packages the result
// as an immutable compiled unit. A compile invocation either yields a unit
// or nothing: there is no partially-populated result.
package compiler
