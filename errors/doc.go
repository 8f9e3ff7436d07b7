// Package errors provides structured error types for the compiler core.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the offending module and
// artifact names plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindArtifactDecode).
//		Module("App.Main").
//		Artifact("WebSharper.js").
//		Detail("invalid UTF-8 at byte 17").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedModule("App.Main", cause)
//	err := errors.UnresolvedReference("App.Util")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two kinds have special propagation rules: symbol_mismatch is recoverable
// (the store retries a load without symbols) and unresolved_reference is
// non-fatal (the reference is excluded from the dependency edge set).
package errors
