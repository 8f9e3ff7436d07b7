// Package assembly is the module store: it loads compiled module
// containers from files or byte buffers, pairs them with debug symbols,
// resolves module references across search locations, and reads and writes
// the embedded compiler artifacts.
//
// An Assembly owns its container exclusively. Text artifacts are validated
// at load time (strict UTF-8, no byte order mark) so that a malformed
// artifact fails the load of that module only; the byte-to-string decode
// itself is lazy and memoized, write-once and idempotent.
//
// Symbol attachment degrades rather than fails: when a sibling symbol file
// does not match the module, LoadFile logs a warning and retries the load
// with no symbols attached. The module still loads; debug fidelity is lost.
package assembly
