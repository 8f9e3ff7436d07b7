// Package container reads and writes the binary module container format.
//
// A container starts with a magic number and format version, followed by
// sections identified by a one-byte id and a LEB128 size prefix. Structural
// sections (identity, references, code) appear at most once and in canonical
// order; resource sections carry named blobs and may appear anywhere, any
// number of times. The resource table is the persistence surface for
// compiler artifacts: the assembly package addresses it through a closed
// artifact-kind enumeration, never by raw resource name.
//
// Encode emits structural sections in canonical order followed by the
// resource table in table order, so every resource blob survives a
// parse/encode cycle byte-for-byte.
package container
