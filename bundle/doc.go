// Package bundle aggregates one or more modules' transitive dependency
// closure into deployable text artifacts.
//
// A Bundle is immutable: WithModule and WithTransitiveReferences return
// new instances and never mutate in place, so a rendered artifact can
// never observe a reference added later. Each of the output modes (style
// sheet, HTML headers, headers re-wrapped as a script-injected
// document.write, readable script, minified script, declaration text) is
// a lazily computed, memoized artifact backed by one shared render
// routine. Mode selection lives entirely in how the rendering context is
// wired; the per-node rendering logic is mode-agnostic.
//
// Script-producing modes append the runtime bootstrap invocation after
// all dependency content; the HTML header mode wraps it in script tags.
package bundle
