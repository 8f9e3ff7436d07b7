// Package deps models the cross-module dependency graph.
//
// A Node identifies something that can be depended upon, today a compiled
// module in compiled-assembly mode; the tagged encoding leaves room for
// future node kinds. An Info record is one module's declaration of the
// nodes it requires plus the web resources it serves, persisted as the
// dependency metadata artifact.
//
// A Registry merges the metadata of an ordered module set into one logical
// view. Deduplication is by raw module name and the FIRST occurrence in
// input order wins; later duplicates are dropped silently. Whether that is
// intentional nearest-reference shadowing or an inherited quirk is not
// determinable from observed behavior; the policy is preserved, not
// generalized, and callers must pass a deterministic, meaningful order.
//
// Closure computes the transitive dependency closure of a root node set in
// a deterministic order that callers rely on for emission: every node's
// declared prerequisites appear before the node itself, roots are
// processed in the order given, and cycles are rejected with a CycleError
// rather than broken silently.
package deps
