// Package transform rewrites compiled ES modules into dependency-factory
// modules. The rewrite removes host-injected imports from the module, moves
// the body into an exported factory function, and resolves the removed
// bindings from a dependency map the factory receives at call time. Imports
// that are not injected, and named exports that survive the pass, are kept at
// module level around the factory.
//
// The pass is single-threaded per file and keeps all bookkeeping in a
// per-call CaptureTable, so callers may rewrite many files concurrently.
package transform
