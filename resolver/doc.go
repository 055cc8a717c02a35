// Package resolver is the runtime half of the adapter. It loads factory
// modules produced by the build-time transform, supplies them with a concrete
// dependency map (rendering library, element factory, host component
// libraries), detects whether the loaded export is a factory or a plain
// component, and produces render handles with host-priority prop merging.
//
// Hosts compose layered default configurations with Composer.With and bind
// them to UI surfaces through the Embedding primitive.
package resolver
