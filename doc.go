// Package bundleadapter lets independently built UI plugin bundles run inside
// a host application while sharing one instance of the host's rendering
// library and component libraries, instead of each bundle shipping its own
// copies.
//
// The library has two halves. At build time, a source-to-source transform
// rewrites a compiled ES module into a dependency factory: a single exported
// function that accepts a runtime-supplied map of modules and returns the
// plugin's default export, with every "injected" import resolved from that map
// rather than statically bundled. At run time, a resolver loads such a factory
// module, supplies the concrete dependency map, detects whether the export is
// a factory or a plain component, and produces a render function with
// host-priority prop merging.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	bundleadapter/       Root package with the shared value model (Element, Props)
//	├── inject/          Import classifier: which import ids are host-injected
//	├── transform/       Build-time rewrite of ES modules into factory modules
//	├── bundler/         Glue for the surrounding bundler: externals + batch rewrite
//	├── resolver/        Runtime dependency injection, composition, embedding
//	├── errors/          Structured error types for debugging
//	└── cmd/rewrite/     CLI driver with an interactive preview mode
//
// # Quick Start
//
// Rewrite an emitted plugin chunk:
//
//	out, err := transform.Rewrite(src, transform.Config{
//	    Rules: inject.Rules{IDs: []string{"react"}, Prefixes: []string{"@ui/"}},
//	})
//
// Resolve a plugin at run time:
//
//	c := resolver.New(resolver.Config{
//	    Env: resolver.Environment{
//	        RenderingLibrary: hostReact,
//	        ElementFactory:   hostJSXRuntime,
//	    },
//	    Loader: loader,
//	})
//	handle, err := c.Resolve(ctx, "plugins/chart.js")
//	el := handle.Render(bundleadapter.Props{"width": 400})
//
// # Thread Safety
//
// Composers and environments are immutable snapshots; With() derives new ones
// and never mutates a parent. A transform run owns all of its state, so files
// may be rewritten concurrently. Embedding instances are safe for concurrent
// use; the render handle they hold is replaced atomically.
package bundleadapter
