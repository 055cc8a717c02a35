// Package errors provides structured error types for the bundle-adapter library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the source file or plugin
// reference, the offending import id or export name, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTransform, errors.KindConfiguration).
//		File("dist/chart.js").
//		Detail("no default export found").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ExportNotFound("plugins/chart.js", "default", available)
//	err := errors.DependencyFetch("@ui/forms", url, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
