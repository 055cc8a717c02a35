package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse     Phase = "parse"     // source module scanning
	PhaseTransform Phase = "transform" // capture and rewrite decisions
	PhaseEmit      Phase = "emit"      // wrapper synthesis and output
	PhaseBundle    Phase = "bundle"    // batch rewrite of emitted chunks
	PhaseResolve   Phase = "resolve"   // runtime plugin resolution
	PhaseFetch     Phase = "fetch"     // host URL module fetching
	PhaseRender    Phase = "render"    // render-time element production
)

// Kind categorizes the error
type Kind string

const (
	KindConfiguration     Kind = "configuration"
	KindInvalidSyntax     Kind = "invalid_syntax"
	KindMissingDefault    Kind = "missing_default"
	KindExportNotFound    Kind = "export_not_found"
	KindDependencyFetch   Kind = "dependency_fetch"
	KindFactoryInvocation Kind = "factory_invocation"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindIO                Kind = "io"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	File   string // source file or plugin file reference
	Import string // offending import id, when relevant
	Export string // offending export name, when relevant
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}
	if e.Import != "" {
		b.WriteString(" import ")
		b.WriteString(strconvQuote(e.Import))
	}
	if e.Export != "" {
		b.WriteString(" export ")
		b.WriteString(strconvQuote(e.Export))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func strconvQuote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// File sets the source file or plugin reference
func (b *Builder) File(ref string) *Builder {
	b.err.File = ref
	return b
}

// Import sets the offending import id
func (b *Builder) Import(id string) *Builder {
	b.err.Import = id
	return b
}

// Export sets the offending export name
func (b *Builder) Export(name string) *Builder {
	b.err.Export = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Configuration creates a configuration error for an unresolvable file shape
func Configuration(file, detail string) *Error {
	return &Error{
		Phase:  PhaseTransform,
		Kind:   KindConfiguration,
		File:   file,
		Detail: detail,
	}
}

// MissingDefault is returned under the "throw" policy when a file has no
// default-export-producing construct
func MissingDefault(file string) *Error {
	return &Error{
		Phase:  PhaseTransform,
		Kind:   KindMissingDefault,
		File:   file,
		Detail: "module has no default export and no re-export as default",
	}
}

// InvalidSyntax creates a parse error attributable to a source file
func InvalidSyntax(file string, offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidSyntax,
		File:   file,
		Detail: fmt.Sprintf("offset %d: %s", offset, detail),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// IO wraps a file IO failure with its location
func IO(phase Phase, file string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		File:  file,
		Cause: cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ExportNotFoundError is returned when a loaded plugin module does not carry
// the requested export. Available lists the export names the module does
// carry, for diagnosis.
type ExportNotFoundError struct {
	FileRef   string
	Export    string
	Available []string
}

// ExportNotFound creates an ExportNotFoundError with a sorted export listing
func ExportNotFound(fileRef, export string, available []string) *ExportNotFoundError {
	names := make([]string, len(available))
	copy(names, available)
	sort.Strings(names)
	return &ExportNotFoundError{
		FileRef:   fileRef,
		Export:    export,
		Available: names,
	}
}

func (e *ExportNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[resolve] export %q not found in %s", e.Export, e.FileRef)
	if len(e.Available) == 0 {
		b.WriteString(" (module has no named exports)")
		return b.String()
	}
	b.WriteString("; available exports:")
	for _, name := range e.Available {
		b.WriteString("\n  - ")
		b.WriteString(name)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *ExportNotFoundError) Is(target error) bool {
	_, ok := target.(*ExportNotFoundError)
	return ok
}

// DependencyFetchError is returned when a host URL module cannot be fetched
type DependencyFetchError struct {
	ID    string
	URL   string
	Cause error
}

// DependencyFetch creates a DependencyFetchError
func DependencyFetch(id, url string, cause error) *DependencyFetchError {
	return &DependencyFetchError{ID: id, URL: url, Cause: cause}
}

func (e *DependencyFetchError) Error() string {
	return fmt.Sprintf("[fetch] dependency %q from %s: %v", e.ID, e.URL, e.Cause)
}

func (e *DependencyFetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type
func (e *DependencyFetchError) Is(target error) bool {
	_, ok := target.(*DependencyFetchError)
	return ok
}

// FactoryInvocationError is returned when a forced factory call fails or does
// not yield a component export
type FactoryInvocationError struct {
	FileRef string
	Export  string
	Cause   error
	Detail  string
}

// FactoryInvocation creates a FactoryInvocationError
func FactoryInvocation(fileRef, export string, cause error, detail string) *FactoryInvocationError {
	return &FactoryInvocationError{FileRef: fileRef, Export: export, Cause: cause, Detail: detail}
}

func (e *FactoryInvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[resolve] factory_invocation calling export %q of %s", e.Export, e.FileRef)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *FactoryInvocationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type
func (e *FactoryInvocationError) Is(target error) bool {
	_, ok := target.(*FactoryInvocationError)
	return ok
}
