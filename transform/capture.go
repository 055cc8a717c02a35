package transform

// CaptureKind discriminates how an injected import was bound.
type CaptureKind int

const (
	// CaptureDefault captures `import X from "id"`.
	CaptureDefault CaptureKind = iota
	// CaptureNamespace captures `import * as X from "id"`.
	CaptureNamespace
	// CaptureNamed captures one specifier of `import { a as b } from "id"`.
	CaptureNamed
)

// CapturedImport records one binding of an injected import. Multiple captures
// may share a source id; they are merged under that id in first-capture order.
type CapturedImport struct {
	Kind     CaptureKind
	Imported string // source export name, CaptureNamed only
	Local    string // binding introduced in this module
}

// AccessMode says how the factory body reaches the default export value.
type AccessMode int

const (
	// AccessDirect returns the bound name itself.
	AccessDirect AccessMode = iota
	// AccessViaDefaultProperty returns name.default, for the minified shape
	// where a single export aggregates everything under a default property.
	AccessViaDefaultProperty
)

type defaultBinding struct {
	name string
	mode AccessMode
}

// CaptureTable is the per-file record accumulated during one rewrite pass and
// consumed whole by the emitter. One table per Rewrite call, never shared.
type CaptureTable struct {
	keptImports []string

	injectedOrder []string
	injected      map[string][]CapturedImport

	// At most one binding per file; a later default-producing construct
	// overwrites an earlier one.
	defaultExport *defaultBinding

	// Factory body statements in original order: raw chunks verbatim plus
	// the de-exported and hoisted default declarations.
	body []string

	keptNamedExports []string
}

func newCaptureTable() *CaptureTable {
	return &CaptureTable{injected: make(map[string][]CapturedImport)}
}

func (t *CaptureTable) keepImport(text string) {
	t.keptImports = append(t.keptImports, text)
}

func (t *CaptureTable) capture(id string, c CapturedImport) {
	if _, seen := t.injected[id]; !seen {
		t.injectedOrder = append(t.injectedOrder, id)
	}
	t.injected[id] = append(t.injected[id], c)
}

func (t *CaptureTable) setDefault(name string, mode AccessMode) {
	t.defaultExport = &defaultBinding{name: name, mode: mode}
}

func (t *CaptureTable) appendBody(text string) {
	t.body = append(t.body, text)
}

func (t *CaptureTable) keepNamedExport(text string) {
	t.keptNamedExports = append(t.keptNamedExports, text)
}
