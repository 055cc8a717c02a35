package transform

import (
	"bytes"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/timeax/fortiplugin-bundle-adapter/errors"
	"github.com/timeax/fortiplugin-bundle-adapter/inject"
	"github.com/timeax/fortiplugin-bundle-adapter/transform/internal/scan"
)

// Rewrite turns a compiled ES module into a dependency-factory module: kept
// imports stay at the top, the module body moves into an exported factory
// function that resolves injected imports from a runtime-supplied map, and
// surviving named exports are re-emitted after the factory.
//
// Under the skip policy a module without a default export is returned
// byte-identical.
func Rewrite(src []byte, cfg Config) ([]byte, error) {
	return rewrite(src, cfg, "")
}

func rewrite(src []byte, cfg Config, file string) ([]byte, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	stmts, err := scan.Scan(src)
	if err != nil {
		if se, ok := err.(*scan.Error); ok {
			return nil, errors.InvalidSyntax(file, se.Offset, se.Msg)
		}
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidSyntax).
			File(file).Cause(err).Build()
	}

	hasDefault := hasDefaultConstruct(stmts)
	// The skip pre-check only recognizes explicit default constructs; the
	// single-specifier fallback needs the real pass and never triggers a
	// skip decision.
	if !hasDefault && cfg.OnMissingDefault == PolicySkip {
		Logger().Debug("no default export, skipping rewrite",
			zap.String("file", file))
		return src, nil
	}

	// A source that already mentions the factory name gets a suffixed one;
	// nothing addresses the factory by name at runtime.
	cfg.FactoryName = uniqueName(src, cfg.FactoryName)

	matcher := inject.NewMatcher(cfg.Rules)
	t := newCaptureTable()

	for i := range stmts {
		stmt := &stmts[i]
		switch stmt.Kind {
		case scan.KindRaw:
			t.appendBody(stmt.Text(src))

		case scan.KindImport:
			if !matcher.Match(stmt.Source) {
				t.keepImport(stmt.Text(src))
				continue
			}
			// Side-effect-only injected imports vanish: the injected
			// module's execution is not observable by the wrapper.
			for _, spec := range stmt.Specifiers {
				t.capture(stmt.Source, capturedImport(spec))
			}

		case scan.KindExportDefault:
			captureDefault(t, stmt, src)

		case scan.KindExportNamed:
			captureNamedExport(t, stmt, src, cfg, matcher, hasDefault)
		}
	}

	if t.defaultExport == nil && cfg.OnMissingDefault == PolicyThrow {
		return nil, errors.MissingDefault(file)
	}

	out := emit(t, cfg)
	Logger().Debug("rewrote module",
		zap.String("file", file),
		zap.Int("kept_imports", len(t.keptImports)),
		zap.Int("injected_ids", len(t.injectedOrder)),
		zap.Int("kept_named_exports", len(t.keptNamedExports)))
	return out, nil
}

// hasDefaultConstruct reports whether any statement produces a default
// export: an explicit `export default`, or a named or star export with a
// `default` alias, local or re-exported. The single-specifier fallback is
// deliberately excluded; it only applies once every other rule has come up
// empty.
func hasDefaultConstruct(stmts []scan.Statement) bool {
	for i := range stmts {
		stmt := &stmts[i]
		switch stmt.Kind {
		case scan.KindExportDefault:
			return true
		case scan.KindExportNamed:
			if stmt.IsStar {
				if stmt.StarName == "default" {
					return true
				}
				continue
			}
			for _, spec := range stmt.Specifiers {
				if spec.Local == "default" {
					return true
				}
			}
		}
	}
	return false
}

func capturedImport(spec scan.Specifier) CapturedImport {
	switch spec.Kind {
	case scan.SpecDefault:
		return CapturedImport{Kind: CaptureDefault, Local: spec.Local}
	case scan.SpecNamespace:
		return CapturedImport{Kind: CaptureNamespace, Local: spec.Local}
	default:
		return CapturedImport{Kind: CaptureNamed, Imported: spec.Imported, Local: spec.Local}
	}
}

// captureDefault records the default binding and moves the exported construct
// into the factory body as a plain declaration.
func captureDefault(t *CaptureTable, stmt *scan.Statement, src []byte) {
	switch stmt.Shape {
	case scan.DefaultIdent:
		t.setDefault(stmt.DefaultName, AccessDirect)

	case scan.DefaultFunc, scan.DefaultClass:
		name := stmt.DefaultName
		inner := stmt.Inner(src)
		if name == "" {
			name = uniqueName(src, "__default_export")
			inner = spliceDeclName(inner, stmt.Shape, name)
		}
		t.appendBody(inner + "\n")
		t.setDefault(name, AccessDirect)

	default: // DefaultExpr
		name := uniqueName(src, "__default_export")
		t.appendBody("const " + name + " = " + stmt.Inner(src) + ";\n")
		t.setDefault(name, AccessDirect)
	}
}

// captureNamedExport handles one named-export statement: declarations are
// kept whole, and specifier lists — local or re-exported — lose their
// `default` alias (and possibly collapse into the minified single-export
// fallback) before being re-emitted. The factory already declares the
// module's default export, so no kept statement may carry one.
func captureNamedExport(t *CaptureTable, stmt *scan.Statement, src []byte, cfg Config, matcher *inject.Matcher, fileHasDefault bool) {
	if stmt.IsStar {
		if stmt.StarName == "default" {
			captureReexportDefault(t, src, stmt.Source, "", matcher)
			return
		}
		t.keepNamedExport(stmt.Text(src))
		return
	}
	if stmt.HasDeclaration {
		t.keepNamedExport(stmt.Text(src))
		return
	}

	if stmt.HasFrom {
		remaining := make([]scan.Specifier, 0, len(stmt.Specifiers))
		for _, spec := range stmt.Specifiers {
			if spec.Local == "default" {
				captureReexportDefault(t, src, stmt.Source, spec.Imported, matcher)
				continue
			}
			remaining = append(remaining, spec)
		}
		switch {
		case len(remaining) == len(stmt.Specifiers):
			t.keepNamedExport(stmt.Text(src))
		case len(remaining) > 0:
			t.keepNamedExport(renderNamedExport(remaining, stmt))
		}
		return
	}

	remaining := make([]scan.Specifier, 0, len(stmt.Specifiers))
	for _, spec := range stmt.Specifiers {
		if spec.Local == "default" {
			t.setDefault(spec.Imported, AccessDirect)
			continue
		}
		remaining = append(remaining, spec)
	}

	// Minified fallback: a lone surviving specifier in a module with no
	// default export anywhere aggregates its exports under .default.
	if cfg.SingleExportFallback && !fileHasDefault &&
		t.defaultExport == nil && len(remaining) == 1 {
		t.setDefault(remaining[0].Imported, AccessViaDefaultProperty)
		remaining = nil
	}

	if len(remaining) > 0 {
		t.keepNamedExport(renderNamedExport(remaining, stmt))
	}
}

// captureReexportDefault binds a `default` alias on a re-export to a local
// name the factory can return: a capture when the source is injected, a kept
// import otherwise. An empty imported name means the namespace form
// (export * as default).
func captureReexportDefault(t *CaptureTable, src []byte, source, imported string, matcher *inject.Matcher) {
	local := uniqueName(src, "__reexport_default")
	switch {
	case matcher.Match(source) && imported == "":
		t.capture(source, CapturedImport{Kind: CaptureNamespace, Local: local})
	case matcher.Match(source):
		t.capture(source, CapturedImport{Kind: CaptureNamed, Imported: imported, Local: local})
	case imported == "":
		t.keepImport("import * as " + local + " from " + strconv.Quote(source) + ";\n")
	default:
		t.keepImport("import { " + imported + " as " + local + " } from " + strconv.Quote(source) + ";\n")
	}
	t.setDefault(local, AccessDirect)
}

func renderNamedExport(specs []scan.Specifier, stmt *scan.Statement) string {
	var b strings.Builder
	b.WriteString("export { ")
	for i, spec := range specs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(spec.Imported)
		if spec.Local != spec.Imported {
			b.WriteString(" as ")
			b.WriteString(spec.Local)
		}
	}
	b.WriteString(" }")
	if stmt.HasFrom {
		b.WriteString(" from ")
		b.WriteString(strconv.Quote(stmt.Source))
	}
	b.WriteString(";\n")
	return b.String()
}

// uniqueName returns base, suffixed until it appears nowhere in src. The
// containment check is conservative; a false positive only costs a suffix.
func uniqueName(src []byte, base string) string {
	name := base
	for n := 1; bytes.Contains(src, []byte(name)); n++ {
		name = base + "$" + strconv.Itoa(n)
	}
	return name
}

// spliceDeclName names an anonymous function or class declaration so the
// factory body can return it by name.
func spliceDeclName(inner string, shape scan.DefaultShape, name string) string {
	if shape == scan.DefaultClass {
		const kw = "class"
		return inner[:len(kw)] + " " + name + inner[len(kw):]
	}
	// Function: the name goes after the keyword and any generator star,
	// just before the parameter list.
	p := strings.IndexByte(inner, '(')
	if p < 0 {
		return inner
	}
	head := inner[p-1]
	if head == ' ' || head == '\t' || head == '*' || head == '\n' {
		return inner[:p] + name + inner[p:]
	}
	return inner[:p] + " " + name + inner[p:]
}
