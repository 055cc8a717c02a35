package transform

import (
	"strconv"
	"strings"
)

// Internal names declared by the wrapper body.
const (
	depsName   = "__deps"
	unwrapName = "__unwrap"

	moduleBindingPrefix = "__m_"
)

// emit synthesizes the output module from a completed capture table: kept
// imports, the exported factory function, then kept named exports.
func emit(t *CaptureTable, cfg Config) []byte {
	var b strings.Builder

	for _, imp := range t.keptImports {
		writeLine(&b, imp)
	}
	if len(t.keptImports) > 0 {
		b.WriteByte('\n')
	}

	b.WriteString("export default function ")
	b.WriteString(cfg.FactoryName)
	b.WriteByte('(')
	b.WriteString(cfg.DepsParam)
	b.WriteString(") {\n")

	writeDepsResolution(&b, cfg)
	writeUnwrapHelper(&b)
	writeInjectedBindings(&b, t)

	// Original body statements, verbatim. Re-indenting would corrupt
	// template literals, so the body keeps its own layout.
	for _, chunk := range t.body {
		b.WriteString(chunk)
	}
	if n := b.Len(); n > 0 && b.String()[n-1] != '\n' {
		b.WriteByte('\n')
	}

	writeReturn(&b, t)
	b.WriteString("}\n")

	for _, exp := range t.keptNamedExports {
		writeLine(&b, exp)
	}

	return []byte(b.String())
}

// writeDepsResolution emits the dual-form argument resolution: the caller may
// pass { <runtimeKey>: map, ...extra } or the map directly.
func writeDepsResolution(b *strings.Builder, cfg Config) {
	p := cfg.DepsParam
	key := strconv.Quote(cfg.RuntimeKey)
	b.WriteString("  const " + depsName + " = (" + p + " && typeof " + p +
		" === \"object\" && " + key + " in " + p + ") ? " + p + "[" + key +
		"] : (" + p + " || {});\n")
}

func writeUnwrapHelper(b *strings.Builder) {
	b.WriteString("  const " + unwrapName +
		" = (m) => (m && typeof m === \"object\" && \"default\" in m) ? m.default : m;\n")
}

// writeInjectedBindings emits, per injected id in first-capture order, the
// module binding followed by its local bindings. Named captures for one id
// collapse into a single destructuring.
func writeInjectedBindings(b *strings.Builder, t *CaptureTable) {
	names := moduleBindingNames(t.injectedOrder)
	for _, id := range t.injectedOrder {
		mod := names[id]
		b.WriteString("  const " + mod + " = " + depsName + "[" + strconv.Quote(id) + "];\n")

		var named []CapturedImport
		for _, c := range t.injected[id] {
			switch c.Kind {
			case CaptureDefault:
				b.WriteString("  const " + c.Local + " = " + unwrapName + "(" + mod + ");\n")
			case CaptureNamespace:
				b.WriteString("  const " + c.Local + " = " + mod + ";\n")
			case CaptureNamed:
				named = append(named, c)
			}
		}
		if len(named) > 0 {
			b.WriteString("  const { ")
			for i, c := range named {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(c.Imported)
				if c.Local != c.Imported {
					b.WriteString(": " + c.Local)
				}
			}
			b.WriteString(" } = " + mod + " || {};\n")
		}
	}
}

func writeReturn(b *strings.Builder, t *CaptureTable) {
	switch {
	case t.defaultExport == nil:
		b.WriteString("  return null;\n")
	case t.defaultExport.mode == AccessViaDefaultProperty:
		b.WriteString("  return " + t.defaultExport.name + ".default;\n")
	default:
		b.WriteString("  return " + t.defaultExport.name + ";\n")
	}
}

// moduleBindingNames maps each injected id to a unique JS identifier derived
// from it, e.g. "lib" -> "__m_lib", "@ui/kit" -> "__m__ui_kit".
func moduleBindingNames(ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	taken := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		name := moduleBindingPrefix + sanitizeID(id)
		base := name
		for n := 2; ; n++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = base + "_" + strconv.Itoa(n)
		}
		taken[name] = struct{}{}
		names[id] = name
	}
	return names
}

func sanitizeID(id string) string {
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			b.WriteByte(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, text string) {
	b.WriteString(text)
	if len(text) == 0 || text[len(text)-1] != '\n' {
		b.WriteByte('\n')
	}
}
