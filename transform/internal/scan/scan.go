// Package scan splits a compiled ES module into its ordered top-level
// statements. Import and export statements are parsed into structured form;
// every other byte of the file is preserved in raw chunks so the rewriter can
// re-emit it verbatim.
//
// The scanner tracks strings, template literals (including nested ${}
// expressions), comments, and brace depth. Regex literals are skipped with a
// heuristic: a '/' is the start of a regex when the previous significant
// token cannot end an expression.
package scan

import "fmt"

// Kind discriminates top-level statements.
type Kind int

const (
	KindRaw Kind = iota
	KindImport
	KindExportDefault
	KindExportNamed
)

// SpecKind discriminates import/export specifiers.
type SpecKind int

const (
	SpecDefault SpecKind = iota
	SpecNamespace
	SpecNamed
)

// Specifier is one binding of an import or named-export statement.
// For imports, Imported is the exported name on the source module and Local
// the binding introduced here. For named exports, Imported holds the local
// name and Local the exported name.
type Specifier struct {
	Kind     SpecKind
	Imported string
	Local    string
}

// DefaultShape discriminates what follows `export default`.
type DefaultShape int

const (
	DefaultIdent DefaultShape = iota // export default X
	DefaultFunc                      // export default [async] function [name]() {}
	DefaultClass                     // export default class [name] {}
	DefaultExpr                      // export default <any other expression>
)

// Statement is one top-level statement of the module.
type Statement struct {
	Kind  Kind
	Start int // byte offset of the first byte of the statement
	End   int // byte offset just past the statement (includes ; and EOL)

	// Import / export-from statements.
	Source     string
	HasFrom    bool
	Specifiers []Specifier

	// Export default statements.
	Shape       DefaultShape
	DefaultName string // identifier, or declared name ("" when anonymous)
	InnerStart  int    // start of the declaration/expression after `export default`
	InnerEnd    int    // end of the declaration/expression, excluding ; and EOL

	// Named export statements.
	HasDeclaration bool   // export const/let/var/function/class ...
	IsStar         bool   // export * [as name] from "id"
	StarName       string // the star export's alias, "" when absent
}

// Text returns the verbatim statement bytes.
func (s *Statement) Text(src []byte) string {
	return string(src[s.Start:s.End])
}

// Inner returns the declaration or expression bytes of an export-default
// statement.
func (s *Statement) Inner(src []byte) string {
	return string(src[s.InnerStart:s.InnerEnd])
}

// Error reports a scan failure with its byte offset.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

func errAt(offset int, format string, args ...any) error {
	return &Error{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

type scanner struct {
	src []byte
	pos int

	braceDepth   int
	parenDepth   int
	bracketDepth int

	lastSig  byte   // last significant byte, 0 at start of input
	lastWord string // last identifier-like word, "" when lastSig is not a word
}

// Scan parses src into an ordered statement list. Raw chunks cover every byte
// not claimed by an import/export statement, so concatenating Text() of all
// statements reproduces the input.
func Scan(src []byte) ([]Statement, error) {
	s := &scanner{src: src}
	var stmts []Statement
	rawStart := 0

	flushRaw := func(end int) {
		if end > rawStart {
			stmts = append(stmts, Statement{Kind: KindRaw, Start: rawStart, End: end})
		}
	}

	n := len(src)
	for s.pos < n {
		c := src[s.pos]

		switch {
		case isSpace(c):
			s.pos++
			continue
		case c == '/' && s.pos+1 < n && src[s.pos+1] == '/':
			s.pos = skipLineComment(src, s.pos)
			continue
		case c == '/' && s.pos+1 < n && src[s.pos+1] == '*':
			s.pos = skipBlockComment(src, s.pos)
			continue
		case c == '\'' || c == '"':
			end, err := skipString(src, s.pos)
			if err != nil {
				return nil, err
			}
			s.pos = end
			s.setValue()
			continue
		case c == '`':
			end, err := skipTemplate(src, s.pos)
			if err != nil {
				return nil, err
			}
			s.pos = end
			s.setValue()
			continue
		case c == '/':
			if s.regexAllowed() {
				end, err := skipRegex(src, s.pos)
				if err != nil {
					return nil, err
				}
				s.pos = end
				s.setValue()
				continue
			}
			s.setSig('/')
			s.pos++
			continue
		}

		if isIdentStart(c) {
			word, end := readWord(src, s.pos)
			atTopLevel := s.braceDepth == 0 && s.parenDepth == 0 && s.bracketDepth == 0
			// lastSig '.' guards property accesses like a.import.
			if atTopLevel && s.lastSig != '.' && (word == "import" || word == "export") {
				start := s.pos
				var stmt Statement
				var err error
				if word == "import" {
					stmt, err = s.parseImport(start, end)
				} else {
					stmt, err = s.parseExport(start, end)
				}
				if err != nil {
					return nil, err
				}
				if stmt.Kind == KindRaw {
					// Dynamic import or import.meta: plain expression text.
					s.setWord(word)
					s.pos = end
					continue
				}
				flushRaw(start)
				stmts = append(stmts, stmt)
				rawStart = stmt.End
				s.setValue()
				continue
			}
			s.setWord(word)
			s.pos = end
			continue
		}

		switch c {
		case '{':
			s.braceDepth++
		case '}':
			if s.braceDepth > 0 {
				s.braceDepth--
			}
		case '(':
			s.parenDepth++
		case ')':
			if s.parenDepth > 0 {
				s.parenDepth--
			}
		case '[':
			s.bracketDepth++
		case ']':
			if s.bracketDepth > 0 {
				s.bracketDepth--
			}
		}
		s.setSig(c)
		s.pos++
	}

	flushRaw(n)
	return stmts, nil
}

func (s *scanner) setSig(c byte) {
	s.lastSig = c
	s.lastWord = ""
}

func (s *scanner) setValue() {
	// Strings, regexes, and recognized statements terminate an expression.
	s.lastSig = ')'
	s.lastWord = ""
}

func (s *scanner) setWord(w string) {
	s.lastSig = 'w'
	s.lastWord = w
}

// regexAllowed reports whether a '/' at the current position starts a regex
// literal rather than a division operator.
func (s *scanner) regexAllowed() bool {
	if s.lastWord != "" {
		switch s.lastWord {
		case "return", "typeof", "instanceof", "in", "of", "new", "delete",
			"void", "case", "do", "else", "yield", "await":
			return true
		}
		return false
	}
	switch s.lastSig {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', '}', ';',
		'+', '-', '*', '/', '%', '<', '>', '~', '^':
		return true
	}
	return false
}
