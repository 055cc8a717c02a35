package scan

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '$' || c == '_' ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		c >= 0x80 // treat non-ASCII as identifier bytes
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// readWord reads the identifier-like word at i. Caller guarantees
// isIdentStart(src[i]).
func readWord(src []byte, i int) (string, int) {
	start := i
	for i < len(src) && isIdentChar(src[i]) {
		i++
	}
	return string(src[start:i]), i
}

func skipLineComment(src []byte, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(src []byte, i int) int {
	i += 2
	for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
		i++
	}
	if i+1 < len(src) {
		return i + 2
	}
	return len(src)
}

// skipString returns the index just past the closing quote of the string
// starting at i.
func skipString(src []byte, i int) (int, error) {
	quote := src[i]
	start := i
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1, nil
		case '\n':
			return 0, errAt(start, "unterminated string literal")
		default:
			i++
		}
	}
	return 0, errAt(start, "unterminated string literal")
}

// skipTemplate returns the index just past the closing backtick, handling
// nested ${} substitutions which may themselves contain strings, templates,
// and comments.
func skipTemplate(src []byte, i int) (int, error) {
	start := i
	i++ // opening backtick
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '`':
			return i + 1, nil
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				end, err := skipTemplateExpr(src, i+2)
				if err != nil {
					return 0, err
				}
				i = end
				continue
			}
			i++
		default:
			i++
		}
	}
	return 0, errAt(start, "unterminated template literal")
}

// skipTemplateExpr consumes a ${...} body starting just past "${", returning
// the index past the matching '}'.
func skipTemplateExpr(src []byte, i int) (int, error) {
	start := i
	depth := 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case c == '\'' || c == '"':
			end, err := skipString(src, i)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '`':
			end, err := skipTemplate(src, i)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			i = skipLineComment(src, i)
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i = skipBlockComment(src, i)
		default:
			i++
		}
	}
	return 0, errAt(start, "unterminated template substitution")
}

// skipRegex returns the index just past the closing '/' and any flags of the
// regex literal starting at i.
func skipRegex(src []byte, i int) (int, error) {
	start := i
	i++ // opening slash
	inClass := false
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '[':
			inClass = true
			i++
		case ']':
			inClass = false
			i++
		case '/':
			if inClass {
				i++
				continue
			}
			i++
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
			return i, nil
		case '\n':
			return 0, errAt(start, "unterminated regex literal")
		default:
			i++
		}
	}
	return 0, errAt(start, "unterminated regex literal")
}

// skipWS skips whitespace and comments, returning the new index.
func skipWS(src []byte, i int) int {
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			i = skipLineComment(src, i)
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			i = skipBlockComment(src, i)
		default:
			return i
		}
	}
	return i
}

// readString reads the string literal at i, returning its unescaped-enough
// value (module specifiers never need escape processing) and the index past
// the closing quote.
func readString(src []byte, i int) (string, int, error) {
	end, err := skipString(src, i)
	if err != nil {
		return "", 0, err
	}
	return string(src[i+1 : end-1]), end, nil
}

// readIdent reads an identifier at i, returning "" when none is present.
func readIdent(src []byte, i int) (string, int) {
	if i >= len(src) || !isIdentStart(src[i]) {
		return "", i
	}
	return readWord(src, i)
}

// hasWordAt reports whether the identifier word w starts at i with a word
// boundary after it.
func hasWordAt(src []byte, i int, w string) bool {
	if i+len(w) > len(src) || string(src[i:i+len(w)]) != w {
		return false
	}
	end := i + len(w)
	return end >= len(src) || !isIdentChar(src[end])
}

// consumeTail consumes an optional trailing semicolon and, when the rest of
// the line is blank, the line terminator, so statement spans swallow their
// own line.
func consumeTail(src []byte, i int) int {
	j := i
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j < len(src) && src[j] == ';' {
		j++
		i = j
	}
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j < len(src) && src[j] == '\r' {
		j++
	}
	if j < len(src) && src[j] == '\n' {
		return j + 1
	}
	return i
}
