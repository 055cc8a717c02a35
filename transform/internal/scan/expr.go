package scan

// lexCursor tracks lexical state for sub-scans inside one statement:
// bracket depths plus the last significant token, which drives both the
// regex-vs-division decision and newline termination.
type lexCursor struct {
	src      []byte
	pos      int
	paren    int
	brace    int
	bracket  int
	lastSig  byte
	lastWord string
}

func (c *lexCursor) depthZero() bool {
	return c.paren == 0 && c.brace == 0 && c.bracket == 0
}

func (c *lexCursor) setSig(b byte) {
	c.lastSig = b
	c.lastWord = ""
}

func (c *lexCursor) setValue() {
	c.lastSig = ')'
	c.lastWord = ""
}

func (c *lexCursor) setWord(w string) {
	c.lastSig = 'w'
	c.lastWord = w
}

func (c *lexCursor) regexAllowed() bool {
	if c.lastWord != "" {
		return isOperatorKeyword(c.lastWord)
	}
	switch c.lastSig {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', '}', ';',
		'+', '-', '*', '/', '%', '<', '>', '~', '^':
		return true
	}
	return false
}

// complete reports whether the expression may legally end at the current
// position, for newline termination purposes.
func (c *lexCursor) complete() bool {
	if c.lastWord != "" {
		return !isOperatorKeyword(c.lastWord)
	}
	switch c.lastSig {
	case 0, '+', '-', '*', '/', '%', '=', '<', '>', '&', '|', '^', '!',
		'?', ':', ',', '.', '(', '[', '{', '~':
		return false
	}
	return true
}

func isOperatorKeyword(w string) bool {
	switch w {
	case "return", "typeof", "instanceof", "in", "of", "new", "delete",
		"void", "case", "do", "else", "yield", "await":
		return true
	}
	return false
}

// step consumes one lexical unit at c.pos: whitespace, a comment, a string,
// a template, a regex, a word, or a single byte (updating depths). It
// returns the consumed byte class: 0 for skipped trivia, 'w' for a word,
// or the literal byte.
func (c *lexCursor) step() (byte, error) {
	src := c.src
	n := len(src)
	b := src[c.pos]

	switch {
	case isSpace(b):
		c.pos++
		return 0, nil
	case b == '/' && c.pos+1 < n && src[c.pos+1] == '/':
		c.pos = skipLineComment(src, c.pos)
		return 0, nil
	case b == '/' && c.pos+1 < n && src[c.pos+1] == '*':
		c.pos = skipBlockComment(src, c.pos)
		return 0, nil
	case b == '\'' || b == '"':
		end, err := skipString(src, c.pos)
		if err != nil {
			return 0, err
		}
		c.pos = end
		c.setValue()
		return 0, nil
	case b == '`':
		end, err := skipTemplate(src, c.pos)
		if err != nil {
			return 0, err
		}
		c.pos = end
		c.setValue()
		return 0, nil
	case b == '/':
		if c.regexAllowed() {
			end, err := skipRegex(src, c.pos)
			if err != nil {
				return 0, err
			}
			c.pos = end
			c.setValue()
			return 0, nil
		}
		c.setSig('/')
		c.pos++
		return '/', nil
	case isIdentStart(b):
		w, end := readWord(src, c.pos)
		c.setWord(w)
		c.pos = end
		return 'w', nil
	}

	switch b {
	case '(':
		c.paren++
	case ')':
		if c.paren > 0 {
			c.paren--
		}
	case '[':
		c.bracket++
	case ']':
		if c.bracket > 0 {
			c.bracket--
		}
	case '{':
		c.brace++
	case '}':
		if c.brace > 0 {
			c.brace--
		}
	}
	c.setSig(b)
	c.pos++
	return b, nil
}

// scanExprEnd consumes an expression (or declaration initializer list)
// starting at i and returns the offset of its terminator: a top-level ';',
// a newline where the expression is complete, or end of input.
func scanExprEnd(src []byte, i int) (int, error) {
	c := &lexCursor{src: src, pos: i}
	n := len(src)
	for c.pos < n {
		b := src[c.pos]
		if b == '\n' && c.depthZero() && c.complete() {
			return c.pos, nil
		}
		if b == ';' && c.depthZero() {
			return c.pos, nil
		}
		if _, err := c.step(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// scanBodyEnd consumes a function or class declaration starting at or after
// i and returns the offset just past the closing '}' of its body. Parameter
// lists and heritage clauses are crossed first; the body is the first brace
// block opened at depth zero.
func scanBodyEnd(src []byte, i int) (int, error) {
	c := &lexCursor{src: src, pos: i}
	n := len(src)
	seenBody := false
	for c.pos < n {
		wasZero := c.depthZero()
		b, err := c.step()
		if err != nil {
			return 0, err
		}
		switch b {
		case '{':
			if wasZero {
				seenBody = true
			}
		case '}':
			if seenBody && c.depthZero() {
				return c.pos, nil
			}
		}
	}
	return 0, errAt(i, "unterminated declaration body")
}
