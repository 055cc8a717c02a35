package scan

// parseExport parses an export statement whose `export` keyword spans
// [start,kwEnd).
func (s *scanner) parseExport(start, kwEnd int) (Statement, error) {
	src := s.src
	i := skipWS(src, kwEnd)
	if i >= len(src) {
		return Statement{}, errAt(start, "unexpected end of input after export")
	}

	if hasWordAt(src, i, "default") {
		return s.parseExportDefault(start, i+len("default"))
	}

	switch src[i] {
	case '*':
		return s.parseStarExport(start, i)
	case '{':
		return s.parseNamedExport(start, i)
	}

	word, _ := readIdent(src, i)
	switch word {
	case "const", "let", "var":
		end, err := scanExprEnd(src, i)
		if err != nil {
			return Statement{}, err
		}
		stmt := Statement{Kind: KindExportNamed, Start: start, HasDeclaration: true}
		stmt.End = consumeTail(src, end)
		s.pos = stmt.End
		return stmt, nil
	case "function", "class", "async":
		end, err := scanBodyEnd(src, i)
		if err != nil {
			return Statement{}, err
		}
		stmt := Statement{Kind: KindExportNamed, Start: start, HasDeclaration: true}
		stmt.End = consumeTail(src, end)
		s.pos = stmt.End
		return stmt, nil
	}

	return Statement{}, errAt(i, "unsupported export statement")
}

// parseStarExport parses `export * [as name] from "id"` starting at the '*'.
func (s *scanner) parseStarExport(start, i int) (Statement, error) {
	src := s.src
	var alias string
	j := skipWS(src, i+1)
	if hasWordAt(src, j, "as") {
		j = skipWS(src, j+2)
		name, next := readIdent(src, j)
		if name == "" {
			return Statement{}, errAt(j, "expected name after 'as'")
		}
		alias = name
		j = next
	}
	j = skipWS(src, j)
	if !hasWordAt(src, j, "from") {
		return Statement{}, errAt(j, "expected 'from' in star export")
	}
	j = skipWS(src, j+len("from"))
	if j >= len(src) || (src[j] != '"' && src[j] != '\'') {
		return Statement{}, errAt(j, "expected module specifier string")
	}
	source, end, err := readString(src, j)
	if err != nil {
		return Statement{}, err
	}
	stmt := Statement{
		Kind:     KindExportNamed,
		Start:    start,
		IsStar:   true,
		HasFrom:  true,
		Source:   source,
		StarName: alias,
	}
	stmt.End = consumeTail(src, end)
	s.pos = stmt.End
	return stmt, nil
}

// parseNamedExport parses `export { a, b as c } [from "id"]` starting at the
// '{'. Exported specifiers use Imported for the local name and Local for the
// exported alias.
func (s *scanner) parseNamedExport(start, i int) (Statement, error) {
	src := s.src
	specs, next, err := parseNamedImports(src, i)
	if err != nil {
		return Statement{}, err
	}
	stmt := Statement{Kind: KindExportNamed, Start: start, Specifiers: specs}

	end := next
	j := skipWS(src, next)
	if hasWordAt(src, j, "from") {
		j = skipWS(src, j+len("from"))
		if j >= len(src) || (src[j] != '"' && src[j] != '\'') {
			return Statement{}, errAt(j, "expected module specifier string")
		}
		source, strEnd, err := readString(src, j)
		if err != nil {
			return Statement{}, err
		}
		stmt.Source = source
		stmt.HasFrom = true
		end = strEnd
	}

	stmt.End = consumeTail(src, end)
	s.pos = stmt.End
	return stmt, nil
}

// parseExportDefault parses the construct after `export default`, which ends
// at afterKw.
func (s *scanner) parseExportDefault(start, afterKw int) (Statement, error) {
	src := s.src
	i := skipWS(src, afterKw)
	if i >= len(src) {
		return Statement{}, errAt(start, "unexpected end of input after export default")
	}

	if hasWordAt(src, i, "async") {
		j := skipWS(src, i+len("async"))
		if hasWordAt(src, j, "function") {
			return s.finishDefaultDecl(start, i, j+len("function"), DefaultFunc)
		}
	}
	if hasWordAt(src, i, "function") {
		return s.finishDefaultDecl(start, i, i+len("function"), DefaultFunc)
	}
	if hasWordAt(src, i, "class") {
		return s.finishDefaultDecl(start, i, i+len("class"), DefaultClass)
	}

	// A lone identifier immediately followed by a statement terminator.
	if name, j := readIdent(src, i); name != "" {
		k := j
		for k < len(src) && (src[k] == ' ' || src[k] == '\t') {
			k++
		}
		if k >= len(src) || src[k] == ';' || src[k] == '\n' || src[k] == '\r' {
			stmt := Statement{
				Kind:        KindExportDefault,
				Start:       start,
				Shape:       DefaultIdent,
				DefaultName: name,
				InnerStart:  i,
				InnerEnd:    j,
			}
			stmt.End = consumeTail(src, j)
			s.pos = stmt.End
			return stmt, nil
		}
	}

	end, err := scanExprEnd(src, i)
	if err != nil {
		return Statement{}, err
	}
	stmt := Statement{
		Kind:       KindExportDefault,
		Start:      start,
		Shape:      DefaultExpr,
		InnerStart: i,
		InnerEnd:   trimRightWS(src, i, end),
	}
	stmt.End = consumeTail(src, end)
	s.pos = stmt.End
	return stmt, nil
}

// finishDefaultDecl parses a default-exported function or class declaration.
// innerStart is the first byte of the declaration (the `async`, `function`,
// or `class` keyword); afterKw is just past the `function`/`class` keyword.
func (s *scanner) finishDefaultDecl(start, innerStart, afterKw int, shape DefaultShape) (Statement, error) {
	src := s.src
	j := skipWS(src, afterKw)
	if shape == DefaultFunc && j < len(src) && src[j] == '*' {
		j = skipWS(src, j+1) // generator
	}
	name, j2 := readIdent(src, j)
	if shape == DefaultClass && name == "extends" {
		// Anonymous class with a heritage clause.
		name, j2 = "", j
	}

	end, err := scanBodyEnd(src, j2)
	if err != nil {
		return Statement{}, err
	}
	stmt := Statement{
		Kind:        KindExportDefault,
		Start:       start,
		Shape:       shape,
		DefaultName: name,
		InnerStart:  innerStart,
		InnerEnd:    end,
	}
	stmt.End = consumeTail(src, end)
	s.pos = stmt.End
	return stmt, nil
}

func trimRightWS(src []byte, start, end int) int {
	for end > start && isSpace(src[end-1]) {
		end--
	}
	return end
}
