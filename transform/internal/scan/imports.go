package scan

// parseImport parses a static import statement whose `import` keyword spans
// [start,kwEnd). Dynamic `import(...)` and `import.meta` yield a KindRaw
// statement so the caller leaves the bytes untouched.
func (s *scanner) parseImport(start, kwEnd int) (Statement, error) {
	src := s.src
	i := skipWS(src, kwEnd)
	if i >= len(src) {
		return Statement{}, errAt(start, "unexpected end of input after import")
	}
	if src[i] == '(' || src[i] == '.' {
		return Statement{Kind: KindRaw}, nil
	}

	stmt := Statement{Kind: KindImport, Start: start}

	// Side-effect-only import: import "mod"
	if src[i] == '"' || src[i] == '\'' {
		source, end, err := readString(src, i)
		if err != nil {
			return Statement{}, err
		}
		stmt.Source = source
		stmt.End = consumeTail(src, end)
		s.pos = stmt.End
		return stmt, nil
	}

	specs, next, err := parseImportClause(src, i)
	if err != nil {
		return Statement{}, err
	}
	stmt.Specifiers = specs

	i = skipWS(src, next)
	if !hasWordAt(src, i, "from") {
		return Statement{}, errAt(i, "expected 'from' in import statement")
	}
	i = skipWS(src, i+len("from"))
	if i >= len(src) || (src[i] != '"' && src[i] != '\'') {
		return Statement{}, errAt(i, "expected module specifier string")
	}
	source, end, err := readString(src, i)
	if err != nil {
		return Statement{}, err
	}
	stmt.Source = source
	stmt.HasFrom = true
	stmt.End = consumeTail(src, end)
	s.pos = stmt.End
	return stmt, nil
}

// parseImportClause parses the binding list between `import` and `from`:
// default, namespace, named, and their comma combinations.
func parseImportClause(src []byte, i int) ([]Specifier, int, error) {
	var specs []Specifier

	switch {
	case src[i] == '*':
		spec, next, err := parseNamespaceSpec(src, i)
		if err != nil {
			return nil, 0, err
		}
		return append(specs, spec), next, nil

	case src[i] == '{':
		return parseNamedImports(src, i)
	}

	// Default binding first.
	name, next := readIdent(src, i)
	if name == "" {
		return nil, 0, errAt(i, "expected import binding")
	}
	specs = append(specs, Specifier{Kind: SpecDefault, Imported: "default", Local: name})
	i = skipWS(src, next)

	if i < len(src) && src[i] == ',' {
		i = skipWS(src, i+1)
		switch {
		case i < len(src) && src[i] == '*':
			spec, next, err := parseNamespaceSpec(src, i)
			if err != nil {
				return nil, 0, err
			}
			return append(specs, spec), next, nil
		case i < len(src) && src[i] == '{':
			named, next, err := parseNamedImports(src, i)
			if err != nil {
				return nil, 0, err
			}
			return append(specs, named...), next, nil
		default:
			return nil, 0, errAt(i, "expected named or namespace bindings after ','")
		}
	}

	return specs, i, nil
}

// parseNamespaceSpec parses `* as Name` starting at the '*'.
func parseNamespaceSpec(src []byte, i int) (Specifier, int, error) {
	i = skipWS(src, i+1)
	if !hasWordAt(src, i, "as") {
		return Specifier{}, 0, errAt(i, "expected 'as' after '*'")
	}
	i = skipWS(src, i+2)
	name, next := readIdent(src, i)
	if name == "" {
		return Specifier{}, 0, errAt(i, "expected namespace binding name")
	}
	return Specifier{Kind: SpecNamespace, Local: name}, next, nil
}

// parseNamedImports parses `{ a, b as c, "s" as d }` starting at the '{'.
func parseNamedImports(src []byte, i int) ([]Specifier, int, error) {
	var specs []Specifier
	i++ // '{'
	for {
		i = skipWS(src, i)
		if i >= len(src) {
			return nil, 0, errAt(i, "unterminated named import list")
		}
		if src[i] == '}' {
			return specs, i + 1, nil
		}

		var imported string
		var err error
		if src[i] == '"' || src[i] == '\'' {
			imported, i, err = readString(src, i)
			if err != nil {
				return nil, 0, err
			}
		} else {
			imported, i = readIdent(src, i)
			if imported == "" {
				return nil, 0, errAt(i, "expected import name")
			}
		}

		local := imported
		j := skipWS(src, i)
		if hasWordAt(src, j, "as") {
			j = skipWS(src, j+2)
			local, j = readIdent(src, j)
			if local == "" {
				return nil, 0, errAt(j, "expected local binding after 'as'")
			}
		}
		specs = append(specs, Specifier{Kind: SpecNamed, Imported: imported, Local: local})

		i = skipWS(src, j)
		if i < len(src) && src[i] == ',' {
			i++
		}
	}
}
