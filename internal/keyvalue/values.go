package keyvalue

// ScanValues reads the value list that follows a keyword.
//
// start is the index returned by ScanKeyword: an '=' or ';', len(msg) for a
// keyword that ends the message, or Done. next is the index of the following
// keyword, or Done when the message is exhausted.
func (p *Parser) ScanValues(msg string, start int) (values []string, next int, diags []Diagnostic, err error) {
	if start == Done || start == len(msg) {
		return nil, Done, nil, nil
	}
	if start < 0 || start > len(msg) {
		return nil, 0, nil, syntaxErrorf(msg, start, "value start index out of range")
	}

	switch msg[start] {
	case ';':
		return nil, afterSemicolon(msg, start), nil, nil
	case '=':
	default:
		return nil, 0, nil, syntaxErrorf(msg, start, "expected '=' or ';', got %q", msg[start])
	}

	i := skipSpace(msg, start+1)
	if i == len(msg) {
		return nil, Done, nil, nil
	}
	if msg[i] == ';' {
		return nil, afterSemicolon(msg, i), nil, nil
	}

	values = []string{}
	for {
		var (
			val  string
			term int
		)
		if isQuote(msg[i]) {
			var sdiags []Diagnostic
			val, term, sdiags, err = ScanString(msg, i)
			if err != nil {
				return nil, 0, nil, err
			}
			diags = append(diags, sdiags...)
			values = append(values, val)
			if term == Done {
				return values, Done, diags, nil
			}
		} else {
			j := i
			for j < len(msg) && p.word.has(msg[j]) {
				j++
			}
			term = skipSpace(msg, j)
			if j == i {
				if term < len(msg) && (msg[term] == ',' || msg[term] == ';') {
					diags = append(diags, Diagnostic{
						Kind: DiagEmptyValue,
						Pos:  i,
						Msg:  "blank value; ignoring the rest of the message",
					})
					return values, Done, diags, nil
				}
				return nil, 0, nil, syntaxErrorf(msg, i, "invalid character %q in value", msg[i])
			}
			values = append(values, msg[i:j])
			if term == len(msg) {
				return values, Done, diags, nil
			}
			if c := msg[term]; c != ',' && c != ';' {
				return nil, 0, nil, syntaxErrorf(msg, term, "unexpected %q after value %q", c, msg[i:j])
			}
		}

		if msg[term] == ';' {
			return values, afterSemicolon(msg, term), diags, nil
		}
		i = skipSpace(msg, term+1)
		if i == len(msg) {
			diags = append(diags, Diagnostic{
				Kind: DiagTrailingSeparator,
				Pos:  term,
				Msg:  "ignoring trailing separator",
			})
			return values, Done, diags, nil
		}
	}
}

func afterSemicolon(msg string, semi int) int {
	i := skipSpace(msg, semi+1)
	if i == len(msg) {
		return Done
	}
	return i
}
