package keyvalue

// Parser holds the grammar tables. It is immutable after NewParser and safe
// for concurrent use.
type Parser struct {
	word charClass
}

// NewParser returns a parser whose unquoted values may additionally contain
// the ASCII characters in extraWordChars. Structural characters, whitespace
// and non-ASCII bytes in extraWordChars are ignored.
func NewParser(extraWordChars string) *Parser {
	p := &Parser{word: wordClass}
	for i := 0; i < len(extraWordChars); i++ {
		b := extraWordChars[i]
		if b >= 0x80 || structural.has(b) || isSpace(b) {
			continue
		}
		p.word[b] = true
	}
	return p
}

var defaultParser = NewParser("")

// Parse parses a reply body with the default word characters.
func Parse(msg string) (*Result, error) { return defaultParser.Parse(msg) }

// ScanValues scans a value list with the default word characters.
func ScanValues(msg string, start int) ([]string, int, []Diagnostic, error) {
	return defaultParser.ScanValues(msg, start)
}

// Parse parses a full reply body into an ordered Result.
//
// A keyword that appears twice keeps the position of its first occurrence
// and takes the values of its last.
func (p *Parser) Parse(msg string) (*Result, error) {
	res := &Result{}
	if skipSpace(msg, 0) == len(msg) {
		return res, nil
	}
	next := 0
	for next != Done {
		name, valStart, err := ScanKeyword(msg, next)
		if err != nil {
			return nil, err
		}
		var (
			values []string
			diags  []Diagnostic
		)
		values, next, diags, err = p.ScanValues(msg, valStart)
		if err != nil {
			return nil, err
		}
		res.set(name, values)
		res.Diagnostics = append(res.Diagnostics, diags...)
	}
	return res, nil
}
