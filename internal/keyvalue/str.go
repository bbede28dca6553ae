package keyvalue

import "strings"

// stringState is the state of the quoted-string scanner.
//
//	scanning          --'\\'-->      backslashPending
//	scanning          --quote-->     tentativelyClosed
//	backslashPending  --'\\'-->      scanning  (emits '\')
//	backslashPending  --quote-->     scanning  (emits quote)
//	backslashPending  --other-->     scanning  (emits '\' + other)
//	tentativelyClosed --quote-->     scanning  (only directly after the close; emits quote)
//	tentativelyClosed --space-->     tentativelyClosed
//	tentativelyClosed --',' ';'-->   done
//	tentativelyClosed --other-->     scanning  (false close; the quote and spaces are literal)
type stringState int

const (
	scanning stringState = iota
	backslashPending
	tentativelyClosed
)

func (s stringState) String() string {
	switch s {
	case scanning:
		return "scanning"
	case backslashPending:
		return "backslash-pending"
	case tentativelyClosed:
		return "tentatively-closed"
	default:
		return "invalid"
	}
}

// ScanString reads a quoted string. msg[start] must be ' or ".
//
// Inside the string, \\ is a backslash, \<quote> is a quote and a doubled
// quote is a quote. The string ends at a closing quote followed (after
// optional whitespace) by ',' or ';' or end of input. next is the index of
// that ',' or ';', or Done.
//
// A string with no closing quote is returned up to end of input with a
// DiagMissingDelimiter diagnostic.
func ScanString(msg string, start int) (value string, next int, diags []Diagnostic, err error) {
	if start < 0 || start >= len(msg) || !isQuote(msg[start]) {
		return "", 0, nil, syntaxErrorf(msg, start, "expected opening quote")
	}
	quote := msg[start]

	var b strings.Builder
	state := scanning
	closeAt := -1

	for i := start + 1; i < len(msg); i++ {
		c := msg[i]
		switch state {
		case backslashPending:
			switch c {
			case '\\', quote:
				b.WriteByte(c)
			default:
				b.WriteByte('\\')
				b.WriteByte(c)
			}
			state = scanning
			continue

		case tentativelyClosed:
			switch {
			case c == quote && i == closeAt+1:
				b.WriteByte(quote)
				closeAt = -1
				state = scanning
				continue
			case isSpace(c):
				continue
			case c == ',' || c == ';':
				return b.String(), i, diags, nil
			}
			diags = append(diags, Diagnostic{
				Kind: DiagFalseClose,
				Pos:  i,
				Msg:  "closing quote not followed by a separator; string continues",
			})
			b.WriteString(msg[closeAt:i])
			closeAt = -1
			state = scanning
		}

		// scanning
		switch c {
		case '\\':
			state = backslashPending
		case quote:
			closeAt = i
			state = tentativelyClosed
		default:
			b.WriteByte(c)
		}
	}

	switch state {
	case tentativelyClosed:
		return b.String(), Done, diags, nil
	case backslashPending:
		b.WriteByte('\\')
	}
	diags = append(diags, Diagnostic{
		Kind: DiagMissingDelimiter,
		Pos:  len(msg),
		Msg:  "missing final delimiter " + string(quote),
	})
	return b.String(), Done, diags, nil
}
