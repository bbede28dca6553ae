package keyvalue

// ScanKeyword reads the keyword starting at start (after optional whitespace).
//
// next is the index of the '=' or ';' that follows the keyword, or len(msg) if
// the keyword ends the message.
func ScanKeyword(msg string, start int) (name string, next int, err error) {
	if start < 0 || start > len(msg) {
		return "", 0, syntaxErrorf(msg, start, "keyword start index out of range")
	}
	i := skipSpace(msg, start)
	if i >= len(msg) || !identStart.has(msg[i]) {
		return "", 0, syntaxErrorf(msg, i, "expected keyword")
	}
	j := i + 1
	for j < len(msg) && identRest.has(msg[j]) {
		j++
	}
	name = msg[i:j]

	k := skipSpace(msg, j)
	switch {
	case k == len(msg):
		return name, len(msg), nil
	case msg[k] == '=' || msg[k] == ';':
		return name, k, nil
	default:
		return "", 0, syntaxErrorf(msg, k, "unexpected %q after keyword %q", msg[k], name)
	}
}
