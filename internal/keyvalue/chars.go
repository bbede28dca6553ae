package keyvalue

// WordChars is the punctuation allowed in an unquoted value, in addition to
// ASCII letters and digits.
const WordChars = ".-_+~!@#$%^&*()[]{}|<>:?/"

// StructuralChars can never appear in an unquoted value.
const StructuralChars = ",;='\"\\"

// Done is the index returned when the input is exhausted.
const Done = -1

type charClass [256]bool

func newCharClass(sets ...string) charClass {
	var c charClass
	for _, s := range sets {
		for i := 0; i < len(s); i++ {
			c[s[i]] = true
		}
	}
	return c
}

func (c *charClass) has(b byte) bool { return c[b] }

var (
	alnum      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	identStart = newCharClass("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_")
	identRest  = newCharClass(alnum, "_")
	structural = newCharClass(StructuralChars)
	wordClass  = newCharClass(alnum, WordChars)
)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isQuote(b byte) bool { return b == '"' || b == '\'' }

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
