package keyvalue

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("keyvalue: syntax error")

// SyntaxError reports input that cannot be parsed. Pos is a byte offset into Input.
type SyntaxError struct {
	Pos   int
	Msg   string
	Input string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("keyvalue: syntax error at %d: %s in %q", e.Pos, e.Msg, e.Input)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

func syntaxErrorf(input string, pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...), Input: input}
}

type DiagKind int

const (
	// DiagMissingDelimiter: a quoted string ran to end of input without its closing quote.
	DiagMissingDelimiter DiagKind = iota + 1
	// DiagFalseClose: a closing quote was followed by something other than , or ;
	// so the string was treated as still open.
	DiagFalseClose
	// DiagTrailingSeparator: a value list ended with a comma.
	DiagTrailingSeparator
	// DiagEmptyValue: a value slot was blank; value collection for the line stopped there.
	DiagEmptyValue
)

func (k DiagKind) String() string {
	switch k {
	case DiagMissingDelimiter:
		return "missing-delimiter"
	case DiagFalseClose:
		return "false-close"
	case DiagTrailingSeparator:
		return "trailing-separator"
	case DiagEmptyValue:
		return "empty-value"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal note about lenient handling of malformed input.
type Diagnostic struct {
	Kind DiagKind
	Pos  int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %d: %s", d.Kind, d.Pos, d.Msg)
}
