package keyvalue

// Reply message types.
const (
	TypeQueued  = ">"
	TypeInfo    = "i"
	TypeWarning = "w"
	TypeDone    = ":"
	TypeFailed  = "f"
	TypeFatal   = "!"
)

// IsDone reports whether t ends a command.
func IsDone(t string) bool {
	return t == TypeDone || IsFailure(t)
}

func IsFailure(t string) bool {
	return t == TypeFailed || t == TypeFatal
}

func TypeName(t string) string {
	switch t {
	case TypeQueued:
		return "queued"
	case TypeInfo:
		return "info"
	case TypeWarning:
		return "warning"
	case TypeDone:
		return "done"
	case TypeFailed:
		return "failed"
	case TypeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}
