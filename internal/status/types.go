package status

// Data is the template model for the status page.
type Data struct {
	Tagline    string
	Version    string
	RunID      string
	ServerTime string

	Lines       int64
	Parsed      int64
	Failed      int64
	Diagnostics int64

	Actors          int
	KeyVars         int
	PendingCommands int

	// Message is appended after the counters; the feed fills it with the last parse error.
	Message string
}
