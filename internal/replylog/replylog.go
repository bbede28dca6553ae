// Package replylog writes one NDJSON record per reply line handled.
package replylog

import (
	"bufio"
	"os"
	"sync"

	"github.com/goccy/go-json"
)

type Keyword struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Record struct {
	RunID       string    `json:"run_id"`
	Timestamp   string    `json:"ts"`
	Type        string    `json:"type"`
	Cmdr        string    `json:"cmdr,omitempty"`
	CmdID       int       `json:"cmd_id,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	MsgType     string    `json:"msg_type,omitempty"`
	Keywords    []Keyword `json:"keywords,omitempty"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
	Error       string    `json:"error,omitempty"`
	Message     string    `json:"message,omitempty"`
}

type Logger struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

func New(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{
		f: f,
		w: bufio.NewWriterSize(f, 256*1024),
	}, nil
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w != nil {
		_ = l.w.Flush()
		l.w = nil
	}
	if l.f != nil {
		err := l.f.Close()
		l.f = nil
		return err
	}
	return nil
}

// Log appends rec. Errors are dropped; telemetry never blocks the feed.
func (l *Logger) Log(rec Record) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_, _ = l.w.Write(append(line, '\n'))
	_ = l.w.Flush()
}
