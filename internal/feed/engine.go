package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hubmsg/internal/config"
	"hubmsg/internal/dispatch"
	"hubmsg/internal/keyvalue"
	"hubmsg/internal/replylog"
	"hubmsg/internal/state"
)

// ErrBlankLine is returned by HandleLine for lines with nothing to parse.
var ErrBlankLine = errors.New("blank line")

const (
	actorSweepEvery = time.Minute
	maxLineBytes    = 1 << 20
)

type Engine struct {
	cfg   config.Config
	runID string

	parser  *keyvalue.Parser
	log     *replylog.Logger
	disp    *dispatch.Dispatcher
	keyVars *state.KeyVarStore
	actors  *state.ActorStore

	lines       atomic.Int64
	parsed      atomic.Int64
	failed      atomic.Int64
	diagnostics atomic.Int64

	mu      sync.Mutex
	lastErr string
}

type Stats struct {
	Lines       int64
	Parsed      int64
	Failed      int64
	Diagnostics int64
}

func NewEngine(cfg config.Config, runID string, p *keyvalue.Parser, log *replylog.Logger, disp *dispatch.Dispatcher, keyVars *state.KeyVarStore, actors *state.ActorStore) (*Engine, error) {
	if p == nil {
		return nil, errors.New("parser nil")
	}
	if keyVars == nil {
		return nil, errors.New("keyvar store nil")
	}
	return &Engine{
		cfg:     cfg,
		runID:   runID,
		parser:  p,
		log:     log,
		disp:    disp,
		keyVars: keyVars,
		actors:  actors,
	}, nil
}

func (e *Engine) Stats() Stats {
	return Stats{
		Lines:       e.lines.Load(),
		Parsed:      e.parsed.Load(),
		Failed:      e.failed.Load(),
		Diagnostics: e.diagnostics.Load(),
	}
}

// LastError returns the most recent parse failure, or "" if none.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Run handles lines from r until EOF (nil) or ctx is done (context.Canceled).
// Lines that fail to parse are logged and skipped.
func (e *Engine) Run(ctx context.Context, r io.Reader) error {
	e.log.Log(replylog.Record{
		RunID:     e.runID,
		Timestamp: NowTS(),
		Type:      "startup",
		Message:   fmt.Sprintf("feed start header=%s input=%s", e.cfg.Header, e.cfg.InputPath),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go e.actorSweeper(ctx)

	lines := make(chan string, 256)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read replies: %w", err)
					}
				default:
				}
				return nil
			}
			_, _ = e.HandleLine(time.Now().UTC(), line)
		}
	}
}

func (e *Engine) actorSweeper(ctx context.Context) {
	if e.actors == nil || e.cfg.ActorMaxAge <= 0 {
		return
	}
	every := actorSweepEvery
	if e.cfg.ActorMaxAge < every {
		every = e.cfg.ActorMaxAge
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			e.SweepActors(now.UTC())
		}
	}
}

// SweepActors forgets actors silent for longer than the configured max age,
// along with their stored keywords.
func (e *Engine) SweepActors(now time.Time) []string {
	if e.actors == nil {
		return nil
	}
	stale := e.actors.SweepStale(now, e.cfg.ActorMaxAge)
	for _, a := range stale {
		n := e.keyVars.DropActor(a)
		slog.Warn("actor evicted due to max silent age", "actor", a, "keyvars", n, "max_age", e.cfg.ActorMaxAge.String())
	}
	return stale
}

// HandleLine parses one reply line and applies it.
func (e *Engine) HandleLine(now time.Time, line string) (keyvalue.Reply, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return keyvalue.Reply{}, ErrBlankLine
	}
	e.lines.Add(1)

	r, err := e.parser.ParseReply(line, e.cfg.Header, e.cfg.Cmdr, e.cfg.Actor)
	if err != nil {
		e.failed.Add(1)
		e.mu.Lock()
		e.lastErr = err.Error()
		e.mu.Unlock()
		slog.Warn("reply parse failed", "err", err)
		e.log.Log(replylog.Record{
			RunID:     e.runID,
			Timestamp: NowTS(),
			Type:      "parse-error",
			Error:     err.Error(),
			Message:   line,
		})
		return keyvalue.Reply{}, err
	}
	e.parsed.Add(1)

	diags := make([]string, 0, len(r.Body.Diagnostics))
	for _, d := range r.Body.Diagnostics {
		e.diagnostics.Add(1)
		diags = append(diags, d.String())
		slog.Warn("reply parsed leniently",
			"actor", r.Header.Actor,
			"cmd_id", r.Header.CmdID,
			"kind", d.Kind.String(),
			"pos", d.Pos,
			"detail", d.Msg,
		)
	}
	if keyvalue.IsFailure(r.Header.Type) {
		slog.Info("command failed", "cmdr", r.Header.Cmdr, "cmd_id", r.Header.CmdID, "actor", r.Header.Actor, "type", keyvalue.TypeName(r.Header.Type))
	}

	if e.actors != nil {
		e.actors.Touch(r.Header.Actor, now)
	}
	e.keyVars.Apply(r, now)
	if e.disp != nil {
		e.disp.Dispatch(r)
	}

	kws := make([]replylog.Keyword, 0, r.Body.Len())
	for _, kw := range r.Body.Keywords {
		kws = append(kws, replylog.Keyword{Name: kw.Name, Values: kw.Values})
	}
	e.log.Log(replylog.Record{
		RunID:       e.runID,
		Timestamp:   NowTS(),
		Type:        "reply",
		Cmdr:        r.Header.Cmdr,
		CmdID:       r.Header.CmdID,
		Actor:       r.Header.Actor,
		MsgType:     r.Header.Type,
		Keywords:    kws,
		Diagnostics: diags,
	})
	return r, nil
}
