package feed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hubmsg/internal/config"
	"hubmsg/internal/dispatch"
	"hubmsg/internal/keyvalue"
	"hubmsg/internal/replylog"
	"hubmsg/internal/state"
)

type fixture struct {
	e       *Engine
	disp    *dispatch.Dispatcher
	keyVars *state.KeyVarStore
	actors  *state.ActorStore
}

func newFixture(t *testing.T, cfg config.Config, log *replylog.Logger) fixture {
	t.Helper()
	if cfg.Cmdr == "" {
		cfg.Cmdr = "me"
	}
	f := fixture{
		disp:    dispatch.New(cfg.Cmdr),
		keyVars: state.NewKeyVarStore(),
		actors:  state.NewActorStore(),
	}
	e, err := NewEngine(cfg, "run-test", keyvalue.NewParser(cfg.ExtraWordChars), log, f.disp, f.keyVars, f.actors)
	require.NoError(t, err)
	f.e = e
	return f
}

func TestNewEngine_RequiresParserAndStore(t *testing.T) {
	_, err := NewEngine(config.Config{}, "", nil, nil, nil, state.NewKeyVarStore(), nil)
	require.Error(t, err)
	_, err = NewEngine(config.Config{}, "", keyvalue.NewParser(""), nil, nil, nil, nil)
	require.Error(t, err)
}

func TestHandleLine_AppliesReply(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	var axePos []string
	f.disp.AddKeyVar("tcc", "axePos", func(values []string, _ keyvalue.Reply) { axePos = values })
	var cmdTypes []string
	f.disp.AddCmd(5, func(r keyvalue.Reply) { cmdTypes = append(cmdTypes, r.Header.Type) })

	now := time.Date(2026, 10, 15, 1, 2, 3, 0, time.UTC)
	r, err := f.e.HandleLine(now, "me 5 tcc : axePos=10.5,-3,NaN; text=\"slew done\"\r\n")
	require.NoError(t, err)
	require.Equal(t, "tcc", r.Header.Actor)

	require.Equal(t, []string{"10.5", "-3", "NaN"}, axePos)
	require.Equal(t, []string{":"}, cmdTypes)
	require.Equal(t, 0, f.disp.Pending())

	kv, ok := f.keyVars.Get("TCC", "text")
	require.True(t, ok)
	require.Equal(t, []string{"slew done"}, kv.Values)
	require.True(t, kv.Updated.Equal(now))

	a, ok := f.actors.Get("tcc")
	require.True(t, ok)
	require.Equal(t, 1, a.Replies)

	require.Equal(t, Stats{Lines: 1, Parsed: 1}, f.e.Stats())
}

func TestHandleLine_FailuresAndDiagnostics(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	now := time.Now().UTC()

	_, err := f.e.HandleLine(now, "   ")
	require.ErrorIs(t, err, ErrBlankLine)

	_, err = f.e.HandleLine(now, "not a header")
	require.ErrorIs(t, err, keyvalue.ErrSyntax)

	_, err = f.e.HandleLine(now, "me 1 tcc i 0bad=1")
	require.ErrorIs(t, err, keyvalue.ErrSyntax)

	r, err := f.e.HandleLine(now, `me 1 tcc w text="unterminated`)
	require.NoError(t, err)
	require.True(t, r.Body.Degraded())

	require.Equal(t, Stats{Lines: 3, Parsed: 1, Failed: 2, Diagnostics: 1}, f.e.Stats())
	require.Contains(t, f.e.LastError(), `0bad=1`)
	require.Equal(t, 1, f.keyVars.Count())
}

func TestLastError_EmptyUntilFailure(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	require.Equal(t, "", f.e.LastError())
	_, err := f.e.HandleLine(time.Now().UTC(), "me 1 tcc i a=1")
	require.NoError(t, err)
	require.Equal(t, "", f.e.LastError())
}

func TestHandleLine_MidRid(t *testing.T) {
	f := newFixture(t, config.Config{Header: keyvalue.HeaderMidRid, Cmdr: "me", Actor: "tcc"}, nil)
	r, err := f.e.HandleLine(time.Now().UTC(), "12 0 i tccPos=1,2,3")
	require.NoError(t, err)
	require.Equal(t, keyvalue.HubHeader{Cmdr: "me", CmdID: 12, Actor: "tcc", Type: "i"}, r.Header)
	_, ok := f.keyVars.Get("tcc", "tccPos")
	require.True(t, ok)
}

func TestRun_ReadsUntilEOFAndLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.ndjson")
	log, err := replylog.New(path)
	require.NoError(t, err)

	f := newFixture(t, config.Config{InputPath: "-"}, log)
	in := strings.Join([]string{
		"me 1 tcc > ",
		"me 1 tcc i axePos=1,2,3",
		"",
		"garbage",
		"me 1 tcc : ",
	}, "\n")
	require.NoError(t, f.e.Run(context.Background(), strings.NewReader(in)))
	require.NoError(t, log.Close())

	require.Equal(t, Stats{Lines: 4, Parsed: 3, Failed: 1}, f.e.Stats())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := strings.TrimSpace(string(b))
	recs := strings.Split(out, "\n")
	// startup + 3 replies + 1 parse error
	require.Len(t, recs, 5)
	require.Contains(t, recs[0], `"type":"startup"`)
	require.Contains(t, recs[2], `"name":"axePos"`)
	require.Contains(t, recs[3], `"type":"parse-error"`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.e.Run(ctx, pr) }()

	_, err := io.WriteString(pw, "me 1 tcc i a=1\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.e.Stats().Parsed == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSweepActors_DropsKeyVars(t *testing.T) {
	f := newFixture(t, config.Config{ActorMaxAge: time.Minute}, nil)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.e.HandleLine(t0, "me 1 tcc i a=1;b=2")
	require.NoError(t, err)
	_, err = f.e.HandleLine(t0.Add(time.Minute), "me 1 dis i c=3")
	require.NoError(t, err)
	// A live actor whose name extends the stale one.
	_, err = f.e.HandleLine(t0.Add(time.Minute), "me 1 tcc.sub-1 i d=4")
	require.NoError(t, err)

	stale := f.e.SweepActors(t0.Add(90 * time.Second))
	require.Equal(t, []string{"tcc"}, stale)
	require.Equal(t, 2, f.keyVars.Count())
	_, ok := f.keyVars.Get("dis", "c")
	require.True(t, ok)
	_, ok = f.keyVars.Get("tcc.sub-1", "d")
	require.True(t, ok)
}

func TestMakeRunID(t *testing.T) {
	a, b := MakeRunID(), MakeRunID()
	require.True(t, strings.HasPrefix(a, "run-"))
	require.NotEqual(t, a, b)
	_, err := time.Parse(time.RFC3339Nano, NowTS())
	require.NoError(t, err)
}
