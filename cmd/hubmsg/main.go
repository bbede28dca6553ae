// Command hubmsg runs the hub reply feed.
//
// It reads reply lines from stdin or a file and parses each one. It keeps the
// latest value of every actor keyword, logs watched keywords, and optionally
// serves a plain-text status page and writes NDJSON telemetry.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hubmsg/internal/config"
	"hubmsg/internal/dispatch"
	"hubmsg/internal/feed"
	"hubmsg/internal/keyvalue"
	"hubmsg/internal/replylog"
	"hubmsg/internal/state"
	"hubmsg/internal/status"
)

func fatal(msg string, err error, attrs ...any) {
	args := make([]any, 0, 2+len(attrs))
	args = append(args, "err", err)
	args = append(args, attrs...)
	slog.Error(msg, args...)
	os.Exit(1)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func watch(disp *dispatch.Dispatcher, keys []string) {
	for _, k := range keys {
		actor, keyword, err := config.SplitWatchKey(k)
		if err != nil {
			slog.Warn("watch key ignored", "key", k, "err", err)
			continue
		}
		disp.AddKeyVar(actor, keyword, func(values []string, r keyvalue.Reply) {
			slog.Info("keyword updated",
				"actor", r.Header.Actor,
				"keyword", keyword,
				"values", values,
				"type", keyvalue.TypeName(r.Header.Type),
			)
		})
	}
}

func main() {
	// Set up logging first so early failures are captured consistently.
	runID := feed.MakeRunID()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("run_id", runID))

	cfg, err := config.Load()
	if err != nil {
		fatal("config load failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shutdown watch: once a shutdown signal is received, allow a bounded window
	// for goroutines to exit cleanly before forcing termination.
	go func() {
		<-ctx.Done()
		t := time.NewTimer(30 * time.Second)
		defer t.Stop()
		<-t.C
		slog.Error("shutdown timed out after 30s, forcing exit")
		os.Exit(2)
	}()

	slog.Info(
		"starting hubmsg",
		"input", cfg.InputPath,
		"header", cfg.Header.String(),
		"cmdr", cfg.Cmdr,
		"status_port", cfg.StatusPort,
	)

	var rl *replylog.Logger
	if cfg.ReplyLogPath != "" {
		var err error
		rl, err = replylog.New(cfg.ReplyLogPath)
		if err != nil {
			fatal("open ndjson telemetry file failed", err, "path", cfg.ReplyLogPath)
		}
		defer func() { _ = rl.Close() }()
		slog.Info("ndjson telemetry enabled", "path", cfg.ReplyLogPath)
	} else {
		slog.Info("ndjson telemetry disabled (default); set HM_TELEMETRY_REPLY_NDJSON_PATH to enable")
	}

	keyVars := state.NewKeyVarStore()
	actors := state.NewActorStore()
	if cfg.StateDBPath != "" {
		vars, err := state.LoadSnapshot(cfg.StateDBPath)
		if err != nil {
			fatal("state snapshot load failed", err, "path", cfg.StateDBPath)
		}
		keyVars.Restore(vars)
		slog.Info("state snapshot restored", "path", cfg.StateDBPath, "keyvars", len(vars))
	}

	disp := dispatch.New(cfg.Cmdr)
	watch(disp, cfg.WatchKeys)

	engine, err := feed.NewEngine(cfg, runID, keyvalue.NewParser(cfg.ExtraWordChars), rl, disp, keyVars, actors)
	if err != nil {
		fatal("feed engine init error", err)
	}

	if cfg.StatusPort != 0 {
		_, err := status.Start(ctx, fmt.Sprintf(":%d", cfg.StatusPort), func() status.Data {
			st := engine.Stats()
			var msg string
			if le := engine.LastError(); le != "" {
				msg = "last parse error: " + le
			}
			return status.Data{
				Tagline:         cfg.ServerTagline,
				Version:         cfg.ServerVersion,
				RunID:           runID,
				ServerTime:      time.Now().UTC().Format(time.RFC3339),
				Lines:           st.Lines,
				Parsed:          st.Parsed,
				Failed:          st.Failed,
				Diagnostics:     st.Diagnostics,
				Actors:          actors.Count(),
				KeyVars:         keyVars.Count(),
				PendingCommands: disp.Pending(),
				Message:         msg,
			}
		})
		if err != nil {
			fatal("status server start failed", err, "port", cfg.StatusPort)
		}
	}

	in, err := openInput(cfg.InputPath)
	if err != nil {
		fatal("open input failed", err, "path", cfg.InputPath)
	}
	defer func() { _ = in.Close() }()

	runErr := engine.Run(ctx, in)

	if cfg.StateDBPath != "" {
		if err := state.SaveSnapshot(cfg.StateDBPath, keyVars.Snapshot()); err != nil {
			slog.Error("state snapshot save failed", "err", err, "path", cfg.StateDBPath)
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fatal("feed engine error", runErr)
	}

	st := engine.Stats()
	slog.Info("feed finished", "lines", st.Lines, "parsed", st.Parsed, "failed", st.Failed, "diagnostics", st.Diagnostics)
}
