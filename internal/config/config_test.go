package config

import (
	"testing"
	"time"

	"hubmsg/internal/keyvalue"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.InputPath != "-" || cfg.Header != keyvalue.HeaderHub || cfg.Cmdr != "me" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.StatusPort != 0 || cfg.ActorMaxAge != 0 || len(cfg.WatchKeys) != 0 {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HM_INPUT_HEADER", "midrid")
	t.Setenv("HM_HUB_ACTOR", "tcc")
	t.Setenv("HM_STATUS_PORT", "8080")
	t.Setenv("HM_WATCH_KEYS", "tcc.axePos, tcc.tccPos")
	t.Setenv("HM_STATE_ACTOR_MAX_AGE", "90s")
	t.Setenv("HM_STATE_DB_PATH", dir+"/db/state.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Header != keyvalue.HeaderMidRid || cfg.Actor != "tcc" || cfg.StatusPort != 8080 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if len(cfg.WatchKeys) != 2 || cfg.WatchKeys[0] != "tcc.axePos" || cfg.WatchKeys[1] != "tcc.tccPos" {
		t.Fatalf("WatchKeys=%q", cfg.WatchKeys)
	}
	if cfg.ActorMaxAge != 90*time.Second {
		t.Fatalf("ActorMaxAge=%s", cfg.ActorMaxAge)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown header", map[string]string{"HM_INPUT_HEADER": "xml"}},
		{"midrid without actor", map[string]string{"HM_INPUT_HEADER": "midrid"}},
		{"port out of range", map[string]string{"HM_STATUS_PORT": "70000"}},
		{"watch key without actor", map[string]string{"HM_WATCH_KEYS": "axePos"}},
		{"watch key with empty actor", map[string]string{"HM_WATCH_KEYS": ".axePos"}},
		{"watch key with empty keyword", map[string]string{"HM_WATCH_KEYS": "tcc."}},
		{"negative max age", map[string]string{"HM_STATE_ACTOR_MAX_AGE": "-1s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("Load succeeded, want error")
			}
		})
	}
}

func TestSplitWatchKey(t *testing.T) {
	tests := []struct {
		key         string
		wantActor   string
		wantKeyword string
	}{
		{"tcc.axePos", "tcc", "axePos"},
		{"tcc.sub-1.text", "tcc.sub-1", "text"},
		{".hub.actors", ".hub", "actors"},
	}
	for _, tc := range tests {
		actor, keyword, err := SplitWatchKey(tc.key)
		if err != nil {
			t.Fatalf("SplitWatchKey(%q) err=%v", tc.key, err)
		}
		if actor != tc.wantActor || keyword != tc.wantKeyword {
			t.Fatalf("SplitWatchKey(%q) = %q,%q", tc.key, actor, keyword)
		}
	}
	for _, bad := range []string{"", "axePos", ".axePos", "tcc.", "."} {
		if _, _, err := SplitWatchKey(bad); err == nil {
			t.Fatalf("SplitWatchKey(%q) should fail", bad)
		}
	}
}

func TestLoad_DottedActorWatchKey(t *testing.T) {
	t.Setenv("HM_WATCH_KEYS", "tcc.sub-1.text")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(cfg.WatchKeys) != 1 || cfg.WatchKeys[0] != "tcc.sub-1.text" {
		t.Fatalf("WatchKeys=%q", cfg.WatchKeys)
	}
}
