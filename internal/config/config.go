package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"hubmsg/internal/keyvalue"
)

const (
	defaultConfigName = "config"
)

type Config struct {
	// InputPath is the reply stream to read; "-" is stdin.
	InputPath string
	Header    keyvalue.HeaderFormat

	// Cmdr is our commander name. It fills in mid/rid headers and selects
	// which replies reach command callbacks.
	Cmdr string
	// Actor fills in mid/rid headers, which do not carry one.
	Actor string

	ExtraWordChars string

	// WatchKeys are "actor.keyword" pairs logged whenever they update.
	WatchKeys []string

	// StatusPort serves the plain-text status page; 0 disables it.
	StatusPort int

	ServerVersion string
	ServerTagline string

	// ReplyLogPath enables NDJSON telemetry when set. Leave empty to disable file logging.
	ReplyLogPath string

	// StateDBPath enables a bbolt snapshot of keyword values, restored at startup.
	StateDBPath string
	// ActorMaxAge evicts actors silent for this long; 0 disables the sweep.
	ActorMaxAge time.Duration
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("HM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("input.path", "-")
	v.SetDefault("input.header", "hub")
	v.SetDefault("hub.cmdr", "me")
	v.SetDefault("hub.actor", "")
	v.SetDefault("parser.extra_word_chars", "")
	v.SetDefault("watch.keys", []string{})

	v.SetDefault("status.port", 0)
	v.SetDefault("server.version", "0.1.0")
	v.SetDefault("server.tagline", "hubmsg reply feed")

	v.SetDefault("telemetry.reply_ndjson_path", "")
	v.SetDefault("state.db_path", "")
	v.SetDefault("state.actor_max_age", "0s")

	// Config file is optional; env-only is fine.
	_ = v.ReadInConfig()

	header, err := keyvalue.ParseHeaderFormat(v.GetString("input.header"))
	if err != nil {
		return Config{}, fmt.Errorf("input.header: %w", err)
	}

	cfg := Config{
		InputPath:      strings.TrimSpace(v.GetString("input.path")),
		Header:         header,
		Cmdr:           strings.TrimSpace(v.GetString("hub.cmdr")),
		Actor:          strings.TrimSpace(v.GetString("hub.actor")),
		ExtraWordChars: v.GetString("parser.extra_word_chars"),
		WatchKeys:      watchKeys(v.GetStringSlice("watch.keys")),
		StatusPort:     v.GetInt("status.port"),
		ServerVersion:  strings.TrimSpace(v.GetString("server.version")),
		ServerTagline:  strings.TrimSpace(v.GetString("server.tagline")),
		ReplyLogPath:   v.GetString("telemetry.reply_ndjson_path"),
		StateDBPath:    strings.TrimSpace(v.GetString("state.db_path")),
		ActorMaxAge:    v.GetDuration("state.actor_max_age"),
	}

	if cfg.InputPath == "" {
		return Config{}, fmt.Errorf("input.path must not be empty")
	}
	if cfg.Header == keyvalue.HeaderMidRid && cfg.Actor == "" {
		return Config{}, fmt.Errorf("hub.actor is required for mid/rid input")
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return Config{}, fmt.Errorf("invalid status.port %d", cfg.StatusPort)
	}
	if cfg.ServerVersion == "" {
		return Config{}, fmt.Errorf("server.version must not be empty")
	}
	if cfg.ActorMaxAge < 0 {
		return Config{}, fmt.Errorf("invalid state.actor_max_age %s", cfg.ActorMaxAge)
	}
	for _, k := range cfg.WatchKeys {
		if _, _, err := SplitWatchKey(k); err != nil {
			return Config{}, fmt.Errorf("watch.keys: %w", err)
		}
	}

	for _, p := range []string{cfg.ReplyLogPath, cfg.StateDBPath} {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return Config{}, fmt.Errorf("create dir for %s: %w", p, err)
		}
	}
	return cfg, nil
}

// SplitWatchKey splits "actor.keyword" at the last dot. Actor names may
// contain dots; keywords never do.
func SplitWatchKey(k string) (actor, keyword string, err error) {
	i := strings.LastIndex(k, ".")
	if i <= 0 || i == len(k)-1 {
		return "", "", fmt.Errorf("entry %q is not actor.keyword", k)
	}
	return k[:i], k[i+1:], nil
}

// watchKeys accepts both a yaml list and a comma-separated env value.
func watchKeys(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, k := range strings.Split(r, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}
