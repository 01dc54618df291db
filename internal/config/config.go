// Package config loads skelly settings from a TOML file overlaid by
// SKELLY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/skelly/internal/logging"
	"github.com/aretw0/skelly/pkg/actor"
	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SKELLY_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Actor holds the default actor configuration.
type Actor struct {
	Tracker      string `toml:"tracker" env:"TRACKER"`
	IncludeFace  bool   `toml:"include_face" env:"INCLUDE_FACE"`
	IncludeHands bool   `toml:"include_hands" env:"INCLUDE_HANDS"`
}

// Log controls the logger.
type Log struct {
	Level string `toml:"level" env:"LEVEL"`
}

// Server controls the HTTP server.
type Server struct {
	Addr    string `toml:"addr" env:"ADDR"`
	Metrics bool   `toml:"metrics" env:"METRICS"`
}

// Store selects where actor snapshots are persisted.
type Store struct {
	Backend    string `toml:"backend" env:"BACKEND"`
	Path       string `toml:"path" env:"PATH"`
	RedisURL   string `toml:"redis_url" env:"REDIS_URL"`
	TTLSeconds int    `toml:"ttl_seconds" env:"TTL_SECONDS"`
}

// Config is the full settings tree.
type Config struct {
	Actor   Actor    `toml:"actor" envPrefix:"ACTOR_"`
	Log     Log      `toml:"log" envPrefix:"LOG_"`
	Server  Server   `toml:"server" envPrefix:"SERVER_"`
	Store   Store    `toml:"store" envPrefix:"STORE_"`
	Layouts []string `toml:"layouts" env:"LAYOUTS" envSeparator:","`
}

// Default returns the built-in settings.
func Default() Config {
	def := actor.DefaultConfig()
	return Config{
		Actor: Actor{
			Tracker:      def.TrackerKind,
			IncludeFace:  def.IncludeFace,
			IncludeHands: def.IncludeHands,
		},
		Log:    Log{Level: "info"},
		Server: Server{Addr: ":8080", Metrics: true},
		Store:  Store{Backend: BackendMemory, Path: ".skelly/snapshots"},
	}
}

// Load reads path (if it exists) over the defaults, then applies the
// process environment. An empty path skips the file.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ uses the
// process environment.
func LoadWithEnv(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Log.Level = strings.TrimSpace(c.Log.Level)
	layouts := c.Layouts[:0]
	for _, l := range c.Layouts {
		if l = strings.TrimSpace(l); l != "" {
			layouts = append(layouts, l)
		}
	}
	c.Layouts = layouts
}

// Validate checks field values.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if err := c.ActorConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	backends := []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis}
	if !slices.Contains(backends, c.Store.Backend) {
		errs = append(errs, fmt.Errorf("store.backend must be one of %s, got %q", strings.Join(backends, ", "), c.Store.Backend))
	}
	if c.Store.Backend == BackendRedis && c.Store.RedisURL == "" {
		errs = append(errs, errors.New("store.redis_url is required for the redis backend"))
	}
	if (c.Store.Backend == BackendFile || c.Store.Backend == BackendSQLite) && c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("store.path is required for the %s backend", c.Store.Backend))
	}
	if c.Store.TTLSeconds < 0 {
		errs = append(errs, errors.New("store.ttl_seconds must not be negative"))
	}
	return errors.Join(errs...)
}

// ActorConfig converts the [actor] section.
func (c Config) ActorConfig() actor.Config {
	return actor.Config{
		TrackerKind:  c.Actor.Tracker,
		IncludeFace:  c.Actor.IncludeFace,
		IncludeHands: c.Actor.IncludeHands,
	}
}
