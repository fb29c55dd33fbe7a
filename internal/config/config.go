// Package config loads gridboard settings from a TOML file.
//
// Every field is optional; missing values take the defaults from [Default].
// The file lives at $XDG_CONFIG_HOME/gridboard/config.toml, falling back to
// ~/.config/gridboard/config.toml.
//
//	[grid]
//	container_width = 1200
//	row_height = 80
//	resize_step = 100
//
//	[history]
//	limit = 50
//	debounce = "300ms"
//
//	[store]
//	backend = "sqlite"
//	path = "~/.local/share/gridboard/board.db"
//	namespace = "home"
//
//	[server]
//	addr = "127.0.0.1:8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/history"
	"github.com/matzehuels/gridboard/pkg/session"
	"github.com/matzehuels/gridboard/pkg/store"
)

// AppName names the config and data directories.
const AppName = "gridboard"

// Config is the full set of settings.
type Config struct {
	Grid    Grid    `toml:"grid"`
	History History `toml:"history"`
	Store   Store   `toml:"store"`
	Server  Server  `toml:"server"`
}

// Grid holds pixel metrics.
type Grid struct {
	ContainerWidth float64 `toml:"container_width"`
	RowHeight      float64 `toml:"row_height"`
	ResizeStep     float64 `toml:"resize_step"`

	// Columns is fixed at 12; the key exists so a mismatch fails loudly.
	Columns int `toml:"columns"`
}

// History holds undo/redo settings.
type History struct {
	Limit    int      `toml:"limit"`
	Debounce Duration `toml:"debounce"`
}

// Store selects the persistence backend.
type Store struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	Namespace     string `toml:"namespace"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("300ms") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Grid: Grid{
			ContainerWidth: session.DefaultContainerWidth,
			RowHeight:      grid.DefaultRowHeight,
			ResizeStep:     grid.DefaultResizeStep,
			Columns:        grid.Columns,
		},
		History: History{
			Limit:    history.DefaultLimit,
			Debounce: Duration{history.DefaultDebounce},
		},
		Store: Store{
			Backend:   store.BackendFile,
			Namespace: "default",
		},
		Server: Server{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// An empty path means [Path].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data over base and validates the result. Unknown keys
// are rejected so typos don't silently fall back to defaults.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return base, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return base, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks value ranges and the backend name.
func (c Config) Validate() error {
	if c.Grid.Columns != grid.Columns {
		return errs.New(errs.ErrCodeInvalidConfig, "grid.columns must be %d, got %d", grid.Columns, c.Grid.Columns)
	}
	if !(c.Grid.ContainerWidth > 0) {
		return errs.New(errs.ErrCodeInvalidConfig, "grid.container_width must be positive")
	}
	if !(c.Grid.RowHeight > 0) {
		return errs.New(errs.ErrCodeInvalidConfig, "grid.row_height must be positive")
	}
	if !(c.Grid.ResizeStep > 0) {
		return errs.New(errs.ErrCodeInvalidConfig, "grid.resize_step must be positive")
	}
	if c.History.Limit < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "history.limit must be at least 1")
	}
	if c.History.Debounce.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "history.debounce cannot be negative")
	}
	if !slices.Contains(store.Backends(), strings.ToLower(c.Store.Backend)) {
		return errs.New(errs.ErrCodeInvalidConfig, "store.backend %q not one of %s", c.Store.Backend, strings.Join(store.Backends(), ", "))
	}
	if c.Store.Namespace != "" {
		if err := errs.ValidateNamespace(c.Store.Namespace); err != nil {
			return err
		}
	}
	return nil
}

// GridMetrics returns the grid engine metrics.
func (c Config) GridMetrics() grid.Grid {
	return grid.Grid{RowHeight: c.Grid.RowHeight, ResizeStep: c.Grid.ResizeStep}
}

// StoreConfig returns the backend settings, filling in the default data
// path for the file and sqlite backends.
func (c Config) StoreConfig() (store.Config, error) {
	sc := store.Config{
		Backend:       strings.ToLower(c.Store.Backend),
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
	if sc.Path == "" && (sc.Backend == store.BackendFile || sc.Backend == store.BackendSQLite) {
		dir, err := DataDir()
		if err != nil {
			return sc, err
		}
		if sc.Backend == store.BackendSQLite {
			sc.Path = filepath.Join(dir, "board.db")
		} else {
			sc.Path = filepath.Join(dir, "boards")
		}
	}
	return sc, nil
}

// SessionOptions returns session options for this config. The caller sets
// Store and Logger.
func (c Config) SessionOptions() session.Options {
	return session.Options{
		Grid:           c.GridMetrics(),
		ContainerWidth: c.Grid.ContainerWidth,
		HistoryLimit:   c.History.Limit,
		Debounce:       c.History.Debounce.Duration,
		Namespace:      c.Store.Namespace,
	}
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the config file location using the XDG standard
// (~/.config/gridboard/config.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/gridboard/).
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
