// Package store provides key-value storage backends for gridboard sessions.
//
// A session persists its layout, history and UI flags under a handful of
// fixed keys. This package defines the [Store] interface those writes go
// through, with implementations for different deployments:
//   - memory: in-process map for tests and ephemeral sessions
//   - null: discards writes (--no-save)
//   - file: one JSON file per key under a directory (CLI default)
//   - sqlite: single-table database (modernc.org/sqlite, no cgo)
//   - redis: shared state for multiple editor instances
//   - mongo: document store, one document per key
//
// # Usage
//
//	st, err := store.Open(ctx, store.Config{Backend: "sqlite", Path: "board.db"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	st = store.Scoped(st, "home:")
//	err = st.Set(ctx, "layout", data)
//	data, ok, err := st.Get(ctx, "layout")
//
// Misses are not errors: Get reports ok=false with a nil error.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Sentinel errors for store operations.
var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrNetwork is returned for connection failures to remote backends.
	ErrNetwork = errors.New("network error")
)

// Store is the interface for key-value storage backends.
type Store interface {
	// Get retrieves the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Path is the directory for the file backend or the database file for sqlite.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Backends lists the names accepted by [Open].
func Backends() []string {
	names := []string{BackendMemory, BackendNull, BackendFile, BackendSQLite, BackendRedis, BackendMongo}
	sort.Strings(names)
	return names
}

// Open creates the backend named by cfg.Backend. Every backend is wrapped
// with [Instrument] so reads and writes reach the observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := strings.ToLower(cfg.Backend)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendNull:
		s = NewNullStore()
	case BackendFile, "":
		backend = BackendFile
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q (want one of %s)", cfg.Backend, strings.Join(Backends(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	return Instrument(s, backend), nil
}
