// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about editing sessions and key-value store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Session().OnCommit(ctx, "add", cursor, length)
//	observability.Store().OnGet(ctx, "sqlite", key, hit, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from the session controller.
type SessionHooks interface {
	// OnCommit records a snapshot landing in history.
	OnCommit(ctx context.Context, op string, cursor, length int)

	// OnUndo and OnRedo record cursor moves; moved is false for no-ops.
	OnUndo(ctx context.Context, cursor int, moved bool)
	OnRedo(ctx context.Context, cursor int, moved bool)

	// OnRejected records an absorbed engine error (missing block, boundary).
	OnRejected(ctx context.Context, op string, code string)

	// OnRestore records a session load; skipped counts keys reset to defaults.
	OnRestore(ctx context.Context, blocks, snapshots, skipped int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from key-value store operations.
type StoreHooks interface {
	// OnGet records a read.
	OnGet(ctx context.Context, backend, key string, hit bool, duration time.Duration, err error)

	// OnSet records a write.
	OnSet(ctx context.Context, backend, key string, size int, duration time.Duration, err error)

	// OnDelete records a removal.
	OnDelete(ctx context.Context, backend, key string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnCommit(context.Context, string, int, int) {}
func (NoopSessionHooks) OnUndo(context.Context, int, bool)          {}
func (NoopSessionHooks) OnRedo(context.Context, int, bool)          {}
func (NoopSessionHooks) OnRejected(context.Context, string, string) {}
func (NoopSessionHooks) OnRestore(context.Context, int, int, int)   {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnSet(context.Context, string, string, int, time.Duration, error)  {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error)                   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks SessionHooks = NoopSessionHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
	storeHooks = NoopStoreHooks{}
}
