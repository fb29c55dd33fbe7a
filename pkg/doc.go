// Package pkg provides the core libraries for gridboard, a block layout
// editor on a 12-column grid.
//
// # Overview
//
// The pkg directory is organized bottom-up:
//
//  1. [grid] - Layout engine (blocks, placement, reorder, resize)
//  2. [history] - Bounded undo/redo stack with debounced commits
//  3. [session] - Controller tying the engine, history and persistence together
//  4. [store] - Key-value backends (memory, file, sqlite, redis, mongo)
//  5. [errors] - Error codes shared by every layer
//  6. [observability] - Optional hooks for metrics and tracing
//
// # Architecture
//
// Every user intent flows through a session:
//
//	intent (add, move, resize, edit, delete, undo)
//	         ↓
//	    [session] validates and applies it via [grid]
//	         ↓
//	    [history] records a snapshot (now, or after the debounce)
//	         ↓
//	    [store] persists layout, history, cursor and UI flags
//
// Layouts are immutable values: every operation returns a new layout and
// leaves its input untouched, so history snapshots never alias live state.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/gridboard/pkg/grid"
//	    "github.com/matzehuels/gridboard/pkg/session"
//	    "github.com/matzehuels/gridboard/pkg/store"
//	)
//
//	st, _ := store.Open(ctx, store.Config{Backend: "sqlite", Path: "board.db"})
//	defer st.Close()
//
//	sess, _ := session.Open(ctx, session.Options{Store: st, Namespace: "home"})
//	defer sess.Close(ctx)
//
//	b, _ := sess.AddBlock(ctx, grid.KindText)
//	sess.Move(ctx, b.ID, grid.Point{X: 650, Y: 10})
//	sess.Undo(ctx)
//
// [grid]: github.com/matzehuels/gridboard/pkg/grid
// [history]: github.com/matzehuels/gridboard/pkg/history
// [session]: github.com/matzehuels/gridboard/pkg/session
// [store]: github.com/matzehuels/gridboard/pkg/store
// [errors]: github.com/matzehuels/gridboard/pkg/errors
// [observability]: github.com/matzehuels/gridboard/pkg/observability
package pkg
