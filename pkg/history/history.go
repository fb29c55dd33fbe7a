// Package history implements a linear undo/redo stack of immutable snapshots.
//
// A [History] holds an ordered list of snapshots and a cursor pointing at the
// snapshot that represents the current state. The cursor is -1 while the
// history is empty.
//
// # Commits
//
// [History.Commit] discards everything after the cursor (a commit after an
// undo abandons the redo branch), appends the snapshot and moves the cursor
// to it. When the list grows past the limit (50 by default) the oldest
// snapshot is evicted.
//
// # Debounced Commits
//
// High-frequency updates such as live resize frames go through
// [History.CommitDebounced]. The history keeps a single pending snapshot and
// a deadline; each call replaces the pending snapshot and pushes the
// deadline out by the debounce window (300ms by default). [History.Settle]
// commits the pending snapshot once the deadline has passed. The history
// never starts timers itself: callers decide how time advances, which keeps
// the semantics independent of any event loop.
//
// # Snapshots
//
// History is generic over the snapshot type and treats it as an opaque
// value. Snapshots must be immutable values; the history never copies them.
package history

import (
	"slices"
	"time"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Defaults.
const (
	// DefaultLimit is the maximum number of snapshots kept.
	DefaultLimit = 50

	// DefaultDebounce is the quiet period before a debounced commit lands.
	DefaultDebounce = 300 * time.Millisecond
)

type config struct {
	limit  int
	window time.Duration
}

// Option customises a History.
type Option func(*config)

// WithLimit sets the snapshot cap. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithDebounce sets the debounce window. Zero or negative selects
// DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		if d <= 0 {
			d = DefaultDebounce
		}
		c.window = d
	}
}

// History is a bounded linear undo/redo stack. It is not safe for
// concurrent use; callers serialise access.
type History[S any] struct {
	cfg       config
	snapshots []S
	cursor    int

	pending  *S
	deadline time.Time
}

// New returns an empty history.
func New[S any](opts ...Option) *History[S] {
	cfg := config{limit: DefaultLimit, window: DefaultDebounce}
	for _, o := range opts {
		o(&cfg)
	}
	return &History[S]{cfg: cfg, cursor: -1}
}

// Restore rebuilds a history from persisted snapshots and cursor.
//
// If more snapshots than the limit are supplied only the newest are kept. An
// out-of-range cursor is clamped to the last snapshot and reported as
// PERSISTENCE_CORRUPT; the returned history is usable either way.
func Restore[S any](snapshots []S, cursor int, opts ...Option) (*History[S], error) {
	h := New[S](opts...)
	if len(snapshots) == 0 {
		if cursor != -1 {
			return h, errs.New(errs.ErrCodePersistenceCorrupt, "cursor %d without snapshots", cursor)
		}
		return h, nil
	}

	if drop := len(snapshots) - h.cfg.limit; drop > 0 {
		snapshots = snapshots[drop:]
		cursor -= drop
	}
	h.snapshots = slices.Clone(snapshots)

	var err error
	if cursor < 0 || cursor >= len(h.snapshots) {
		err = errs.New(errs.ErrCodePersistenceCorrupt, "cursor %d outside [0, %d)", cursor, len(h.snapshots))
		cursor = len(h.snapshots) - 1
	}
	h.cursor = cursor
	return h, err
}

// Commit records s as the new current state.
func (h *History[S]) Commit(s S) {
	h.snapshots = append(h.snapshots[:h.cursor+1], s)
	if len(h.snapshots) > h.cfg.limit {
		// Overflow only happens when the cursor was on the newest snapshot,
		// so after dropping index 0 the cursor still lands on s.
		h.snapshots = slices.Delete(h.snapshots, 0, 1)
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo steps back one snapshot and returns it. At the first snapshot, or
// when empty, it is a no-op and reports false.
func (h *History[S]) Undo() (S, bool) {
	if h.cursor <= 0 {
		var zero S
		return zero, false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo steps forward one snapshot and returns it. At the newest snapshot it
// is a no-op and reports false.
func (h *History[S]) Redo() (S, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		var zero S
		return zero, false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// Current returns the snapshot under the cursor.
func (h *History[S]) Current() (S, bool) {
	if h.cursor < 0 {
		var zero S
		return zero, false
	}
	return h.snapshots[h.cursor], true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History[S]) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History[S]) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of stored snapshots.
func (h *History[S]) Len() int { return len(h.snapshots) }

// Cursor returns the cursor index, -1 when empty.
func (h *History[S]) Cursor() int { return h.cursor }

// Limit returns the snapshot cap.
func (h *History[S]) Limit() int { return h.cfg.limit }

// Window returns the debounce window.
func (h *History[S]) Window() time.Duration { return h.cfg.window }

// Snapshots returns a copy of the stored snapshots, oldest first.
func (h *History[S]) Snapshots() []S { return slices.Clone(h.snapshots) }

// Reset empties the history and drops any pending snapshot.
func (h *History[S]) Reset() {
	h.snapshots = nil
	h.cursor = -1
	h.Cancel()
}
