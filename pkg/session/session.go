// Package session maps editing intents onto the grid engine and history.
//
// A [Session] owns the current [grid.Layout], the undo/redo
// [history.History] and the UI flags, and is the only component that talks
// to persistence. Every intent runs to completion under a mutex; the
// debounce timer callback is the only asynchronous entry and takes the same
// lock, so it cannot interleave with a handler.
//
// # Error Handling
//
// Engine rejections are absorbed: an unknown block id (NOT_FOUND) or a move
// that would break the column or overlap rules (BOUNDARY_REJECTED) leaves the
// state untouched, logs at debug level, fires the OnRejected hook and
// reports applied=false with a nil error. Errors returned by Session methods
// are either invalid input (bad kind, bad content) or persistence failures.
// A persistence failure never rolls back the in-memory state.
//
// # Usage
//
//	sess, err := session.Open(ctx, session.Options{Store: st, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close(ctx)
//
//	b, err := sess.AddBlock(ctx, grid.KindText)
//	applied, err := sess.Move(ctx, b.ID, grid.Point{X: 650, Y: 10})
//	applied, err = sess.Undo(ctx)
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/history"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/store"
)

// DefaultContainerWidth is the pixel width assumed for the grid container
// when translating drop points.
const DefaultContainerWidth = 1200.0

// Operation names reported to hooks and logs.
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpLive    = "update_live"
	OpDelete  = "delete"
	OpMove    = "move"
	OpResize  = "resize"
	OpContent = "content"
	OpUndo    = "undo"
	OpRedo    = "redo"
	OpClear   = "clear"
	OpSettle  = "settle"
)

// Timer is the handle returned by an [AfterFunc]. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d. The default is [time.AfterFunc].
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options configures a Session. The zero value is usable: an in-memory
// store, default grid metrics, a 50-entry history and a 300ms debounce.
type Options struct {
	Grid           grid.Grid
	ContainerWidth float64

	HistoryLimit int
	Debounce     time.Duration

	// Store receives the session keys. Nil means an in-memory store.
	Store store.Store

	// Namespace scopes the keys so several boards can share a store.
	Namespace string

	Logger *log.Logger

	// Hooks for tests. Nil means grid.NewID, time.Now and time.AfterFunc.
	NewID     func() string
	Now       func() time.Time
	AfterFunc AfterFunc
}

func (o *Options) setDefaults() {
	if o.Grid == (grid.Grid{}) {
		o.Grid = grid.Default()
	}
	if !(o.ContainerWidth > 0) {
		o.ContainerWidth = DefaultContainerWidth
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = history.DefaultLimit
	}
	if o.Debounce <= 0 {
		o.Debounce = history.DefaultDebounce
	}
	if o.Store == nil {
		o.Store = store.NewMemoryStore()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.NewID == nil {
		o.NewID = grid.NewID
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.AfterFunc == nil {
		o.AfterFunc = realAfterFunc
	}
}

// UIState holds presentation flags that survive reloads.
type UIState struct {
	PreviewMode bool   `json:"preview_mode"`
	SelectedID  string `json:"selected_id,omitempty"`
}

// State is a read-only view of a session.
type State struct {
	Layout  grid.Layout `json:"layout"`
	UI      UIState     `json:"ui"`
	Cursor  int         `json:"cursor"`
	Length  int         `json:"length"`
	CanUndo bool        `json:"can_undo"`
	CanRedo bool        `json:"can_redo"`
	Pending bool        `json:"pending"`
}

// HistoryInfo describes the undo/redo stack.
type HistoryInfo struct {
	Cursor    int           `json:"cursor"`
	Limit     int           `json:"limit"`
	Snapshots []grid.Layout `json:"snapshots"`
}

// Session is a single editing session over one board.
type Session struct {
	mu sync.Mutex

	opts    Options
	log     *log.Logger
	persist *Persister

	layout grid.Layout
	ui     UIState
	hist   *history.History[grid.Layout]
	drag   *grid.ResizeDrag
	closed bool

	timer    Timer
	timerGen uint64
}

// Open restores a session from opts.Store. Missing or corrupt keys fall
// back to their defaults; only an unreachable store is an error.
func Open(ctx context.Context, opts Options) (*Session, error) {
	opts.setDefaults()
	st, err := NamespaceStore(opts.Store, opts.Namespace)
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:    opts,
		log:     opts.Logger,
		persist: NewPersister(st, opts.Logger),
	}

	loaded, err := s.persist.Load(ctx)
	if err != nil {
		return nil, err
	}
	skipped := loaded.Skipped

	hist, err := history.Restore(loaded.History, loaded.Cursor, historyOptions(opts)...)
	if err != nil {
		s.log.Warn("history index out of range, using newest snapshot", "err", err)
		skipped++
	}
	s.hist = hist
	s.layout = loaded.Layout
	s.ui = loaded.UI
	if s.ui.SelectedID != "" && s.layout.Index(s.ui.SelectedID) < 0 {
		s.ui.SelectedID = ""
	}

	s.log.Debug("session restored",
		"blocks", s.layout.Len(),
		"snapshots", s.hist.Len(),
		"cursor", s.hist.Cursor(),
		"skipped", skipped)
	observability.Session().OnRestore(ctx, s.layout.Len(), s.hist.Len(), skipped)
	return s, nil
}

// NamespaceStore scopes st to the keys of one board. An empty namespace
// uses st unscoped.
func NamespaceStore(st store.Store, namespace string) (store.Store, error) {
	if namespace == "" {
		return st, nil
	}
	if err := errs.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	return store.Scoped(st, namespace+":"), nil
}

func historyOptions(opts Options) []history.Option {
	return []history.Option{history.WithLimit(opts.HistoryLimit), history.WithDebounce(opts.Debounce)}
}

// =============================================================================
// Read access
// =============================================================================

// Layout returns the current layout. Layouts are immutable values.
func (s *Session) Layout() grid.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// State returns a consistent view of the layout, UI flags and history.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	_, _, pending := s.hist.Pending()
	return State{
		Layout:  s.layout,
		UI:      s.ui,
		Cursor:  s.hist.Cursor(),
		Length:  s.hist.Len(),
		CanUndo: s.hist.CanUndo() || (pending && s.hist.Cursor() >= 0),
		CanRedo: s.hist.CanRedo() && !pending,
		Pending: pending,
	}
}

// History returns the undo/redo stack.
func (s *Session) History() HistoryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HistoryInfo{
		Cursor:    s.hist.Cursor(),
		Limit:     s.hist.Limit(),
		Snapshots: s.hist.Snapshots(),
	}
}

// Grid returns the pixel metrics used for moves and resizes.
func (s *Session) Grid() grid.Grid { return s.opts.Grid }

// ContainerWidth returns the pixel width used to translate drop points.
func (s *Session) ContainerWidth() float64 { return s.opts.ContainerWidth }

// =============================================================================
// Block intents
// =============================================================================

// AddBlock appends a block of the given kind at the next free position
// with default width and content, and commits.
func (s *Session) AddBlock(ctx context.Context, kind grid.Kind) (grid.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Valid() {
		return grid.Block{}, errs.New(errs.ErrCodeInvalidKind, "unknown block kind %q", kind)
	}
	b, err := grid.NewBlock(s.opts.NewID(), kind, kind.DefaultContent(), grid.DefaultWidth, grid.NextPosition(s.layout))
	if err != nil {
		return grid.Block{}, err
	}
	s.layout = s.layout.Append(b)
	s.log.Debug("block added", "id", b.ID, "kind", b.Kind, "pos", b.Position)
	return b, s.commitLocked(ctx, OpAdd)
}

// UpdateBlock replaces the block with the same id and commits.
func (s *Session) UpdateBlock(ctx context.Context, b grid.Block) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.releaseDragLocked(ctx, b.ID); err != nil {
		return false, err
	}
	return s.updateLocked(ctx, b, OpUpdate)
}

// PlaceBlock is UpdateBlock, or UpdateBlockLive when live is set, for
// edits that position a block explicitly. A result that overlaps another
// block fails with BOUNDARY_REJECTED and changes nothing; unlike engine
// rejections the error is returned.
func (s *Session) PlaceBlock(ctx context.Context, b grid.Block, live bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := b.Validate(); err != nil {
		return false, err
	}
	next, err := s.layout.Replace(b)
	if err != nil {
		return false, s.absorb(ctx, OpUpdate, err)
	}
	for _, c := range next.Conflicts() {
		other := c.B
		if c.B == b.ID {
			other = c.A
		} else if c.A != b.ID {
			continue
		}
		return false, errs.New(errs.ErrCodeBoundaryRejected,
			"block %q would overlap %q on row %d", b.ID, other, c.Row)
	}
	if err := s.releaseDragLocked(ctx, b.ID); err != nil {
		return false, err
	}
	if live {
		return s.updateLiveLocked(ctx, b)
	}
	return s.updateLocked(ctx, b, OpUpdate)
}

func (s *Session) updateLocked(ctx context.Context, b grid.Block, op string) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	next, err := s.layout.Replace(b)
	if err != nil {
		return false, s.absorb(ctx, op, err)
	}
	s.layout = next
	return true, s.commitLocked(ctx, op)
}

// UpdateBlockLive replaces the block with the same id and schedules a
// debounced commit. Consecutive live updates within the debounce window
// collapse into one history entry holding the last state.
func (s *Session) UpdateBlockLive(ctx context.Context, b grid.Block) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.releaseDragLocked(ctx, b.ID); err != nil {
		return false, err
	}
	return s.updateLiveLocked(ctx, b)
}

func (s *Session) updateLiveLocked(ctx context.Context, b grid.Block) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	next, err := s.layout.Replace(b)
	if err != nil {
		return false, s.absorb(ctx, OpLive, err)
	}
	s.layout = next
	s.scheduleLocked()
	return true, s.saveLocked(ctx)
}

// DeleteBlock removes the block with the given id and commits.
func (s *Session) DeleteBlock(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.layout.Remove(id)
	if err != nil {
		return false, s.absorb(ctx, OpDelete, err)
	}
	s.layout = next
	if s.ui.SelectedID == id {
		s.ui.SelectedID = ""
	}
	if s.drag != nil && s.drag.Start().ID == id {
		s.drag = nil
	}
	return true, s.commitLocked(ctx, OpDelete)
}

// Move drops block id at the pixel point drop. It swaps with a block under
// the drop cell or moves into the empty cell, and commits when the layout
// changed.
func (s *Session) Move(ctx context.Context, id string, drop grid.Point) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.opts.Grid.Reorder(s.layout, id, drop, s.opts.ContainerWidth)
	if err != nil {
		return false, s.absorb(ctx, OpMove, err)
	}
	if next.Equal(s.layout) {
		return false, nil
	}
	if s.drag != nil {
		dragged := s.drag.Start().ID
		before, _ := s.layout.Get(dragged)
		after, _ := next.Get(dragged)
		if before != after {
			if err := s.releaseDragLocked(ctx, dragged); err != nil {
				return false, err
			}
		}
	}
	s.layout = next
	return true, s.commitLocked(ctx, OpMove)
}

// MoveTo moves block id to the grid cell pos.
func (s *Session) MoveTo(ctx context.Context, id string, pos grid.Position) (bool, error) {
	return s.Move(ctx, id, s.opts.Grid.Center(pos, s.opts.ContainerWidth))
}

// SetContent replaces the content of block id after kind-specific
// validation, and commits.
func (s *Session) SetContent(ctx context.Context, id, content string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.layout.Get(id)
	if !ok {
		return false, s.absorb(ctx, OpContent, errs.New(errs.ErrCodeNotFound, "block %q not found", id))
	}
	if b.Content == content {
		return false, nil
	}
	if err := s.releaseDragLocked(ctx, id); err != nil {
		return false, err
	}
	b.Content = content
	return s.updateLocked(ctx, b, OpContent)
}

// =============================================================================
// Resize drag
// =============================================================================

// BeginResize starts an edge drag on block id. A drag already in progress
// is ended first, and a pending live update is committed so the drag owns
// the debounce window.
func (s *Session) BeginResize(ctx context.Context, id string, dir grid.Direction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginResizeLocked(ctx, id, dir)
}

func (s *Session) beginResizeLocked(ctx context.Context, id string, dir grid.Direction) (bool, error) {
	if s.drag != nil {
		if _, err := s.endResizeLocked(ctx); err != nil {
			return false, err
		}
	}
	if s.flushLocked(ctx) {
		if err := s.saveLocked(ctx); err != nil {
			return false, err
		}
	}
	b, ok := s.layout.Get(id)
	if !ok {
		return false, s.absorb(ctx, OpResize, errs.New(errs.ErrCodeNotFound, "block %q not found", id))
	}
	drag, err := s.opts.Grid.BeginResize(b, dir)
	if err != nil {
		return false, err
	}
	s.drag = drag
	return true, nil
}

// ResizeGesture runs a whole edge drag on block id under one lock: begin,
// one move of deltaPixels, release. It returns the resulting block and
// whether a change was committed. An unknown id returns a zero Block.
func (s *Session) ResizeGesture(ctx context.Context, id string, dir grid.Direction, deltaPixels float64) (grid.Block, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started, err := s.beginResizeLocked(ctx, id, dir)
	if err != nil || !started {
		return grid.Block{}, false, err
	}
	live, _ := s.drag.Move(deltaPixels)
	applied, err := s.endResizeLocked(ctx)
	return live, applied, err
}

// ResizeTo moves the dragged edge deltaPixels from where the drag started.
// A changed width is applied as a live update; a rejected candidate keeps
// the previous live values.
func (s *Session) ResizeTo(ctx context.Context, deltaPixels float64) (grid.Block, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag == nil {
		return grid.Block{}, false, errs.New(errs.ErrCodeInvalidInput, "no resize in progress")
	}
	prev := s.drag.Live()
	live, _ := s.drag.Move(deltaPixels)
	if live == prev {
		return live, false, nil
	}
	applied, err := s.updateLiveLocked(ctx, live)
	return live, applied, err
}

// EndResize finishes the drag. When the block differs from its start
// state the final value is committed immediately; otherwise any pending
// live update is dropped.
func (s *Session) EndResize(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endResizeLocked(ctx)
}

func (s *Session) endResizeLocked(ctx context.Context) (bool, error) {
	drag := s.drag
	s.drag = nil
	if drag == nil {
		return false, nil
	}
	if !drag.Changed() {
		if s.cancelPendingLocked() {
			return false, s.saveLocked(ctx)
		}
		return false, nil
	}
	return s.updateLocked(ctx, drag.Live(), OpResize)
}

// releaseDragLocked ends an active drag on block id before another intent
// edits that block, so the drag never writes back its stale start state.
func (s *Session) releaseDragLocked(ctx context.Context, id string) error {
	if s.drag == nil || s.drag.Start().ID != id {
		return nil
	}
	s.log.Debug("resize ended by another edit", "id", id)
	_, err := s.endResizeLocked(ctx)
	return err
}

// Resizing reports the block under an active drag.
func (s *Session) Resizing() (grid.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return grid.Block{}, false
	}
	return s.drag.Live(), true
}

// =============================================================================
// History intents
// =============================================================================

// Undo restores the previous snapshot. A pending debounced update is
// committed first so it can be undone like any other edit.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flushLocked(ctx)
	snap, ok := s.hist.Undo()
	observability.Session().OnUndo(ctx, s.hist.Cursor(), ok)
	if !ok {
		return false, nil
	}
	s.restoreLocked(snap)
	return true, s.saveLocked(ctx)
}

// Redo re-applies the next snapshot.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flushLocked(ctx)
	snap, ok := s.hist.Redo()
	observability.Session().OnRedo(ctx, s.hist.Cursor(), ok)
	if !ok {
		return false, nil
	}
	s.restoreLocked(snap)
	return true, s.saveLocked(ctx)
}

// ClearAll empties the layout and resets history. It cannot be undone.
func (s *Session) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.drag = nil
	s.layout = grid.NewLayout()
	s.ui.SelectedID = ""
	s.hist.Reset()
	s.log.Debug("session cleared")
	observability.Session().OnCommit(ctx, OpClear, s.hist.Cursor(), s.hist.Len())
	return s.saveLocked(ctx)
}

func (s *Session) restoreLocked(snap grid.Layout) {
	s.layout = snap
	s.drag = nil
	if s.ui.SelectedID != "" && s.layout.Index(s.ui.SelectedID) < 0 {
		s.ui.SelectedID = ""
	}
}

// =============================================================================
// UI flags
// =============================================================================

// SetPreviewMode toggles preview rendering.
func (s *Session) SetPreviewMode(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ui.PreviewMode == on {
		return nil
	}
	s.ui.PreviewMode = on
	return s.saveLocked(ctx)
}

// Select marks block id as selected. An empty id clears the selection.
func (s *Session) Select(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.layout.Index(id) < 0 {
		return false, s.absorb(ctx, "select", errs.New(errs.ErrCodeNotFound, "block %q not found", id))
	}
	if s.ui.SelectedID == id {
		return true, nil
	}
	s.ui.SelectedID = id
	return true, s.saveLocked(ctx)
}

// =============================================================================
// Lifecycle
// =============================================================================

// Flush commits any pending debounced update now.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.flushLocked(ctx) {
		return nil
	}
	return s.saveLocked(ctx)
}

// Close commits pending work, saves, and stops the debounce timer.
// The store is owned by the caller and stays open.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.drag != nil {
		if _, err := s.endResizeLocked(ctx); err != nil {
			s.log.Warn("finish resize on close", "err", err)
		}
	}
	s.flushLocked(ctx)
	s.closed = true
	return s.saveLocked(ctx)
}

// =============================================================================
// Commit plumbing
// =============================================================================

// commitLocked records the current layout in history and saves. An
// immediate commit supersedes a pending debounced one.
func (s *Session) commitLocked(ctx context.Context, op string) error {
	s.cancelPendingLocked()
	s.hist.Commit(s.layout)
	s.log.Debug("commit", "op", op, "cursor", s.hist.Cursor(), "len", s.hist.Len())
	observability.Session().OnCommit(ctx, op, s.hist.Cursor(), s.hist.Len())
	return s.saveLocked(ctx)
}

// scheduleLocked records the layout as pending and (re)arms the timer.
func (s *Session) scheduleLocked() {
	deadline := s.hist.CommitDebounced(s.layout, s.opts.Now())
	s.armLocked(deadline)
}

func (s *Session) armLocked(deadline time.Time) {
	s.stopTimerLocked()
	if s.closed {
		return
	}
	d := deadline.Sub(s.opts.Now())
	if d < 0 {
		d = 0
	}
	s.timerGen++
	gen := s.timerGen
	s.timer = s.opts.AfterFunc(d, func() { s.onTimer(gen) })
}

// onTimer settles the pending snapshot once its deadline has passed. A
// timer that was replaced or stopped after it fired is ignored.
func (s *Session) onTimer(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.timer == nil || gen != s.timerGen {
		return
	}
	s.timer = nil

	ctx := context.Background()
	if !s.hist.Settle(s.opts.Now()) {
		if _, deadline, ok := s.hist.Pending(); ok {
			s.armLocked(deadline)
		}
		return
	}
	s.log.Debug("commit", "op", OpSettle, "cursor", s.hist.Cursor(), "len", s.hist.Len())
	observability.Session().OnCommit(ctx, OpSettle, s.hist.Cursor(), s.hist.Len())
	if err := s.saveLocked(ctx); err != nil {
		s.log.Warn("save after debounced commit", "err", err)
	}
}

// flushLocked commits a pending snapshot immediately.
func (s *Session) flushLocked(ctx context.Context) bool {
	s.stopTimerLocked()
	if !s.hist.Flush() {
		return false
	}
	s.log.Debug("commit", "op", "flush", "cursor", s.hist.Cursor(), "len", s.hist.Len())
	observability.Session().OnCommit(ctx, OpSettle, s.hist.Cursor(), s.hist.Len())
	return true
}

func (s *Session) cancelPendingLocked() bool {
	s.stopTimerLocked()
	return s.hist.Cancel()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// absorb logs an engine rejection and swallows it. Anything that is not an
// expected rejection is returned unchanged.
func (s *Session) absorb(ctx context.Context, op string, err error) error {
	if !errs.Absorbed(err) {
		return err
	}
	code := string(errs.GetCode(err))
	s.log.Debug("intent rejected", "op", op, "code", code, "err", err)
	observability.Session().OnRejected(ctx, op, code)
	return nil
}

func (s *Session) saveLocked(ctx context.Context) error {
	return s.persist.Save(ctx, Snapshot{
		Layout:  s.layout,
		History: s.hist.Snapshots(),
		Cursor:  s.hist.Cursor(),
		UI:      s.ui,
	})
}
