package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/store"
)

// Storage keys. Each is read and written independently.
const (
	KeyLayout       = "layout"
	KeyHistory      = "history"
	KeyHistoryIndex = "history_index"
	KeyUI           = "ui"
)

// Keys lists every key a session writes.
var Keys = []string{KeyLayout, KeyHistory, KeyHistoryIndex, KeyUI}

// Snapshot is everything a session persists.
type Snapshot struct {
	Layout  grid.Layout
	History []grid.Layout
	Cursor  int
	UI      UIState
}

// Loaded is a restored snapshot plus how many keys fell back to defaults.
type Loaded struct {
	Snapshot
	Skipped int
}

// Persister reads and writes session snapshots to a store.
type Persister struct {
	store store.Store
	log   *log.Logger
}

// NewPersister creates a persister over st.
func NewPersister(st store.Store, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.Default()
	}
	return &Persister{store: st, log: logger}
}

// Save writes all keys concurrently. Each value is encoded before any
// write starts, so an encoding failure writes nothing.
func (p *Persister) Save(ctx context.Context, snap Snapshot) error {
	values := make(map[string][]byte, len(Keys))

	layout, err := json.Marshal(snap.Layout)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", KeyLayout)
	}
	values[KeyLayout] = layout

	hist := snap.History
	if hist == nil {
		hist = []grid.Layout{}
	}
	historyData, err := json.Marshal(hist)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", KeyHistory)
	}
	values[KeyHistory] = historyData
	values[KeyHistoryIndex] = []byte(strconv.Itoa(snap.Cursor))

	ui, err := json.Marshal(snap.UI)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", KeyUI)
	}
	values[KeyUI] = ui

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range Keys {
		key := key
		data := values[key]
		g.Go(func() error {
			if err := p.store.Set(gctx, key, data); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.log.Warn("session save failed", "err", err)
		return errs.Wrap(errs.ErrCodeStoreUnavailable, err, "save session")
	}
	return nil
}

// Load reads every key. A missing key takes its default silently; a
// corrupt one takes its default and is logged. A missing or corrupt layout
// with a readable history takes the snapshot under the cursor instead.
// Only store failures are returned as errors.
func (p *Persister) Load(ctx context.Context) (Loaded, error) {
	out := Loaded{Snapshot: Snapshot{Layout: grid.NewLayout(), Cursor: -1}}

	raw := make(map[string][]byte, len(Keys))
	found := make(map[string]bool, len(Keys))
	for _, key := range Keys {
		data, ok, err := p.store.Get(ctx, key)
		if err != nil {
			return Loaded{}, errs.Wrap(errs.ErrCodeStoreUnavailable, err, "load %s", key)
		}
		raw[key], found[key] = data, ok
	}

	layoutOK := false
	if found[KeyLayout] {
		layout, err := decodeLayout(raw[KeyLayout])
		if err != nil {
			p.corrupt(KeyLayout, err)
			out.Skipped++
		} else {
			out.Layout = p.repair(KeyLayout, layout)
			layoutOK = true
		}
	}

	historyOK := false
	if found[KeyHistory] {
		var snaps []grid.Layout
		if err := json.Unmarshal(raw[KeyHistory], &snaps); err != nil {
			p.corrupt(KeyHistory, err)
			out.Skipped++
		} else {
			for i, snap := range snaps {
				snaps[i] = p.repair(KeyHistory, snap)
			}
			out.History = snaps
			historyOK = true
		}
	}

	if found[KeyHistoryIndex] {
		cursor, err := strconv.Atoi(string(raw[KeyHistoryIndex]))
		if err != nil {
			p.corrupt(KeyHistoryIndex, err)
			out.Skipped++
			out.Cursor = len(out.History) - 1
		} else {
			out.Cursor = cursor
		}
	} else if historyOK {
		out.Cursor = len(out.History) - 1
	}
	if !historyOK {
		out.History = nil
		out.Cursor = -1
	}
	if !layoutOK && len(out.History) > 0 {
		at := min(max(out.Cursor, 0), len(out.History)-1)
		out.Layout = out.History[at]
		p.log.Info("layout restored from history", "cursor", at)
	}

	if found[KeyUI] {
		if err := json.Unmarshal(raw[KeyUI], &out.UI); err != nil {
			p.corrupt(KeyUI, err)
			out.Skipped++
			out.UI = UIState{}
		}
	}
	return out, nil
}

// Clear deletes every session key.
func (p *Persister) Clear(ctx context.Context) error {
	for _, key := range Keys {
		if err := p.store.Delete(ctx, key); err != nil {
			return errs.Wrap(errs.ErrCodeStoreUnavailable, err, "delete %s", key)
		}
	}
	return nil
}

func decodeLayout(data []byte) (grid.Layout, error) {
	var l grid.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return grid.Layout{}, err
	}
	return l, nil
}

func (p *Persister) corrupt(key string, err error) {
	err = errs.Wrap(errs.ErrCodePersistenceCorrupt, err, "decode %s", key)
	p.log.Warn("stored key is corrupt, using default", "key", key, "err", err)
}

// repair drops or clamps blocks that break the grid rules.
func (p *Persister) repair(key string, l grid.Layout) grid.Layout {
	fixed, n := grid.Normalize(l)
	if n > 0 {
		p.log.Warn("repaired stored layout", "key", key, "fixes", n)
	}
	return fixed
}
