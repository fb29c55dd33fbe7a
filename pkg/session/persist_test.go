package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/store"
)

func TestReopenRestoresState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	f := newFixtureWithStore(t, st)
	a := f.add(t, grid.KindText)
	f.add(t, grid.KindImage)
	f.add(t, grid.KindText)
	f.sess.Undo(ctx)
	f.sess.Select(ctx, a.ID)
	f.sess.SetPreviewMode(ctx, true)
	if err := f.sess.Close(ctx); err != nil {
		t.Fatal(err)
	}
	want := f.sess.State()

	g := newFixtureWithStore(t, st)
	got := g.sess.State()
	if !got.Layout.Equal(want.Layout) {
		t.Errorf("layout = %v, want %v", got.Layout.Blocks(), want.Layout.Blocks())
	}
	if got.Cursor != 1 || got.Length != 3 {
		t.Errorf("history %d@%d, want 3@1", got.Length, got.Cursor)
	}
	if got.UI != want.UI {
		t.Errorf("ui = %+v, want %+v", got.UI, want.UI)
	}

	// Redo still works across the reload.
	if ok, _ := g.sess.Redo(ctx); !ok {
		t.Error("Redo after reload should apply")
	}
	if g.sess.Layout().Len() != 3 {
		t.Error("redo should restore the third block")
	}
}

func TestLoadCorruptKeysFallBack(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		data        map[string]string
		wantBlocks  int
		wantLength  int
		wantCursor  int
		wantPreview bool
	}{
		{
			name:       "empty store",
			wantCursor: -1,
		},
		{
			name: "corrupt layout uses snapshot under cursor",
			data: map[string]string{
				KeyLayout:       "{oops",
				KeyHistory:      `[[{"id":"a","type":"text","content":"","width":6,"position":{"x":0,"y":0}}]]`,
				KeyHistoryIndex: "0",
			},
			wantBlocks: 1,
			wantLength: 1,
			wantCursor: 0,
		},
		{
			name: "missing layout uses snapshot under cursor",
			data: map[string]string{
				KeyHistory:      `[[],[{"id":"a","type":"text","content":"","width":6,"position":{"x":0,"y":0}}],[{"id":"a","type":"text","content":"","width":6,"position":{"x":0,"y":0}},{"id":"b","type":"image","content":"","width":6,"position":{"x":6,"y":0}}]]`,
				KeyHistoryIndex: "1",
			},
			wantBlocks: 1,
			wantLength: 3,
			wantCursor: 1,
		},
		{
			name: "missing layout with stray cursor uses newest snapshot",
			data: map[string]string{
				KeyHistory:      `[[],[{"id":"a","type":"text","content":"","width":6,"position":{"x":0,"y":0}}]]`,
				KeyHistoryIndex: "9",
			},
			wantBlocks: 1,
			wantLength: 2,
			wantCursor: 1,
		},
		{
			name: "corrupt history keeps layout",
			data: map[string]string{
				KeyLayout:       `[{"id":"a","type":"text","content":"","width":6,"position":{"x":0,"y":0}}]`,
				KeyHistory:      "not json",
				KeyHistoryIndex: "4",
				KeyUI:           `{"preview_mode":true}`,
			},
			wantBlocks:  1,
			wantLength:  0,
			wantCursor:  -1,
			wantPreview: true,
		},
		{
			name: "cursor out of range clamps",
			data: map[string]string{
				KeyHistory:      `[[],[],[]]`,
				KeyHistoryIndex: "17",
			},
			wantLength: 3,
			wantCursor: 2,
		},
		{
			name: "non-numeric cursor uses newest",
			data: map[string]string{
				KeyHistory:      `[[],[]]`,
				KeyHistoryIndex: "two",
			},
			wantLength: 2,
			wantCursor: 1,
		},
		{
			name: "missing cursor uses newest",
			data: map[string]string{
				KeyHistory: `[[],[],[]]`,
			},
			wantLength: 3,
			wantCursor: 2,
		},
		{
			name: "corrupt ui resets flags",
			data: map[string]string{
				KeyUI: `{"preview_mode":"yes"}`,
			},
			wantCursor: -1,
		},
		{
			name: "bad widths are repaired",
			data: map[string]string{
				KeyLayout: `[{"id":"a","type":"text","content":"","width":20,"position":{"x":5,"y":-1}},{"id":"","type":"text"}]`,
			},
			wantBlocks: 1,
			wantCursor: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			for k, v := range tt.data {
				if err := st.Set(ctx, k, []byte(v)); err != nil {
					t.Fatal(err)
				}
			}
			f := newFixtureWithStore(t, st)
			got := f.sess.State()
			if got.Layout.Len() != tt.wantBlocks {
				t.Errorf("blocks = %d, want %d", got.Layout.Len(), tt.wantBlocks)
			}
			if got.Length != tt.wantLength || got.Cursor != tt.wantCursor {
				t.Errorf("history %d@%d, want %d@%d", got.Length, got.Cursor, tt.wantLength, tt.wantCursor)
			}
			if got.UI.PreviewMode != tt.wantPreview {
				t.Errorf("preview = %v, want %v", got.UI.PreviewMode, tt.wantPreview)
			}
			for _, b := range got.Layout.Blocks() {
				if !b.Fits() {
					t.Errorf("restored block %+v breaks the column bounds", b)
				}
			}
		})
	}
}

func TestSaveWritesAllKeys(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	f := newFixtureWithStore(t, st)
	f.add(t, grid.KindText)

	keys := st.Keys()
	if len(keys) != len(Keys) {
		t.Fatalf("keys = %v, want %v", keys, Keys)
	}
	idx, _, _ := st.Get(ctx, KeyHistoryIndex)
	if string(idx) != "0" {
		t.Errorf("history_index = %q, want 0", idx)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	open := func(ns string) *Session {
		s, err := Open(ctx, Options{Store: st, Namespace: ns, Logger: log.New(io.Discard)})
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	home := open("home")
	home.AddBlock(ctx, grid.KindText)
	work := open("work")
	if !work.Layout().Empty() {
		t.Error("work board sees home's blocks")
	}
	if open("home").Layout().Len() != 1 {
		t.Error("home board lost its block")
	}
	for _, k := range st.Keys() {
		if k[:5] != "home:" {
			t.Errorf("unexpected key %q", k)
		}
	}
}

type failingStore struct{}

var errDown = errors.New("backend down")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDown }
func (failingStore) Set(context.Context, string, []byte) error         { return errDown }
func (failingStore) Delete(context.Context, string) error              { return errDown }
func (failingStore) Close() error                                      { return nil }

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{Store: failingStore{}, Logger: log.New(io.Discard)})
	if !errs.Is(err, errs.ErrCodeStoreUnavailable) || !errors.Is(err, errDown) {
		t.Errorf("Open err = %v, want STORE_UNAVAILABLE wrapping backend error", err)
	}

	p := NewPersister(failingStore{}, log.New(io.Discard))
	err = p.Save(ctx, Snapshot{Layout: grid.NewLayout(), Cursor: -1})
	if !errs.Is(err, errs.ErrCodeStoreUnavailable) {
		t.Errorf("Save err = %v, want STORE_UNAVAILABLE", err)
	}
}

func TestPersisterClear(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	p := NewPersister(st, nil)
	if err := p.Save(ctx, Snapshot{Layout: grid.NewLayout(), Cursor: -1}); err != nil {
		t.Fatal(err)
	}
	if err := p.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if keys := st.Keys(); len(keys) != 0 {
		t.Errorf("keys after clear = %v", keys)
	}
}
