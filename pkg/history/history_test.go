package history

import (
	"testing"
	"time"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

func TestEmpty(t *testing.T) {
	h := New[int]()
	if h.Cursor() != -1 || h.Len() != 0 {
		t.Errorf("new history cursor=%d len=%d, want -1/0", h.Cursor(), h.Len())
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() on empty history should report false")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() on empty history should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() on empty history should be a no-op")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history should not allow undo or redo")
	}
}

func TestCommitUndoRedo(t *testing.T) {
	h := New[string]()
	h.Commit("a")
	h.Commit("b")
	h.Commit("c")

	if h.Cursor() != 2 || h.Len() != 3 {
		t.Fatalf("cursor=%d len=%d, want 2/3", h.Cursor(), h.Len())
	}

	got, ok := h.Undo()
	if !ok || got != "b" {
		t.Errorf("Undo() = %q, %v; want b", got, ok)
	}
	got, ok = h.Undo()
	if !ok || got != "a" {
		t.Errorf("Undo() = %q, %v; want a", got, ok)
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() at cursor 0 should be a no-op")
	}
	if cur, _ := h.Current(); cur != "a" || h.Cursor() != 0 {
		t.Errorf("after no-op undo current=%q cursor=%d", cur, h.Cursor())
	}

	got, ok = h.Redo()
	if !ok || got != "b" {
		t.Errorf("Redo() = %q, %v; want b", got, ok)
	}
	got, ok = h.Redo()
	if !ok || got != "c" {
		t.Errorf("Redo() = %q, %v; want c", got, ok)
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() at the newest snapshot should be a no-op")
	}
}

func TestCommitAfterUndoTruncates(t *testing.T) {
	h := New[string]()
	for _, s := range []string{"a", "b", "c", "d"} {
		h.Commit(s)
	}
	h.Undo()
	h.Undo()

	h.Commit("x")
	want := []string{"a", "b", "x"}
	got := h.Snapshots()
	if len(got) != len(want) {
		t.Fatalf("Snapshots() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshots()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if h.CanRedo() {
		t.Error("redo branch should be discarded after commit")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() should fail for discarded states")
	}
}

func TestLimit(t *testing.T) {
	h := New[int]()
	for i := 1; i <= 51; i++ {
		h.Commit(i)
		if h.Len() > DefaultLimit {
			t.Fatalf("Len() = %d after %d commits", h.Len(), i)
		}
	}

	if h.Len() != 50 {
		t.Errorf("Len() = %d, want 50", h.Len())
	}
	if h.Cursor() != 49 {
		t.Errorf("Cursor() = %d, want 49", h.Cursor())
	}
	if cur, _ := h.Current(); cur != 51 {
		t.Errorf("Current() = %d, want 51", cur)
	}
	if first := h.Snapshots()[0]; first != 2 {
		t.Errorf("oldest snapshot = %d, want 2 (1 evicted)", first)
	}

	// Walk back to the oldest surviving snapshot.
	var last int
	undos := 0
	for {
		s, ok := h.Undo()
		if !ok {
			break
		}
		last = s
		undos++
	}
	if undos != 49 || last != 2 {
		t.Errorf("undid %d steps to %d, want 49 steps to 2", undos, last)
	}
}

func TestLimitAfterUndoDoesNotEvict(t *testing.T) {
	h := New[int](WithLimit(3))
	h.Commit(1)
	h.Commit(2)
	h.Commit(3)
	h.Undo()
	h.Commit(4)

	got := h.Snapshots()
	if len(got) != 3 || got[0] != 1 || got[2] != 4 {
		t.Errorf("Snapshots() = %v, want [1 2 4]", got)
	}
	if h.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", h.Cursor())
	}
}

func TestReset(t *testing.T) {
	h := New[int]()
	h.Commit(1)
	h.CommitDebounced(2, time.Now())
	h.Reset()

	if h.Len() != 0 || h.Cursor() != -1 {
		t.Errorf("after Reset len=%d cursor=%d", h.Len(), h.Cursor())
	}
	if _, _, ok := h.Pending(); ok {
		t.Error("Reset should drop the pending snapshot")
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name       string
		snapshots  []int
		cursor     int
		limit      int
		wantCursor int
		wantLen    int
		wantErr    bool
	}{
		{"empty", nil, -1, 50, -1, 0, false},
		{"empty with stray cursor", nil, 3, 50, -1, 0, true},
		{"mid cursor", []int{1, 2, 3}, 1, 50, 1, 3, false},
		{"cursor too large", []int{1, 2, 3}, 7, 50, 2, 3, true},
		{"cursor negative", []int{1, 2, 3}, -1, 50, 2, 3, true},
		{"trimmed to limit", []int{1, 2, 3, 4, 5}, 4, 3, 2, 3, false},
		{"trim pushes cursor out", []int{1, 2, 3, 4, 5}, 0, 3, 2, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Restore(tt.snapshots, tt.cursor, WithLimit(tt.limit))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Restore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodePersistenceCorrupt) {
				t.Errorf("Restore() code = %v, want PERSISTENCE_CORRUPT", errs.GetCode(err))
			}
			if h == nil {
				t.Fatal("Restore() should always return a usable history")
			}
			if h.Cursor() != tt.wantCursor || h.Len() != tt.wantLen {
				t.Errorf("Restore() cursor=%d len=%d, want %d/%d", h.Cursor(), h.Len(), tt.wantCursor, tt.wantLen)
			}
		})
	}
}

func TestRestoreCopiesInput(t *testing.T) {
	in := []int{1, 2, 3}
	h, err := Restore(in, 0)
	if err != nil {
		t.Fatal(err)
	}
	h.Commit(9)
	if in[1] != 2 {
		t.Errorf("Restore should not alias the caller's slice, got %v", in)
	}
}
