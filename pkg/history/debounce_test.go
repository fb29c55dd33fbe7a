package history

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestCommitDebouncedLastWriteWins(t *testing.T) {
	h := New[int]()
	h.Commit(0)

	// Frames every 50ms: each one pushes the deadline out.
	for i := 1; i <= 5; i++ {
		now := t0.Add(time.Duration(i) * 50 * time.Millisecond)
		deadline := h.CommitDebounced(i, now)
		if want := now.Add(DefaultDebounce); !deadline.Equal(want) {
			t.Errorf("frame %d deadline = %v, want %v", i, deadline, want)
		}
		if h.Settle(now) {
			t.Fatalf("frame %d settled before the quiet period", i)
		}
	}

	if h.Len() != 1 {
		t.Fatalf("intermediate frames reached history: len=%d", h.Len())
	}

	last := t0.Add(250 * time.Millisecond)
	if h.Settle(last.Add(299 * time.Millisecond)) {
		t.Error("Settle() committed before the deadline")
	}
	if !h.Settle(last.Add(300 * time.Millisecond)) {
		t.Fatal("Settle() did not commit at the deadline")
	}

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
	if cur, _ := h.Current(); cur != 5 {
		t.Errorf("Current() = %d, want the last frame 5", cur)
	}
	if _, _, ok := h.Pending(); ok {
		t.Error("pending snapshot should be cleared after Settle")
	}
	if h.Settle(last.Add(time.Hour)) {
		t.Error("second Settle() should be a no-op")
	}
}

func TestCommitDebouncedSeparateQuietPeriods(t *testing.T) {
	h := New[int]()
	h.CommitDebounced(1, t0)
	h.Settle(t0.Add(400 * time.Millisecond))
	h.CommitDebounced(2, t0.Add(time.Second))
	h.Settle(t0.Add(2 * time.Second))

	got := h.Snapshots()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Snapshots() = %v, want [1 2]", got)
	}
}

func TestFlushAndCancel(t *testing.T) {
	h := New[int]()
	if h.Flush() {
		t.Error("Flush() without pending should report false")
	}
	if h.Cancel() {
		t.Error("Cancel() without pending should report false")
	}

	h.CommitDebounced(7, t0)
	if !h.Flush() {
		t.Fatal("Flush() should commit the pending snapshot")
	}
	if cur, _ := h.Current(); cur != 7 {
		t.Errorf("Current() = %d, want 7", cur)
	}

	h.CommitDebounced(8, t0)
	if !h.Cancel() {
		t.Fatal("Cancel() should report the dropped snapshot")
	}
	if h.Settle(t0.Add(time.Hour)) {
		t.Error("Settle() after Cancel should not commit")
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestWithDebounce(t *testing.T) {
	h := New[int](WithDebounce(time.Second))
	if h.Window() != time.Second {
		t.Errorf("Window() = %v", h.Window())
	}
	h.CommitDebounced(1, t0)
	if h.Settle(t0.Add(500 * time.Millisecond)) {
		t.Error("custom window ignored")
	}
	if !h.Settle(t0.Add(time.Second)) {
		t.Error("custom window not honoured")
	}

	for _, d := range []time.Duration{0, -time.Second} {
		h := New[int](WithDebounce(d))
		if h.Window() != DefaultDebounce {
			t.Errorf("WithDebounce(%v).Window() = %v, want %v", d, h.Window(), DefaultDebounce)
		}
		h.CommitDebounced(1, t0)
		if h.Settle(t0.Add(DefaultDebounce - time.Millisecond)) {
			t.Errorf("WithDebounce(%v) settled before the default window", d)
		}
		if !h.Settle(t0.Add(DefaultDebounce)) {
			t.Errorf("WithDebounce(%v) did not settle at the default window", d)
		}
	}
}
