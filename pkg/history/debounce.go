package history

import "time"

// CommitDebounced schedules s to be committed once the history has been
// quiet for the debounce window. A later call before the deadline replaces
// s and restarts the window. It returns the new deadline.
func (h *History[S]) CommitDebounced(s S, now time.Time) time.Time {
	h.pending = &s
	h.deadline = now.Add(h.cfg.window)
	return h.deadline
}

// Settle commits the pending snapshot if its deadline has passed at now.
// It reports whether a commit happened.
func (h *History[S]) Settle(now time.Time) bool {
	if h.pending == nil || now.Before(h.deadline) {
		return false
	}
	return h.Flush()
}

// Flush commits the pending snapshot immediately, ignoring the deadline.
func (h *History[S]) Flush() bool {
	if h.pending == nil {
		return false
	}
	s := *h.pending
	h.Cancel()
	h.Commit(s)
	return true
}

// Cancel drops the pending snapshot without committing it.
func (h *History[S]) Cancel() bool {
	had := h.pending != nil
	h.pending = nil
	h.deadline = time.Time{}
	return had
}

// Pending returns the pending snapshot and its deadline.
func (h *History[S]) Pending() (S, time.Time, bool) {
	if h.pending == nil {
		var zero S
		return zero, time.Time{}, false
	}
	return *h.pending, h.deadline, true
}
