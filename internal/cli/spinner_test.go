package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func captureSpinner(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := spinnerOutput
	spinnerOutput = buf
	t.Cleanup(func() { spinnerOutput = prev })
	return buf
}

func TestWithSpinnerDrawsWhileWaiting(t *testing.T) {
	buf := captureSpinner(t)

	err := withSpinner(context.Background(), "Connecting to redis...", func(context.Context) error {
		time.Sleep(4 * spinnerInterval)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.Contains(got, "Connecting to redis...") {
		t.Errorf("spinner output %q should contain the message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner should clear its line, got %q", got)
	}
}

func TestWithSpinnerFastCallDrawsNothing(t *testing.T) {
	buf := captureSpinner(t)

	if err := withSpinner(context.Background(), "Connecting...", func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("fast call drew %q", buf.String())
	}
}

func TestWithSpinnerReturnsError(t *testing.T) {
	captureSpinner(t)
	want := errors.New("dial tcp: refused")

	got := withSpinner(context.Background(), "Connecting...", func(context.Context) error { return want })
	if !errors.Is(got, want) {
		t.Errorf("withSpinner() = %v, want %v", got, want)
	}
}

func TestWithSpinnerPassesContext(t *testing.T) {
	captureSpinner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withSpinner(ctx, "Connecting...", func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("withSpinner() = %v, want context.Canceled", err)
	}
}
