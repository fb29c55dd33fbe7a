package cli

import (
	"strings"
	"testing"
)

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name  string
		print func()
		want  string
	}{
		{"success", func() { printSuccess("Added %s", "b1") }, "✓ Added b1"},
		{"error", func() { printError("Could not reach %s", "redis") }, "✗ Could not reach redis"},
		{"warning", func() { printWarning("Move rejected") }, "! Move rejected"},
		{"info", func() { printInfo("Nothing to change") }, "› Nothing to change"},
		{"detail", func() { printDetail("%d blocks", 2) }, "  2 blocks"},
		{"next step", func() { printNextStep("Undo it", "gridboard undo") }, "Undo it: gridboard undo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t)
			tt.print()
			if got := out.String(); !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestPrintHistoryLine(t *testing.T) {
	tests := []struct {
		cursor, length   int
		canUndo, canRedo bool
		want             string
	}{
		{0, 1, false, false, "snapshot 1/1\n"},
		{1, 3, true, true, "snapshot 2/3 · undo · redo\n"},
		{2, 3, true, false, "snapshot 3/3 · undo\n"},
		{-1, 0, false, false, "snapshot 0/0\n"},
	}

	for _, tt := range tests {
		out := captureOutput(t)
		printHistoryLine(tt.cursor, tt.length, tt.canUndo, tt.canRedo)
		if got := out.String(); !strings.HasSuffix(got, tt.want) {
			t.Errorf("printHistoryLine(%d, %d) = %q, want suffix %q", tt.cursor, tt.length, got, tt.want)
		}
	}
}
