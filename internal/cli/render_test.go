package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridboard/pkg/grid"
)

func mustBlock(t *testing.T, id string, kind grid.Kind, content string, width, x, y int) grid.Block {
	t.Helper()
	b, err := grid.NewBlock(id, kind, content, width, grid.Position{X: x, Y: y})
	if err != nil {
		t.Fatalf("NewBlock(%s): %v", id, err)
	}
	return b
}

func TestRenderGridEmpty(t *testing.T) {
	got := renderGrid(grid.NewLayout(), renderOptions{})
	if !strings.Contains(got, "Empty board") {
		t.Errorf("renderGrid(empty) = %q, want empty-board hint", got)
	}
}

func TestRenderGridRowsFillTheWidth(t *testing.T) {
	layout := grid.NewLayout(
		mustBlock(t, "b1", grid.KindText, "Hello", 6, 0, 0),
		mustBlock(t, "b2", grid.KindImage, "https://placehold.co/600x400", 6, 6, 0),
		mustBlock(t, "b3", grid.KindText, "Below", 4, 2, 2),
	)

	got := renderGrid(layout, renderOptions{cellWidth: 8, selected: "b1"})

	for _, want := range []string{"b1 Hello", "b2 ▣", "b3 Below", "11"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderGrid output missing %q:\n%s", want, got)
		}
	}
	for i, line := range strings.Split(got, "\n") {
		if w := lipgloss.Width(line); w != grid.Columns*8 {
			t.Errorf("line %d width = %d, want %d: %q", i, w, grid.Columns*8, line)
		}
	}
	// Ruler plus three rows of three lines each; row 1 is empty.
	if n := strings.Count(got, "\n") + 1; n != 1+3*3 {
		t.Errorf("renderGrid produced %d lines, want %d", n, 1+3*3)
	}
}

func TestRenderGridPreviewHidesIDs(t *testing.T) {
	layout := grid.NewLayout(mustBlock(t, "b1", grid.KindText, "Hello", 6, 0, 0))

	got := renderGrid(layout, renderOptions{cellWidth: 8, preview: true})

	if strings.Contains(got, "b1") {
		t.Errorf("preview should not show ids:\n%s", got)
	}
	if strings.Contains(got, "·") {
		t.Errorf("preview should not mark free cells:\n%s", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Errorf("preview should show content:\n%s", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 5, "abc"},
		{"hello world", 5, "hell…"},
		{"hello", 1, "…"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestCellWidthFor(t *testing.T) {
	tests := []struct {
		term, want int
	}{
		{0, defaultCellWidth},
		{60, 5},
		{24, minCellWidth},
		{400, maxCellWidth},
	}
	for _, tt := range tests {
		if got := cellWidthFor(tt.term); got != tt.want {
			t.Errorf("cellWidthFor(%d) = %d, want %d", tt.term, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	layout := grid.NewLayout(
		mustBlock(t, "b1", grid.KindText, "a", 6, 0, 0),
		mustBlock(t, "b2", grid.KindText, "b", 6, 6, 0),
		mustBlock(t, "b3", grid.KindText, "c", 4, 0, 2),
	)
	if got, want := summarize(layout), "6+6 | - | 4"; got != want {
		t.Errorf("summarize = %q, want %q", got, want)
	}
	if got := summarize(grid.NewLayout()); got != "empty" {
		t.Errorf("summarize(empty) = %q, want %q", got, "empty")
	}
}

func TestTables(t *testing.T) {
	layout := grid.NewLayout(mustBlock(t, "b1", grid.KindText, "Hello", 6, 0, 0))

	blocks := blockTable(layout, "b1")
	for _, want := range []string{"ID", "b1", "text", "(0,0)", "Hello", "▸"} {
		if !strings.Contains(blocks, want) {
			t.Errorf("blockTable missing %q:\n%s", want, blocks)
		}
	}

	hist := historyTable([]grid.Layout{grid.NewLayout(), layout}, 1)
	for _, want := range []string{"BLOCKS", "empty", "▸"} {
		if !strings.Contains(hist, want) {
			t.Errorf("historyTable missing %q:\n%s", want, hist)
		}
	}
}
