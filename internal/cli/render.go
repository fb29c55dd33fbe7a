package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gridboard/pkg/grid"
)

const (
	defaultCellWidth = 8 // terminal columns per grid column
	minCellWidth     = 4
	maxCellWidth     = 16
)

var (
	blockTextStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
	blockImageStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBlue).Padding(0, 1)
	blockSelectedStyle = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(colorCyan).Padding(0, 1).Bold(true)
	blockPreviewStyle  = lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 1)
	emptyCellStyle     = lipgloss.NewStyle().Foreground(colorDim).Align(lipgloss.Center)
	rulerStyle         = lipgloss.NewStyle().Foreground(colorDim).Align(lipgloss.Center)
)

// renderOptions controls how a layout is drawn in the terminal.
type renderOptions struct {
	cellWidth int    // terminal columns per grid column
	selected  string // highlighted block id
	preview   bool   // hide ids, empty cells and the ruler
}

// cellWidthFor picks a cell width that fits termWidth, or the default when
// the terminal size is unknown.
func cellWidthFor(termWidth int) int {
	if termWidth <= 0 {
		return defaultCellWidth
	}
	return clampInt(termWidth/grid.Columns, minCellWidth, maxCellWidth)
}

// renderGrid draws layout as rows of boxes, one terminal box per block,
// with dotted placeholders for free cells.
func renderGrid(layout grid.Layout, opts renderOptions) string {
	if opts.cellWidth <= 0 {
		opts.cellWidth = defaultCellWidth
	}
	if layout.Empty() {
		return StyleDim.Render("Empty board. Add a block with: gridboard add text")
	}

	var lines []string
	if !opts.preview {
		lines = append(lines, renderRuler(opts.cellWidth))
	}

	for _, row := range layout.Rows() {
		lines = append(lines, renderRow(row, opts))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRuler(cellWidth int) string {
	cells := make([]string, grid.Columns)
	for col := range cells {
		cells[col] = rulerStyle.Width(cellWidth).Render(strconv.Itoa(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderRow draws one grid row. blocks must be sorted by column.
func renderRow(blocks []grid.Block, opts renderOptions) string {
	var cells []string
	col := 0
	for _, b := range blocks {
		for ; col < b.Position.X; col++ {
			cells = append(cells, renderEmptyCell(opts))
		}
		cells = append(cells, renderBlock(b, opts))
		col = b.Right()
	}
	for ; col < grid.Columns; col++ {
		cells = append(cells, renderEmptyCell(opts))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderEmptyCell(opts renderOptions) string {
	mark := "·"
	if opts.preview {
		mark = ""
	}
	return emptyCellStyle.Width(opts.cellWidth).Height(3).Render("\n" + mark)
}

func renderBlock(b grid.Block, opts renderOptions) string {
	style := blockTextStyle
	switch {
	case opts.preview:
		style = blockPreviewStyle
	case b.ID == opts.selected:
		style = blockSelectedStyle
	case b.Kind == grid.KindImage:
		style = blockImageStyle
	}

	// Border and padding take four terminal columns.
	inner := b.Width*opts.cellWidth - 4
	if inner < 1 {
		inner = 1
	}
	return style.Width(inner + 2).Render(truncate(blockLabel(b, opts.preview), inner))
}

func blockLabel(b grid.Block, preview bool) string {
	content := strings.Join(strings.Fields(b.Content), " ")
	if b.Kind == grid.KindImage {
		content = "▣ " + content
	}
	if preview {
		return content
	}
	return shortID(b.ID) + " " + content
}

// truncate shortens s to at most n display cells, marking the cut with an
// ellipsis.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// =============================================================================
// Tables
// =============================================================================

// blockTable lists blocks in reading order.
func blockTable(layout grid.Layout, selected string) string {
	rows := make([][]string, 0, layout.Len())
	for _, b := range layout.Sorted() {
		marker := ""
		if b.ID == selected {
			marker = "▸"
		}
		rows = append(rows, []string{
			marker,
			shortID(b.ID),
			string(b.Kind),
			b.Position.String(),
			strconv.Itoa(b.Width),
			truncate(strings.Join(strings.Fields(b.Content), " "), 40),
		})
	}
	return newTable("", "ID", "TYPE", "POS", "WIDTH", "CONTENT").Rows(rows...).Render()
}

// historyTable lists snapshots with the cursor marked.
func historyTable(snapshots []grid.Layout, cursor int) string {
	rows := make([][]string, 0, len(snapshots))
	for i, snap := range snapshots {
		marker := ""
		if i == cursor {
			marker = "▸"
		}
		rows = append(rows, []string{marker, strconv.Itoa(i), strconv.Itoa(snap.Len()), summarize(snap)})
	}
	return newTable("", "#", "BLOCKS", "LAYOUT").Rows(rows...).Render()
}

// summarize describes a snapshot as its rows of widths, e.g. "6+6 | 6".
func summarize(l grid.Layout) string {
	var parts []string
	for _, row := range l.Rows() {
		if len(row) == 0 {
			parts = append(parts, "-")
			continue
		}
		widths := make([]string, len(row))
		for i, b := range row {
			widths[i] = strconv.Itoa(b.Width)
		}
		parts = append(parts, strings.Join(widths, "+"))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return truncate(strings.Join(parts, " | "), 48)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		})
}

// describeBlock is the one-line summary printed after block commands.
func describeBlock(b grid.Block) string {
	return fmt.Sprintf("%s %s at %s, width %d", string(b.Kind), StyleHighlight.Render(shortID(b.ID)), b.Position, b.Width)
}
