package grid

import (
	"math"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Default pixel metrics.
const (
	// DefaultRowHeight is the rendered height of one grid row in pixels.
	DefaultRowHeight = 80.0

	// DefaultResizeStep is the horizontal drag distance in pixels that
	// counts as one column during a resize.
	DefaultResizeStep = 100.0
)

// Grid holds the pixel metrics used to translate pointer events into grid
// coordinates. The zero value is not usable; start from [Default].
type Grid struct {
	RowHeight  float64
	ResizeStep float64
}

// Default returns the standard metrics: 80px rows, 100px per resize column.
func Default() Grid {
	return Grid{RowHeight: DefaultRowHeight, ResizeStep: DefaultResizeStep}
}

// Point is a pointer location in pixels relative to the grid container.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell converts a drop point into the grid cell under it. The column is
// clamped to [0, 11] and the row floored at 0.
func (g Grid) Cell(p Point, containerWidth float64) Position {
	col := floorIn(p.X/(containerWidth/Columns), 0, Columns-1)
	row := floorIn(p.Y/g.RowHeight, 0, maxRow)
	return Position{X: col, Y: row}
}

// Center returns the pixel point at the middle of cell pos, the inverse of
// [Grid.Cell] for keyboard and command-line moves.
func (g Grid) Center(pos Position, containerWidth float64) Point {
	colWidth := containerWidth / Columns
	return Point{
		X: (float64(pos.X) + 0.5) * colWidth,
		Y: (float64(pos.Y) + 0.5) * g.RowHeight,
	}
}

// maxRow caps row indices derived from pointer input.
const maxRow = math.MaxInt32

// floorIn floors v and clamps it to [lo, hi]. NaN maps to lo.
func floorIn(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	return int(math.Max(float64(lo), math.Min(math.Floor(v), float64(hi))))
}

// Reorder moves the block movingID to the cell under drop.
//
// When another block covers that cell the two blocks swap anchor positions
// and keep their widths. Otherwise the moving block is anchored at the cell,
// with X pulled left so the block fits in the row. No other block moves.
//
// The input layout is never modified. On any rejection the original layout
// is returned together with an error:
//   - NOT_FOUND when movingID is not in the layout
//   - BOUNDARY_REJECTED when the result would push a block past column 12
//     or overlap a block that was not part of the move
//   - INVALID_INPUT when containerWidth is not positive
func (g Grid) Reorder(l Layout, movingID string, drop Point, containerWidth float64) (Layout, error) {
	if !(containerWidth > 0) || !(g.RowHeight > 0) {
		return l, errs.New(errs.ErrCodeInvalidInput, "container width %v and row height %v must be positive", containerWidth, g.RowHeight)
	}
	mi := l.Index(movingID)
	if mi < 0 {
		return l, errs.New(errs.ErrCodeNotFound, "block %q not found", movingID)
	}

	cell := g.Cell(drop, containerWidth)
	out := l.Clone()
	moving := out.blocks[mi]

	if ti := l.targetAt(cell, movingID); ti >= 0 {
		target := out.blocks[ti]
		out.blocks[mi].Position, out.blocks[ti].Position = target.Position, moving.Position
		if err := out.checkMoved(mi, ti); err != nil {
			return l, err
		}
		return out, nil
	}

	cell.X = clamp(cell.X, 0, Columns-moving.Width)
	out.blocks[mi].Position = cell
	if err := out.checkMoved(mi); err != nil {
		return l, err
	}
	return out, nil
}

// Reorder applies [Grid.Reorder] with the default metrics.
func Reorder(l Layout, movingID string, drop Point, containerWidth float64) (Layout, error) {
	return Default().Reorder(l, movingID, drop, containerWidth)
}

// targetAt returns the index of a block other than skipID covering cell,
// or -1. The first match in insertion order wins.
func (l Layout) targetAt(cell Position, skipID string) int {
	for i, b := range l.blocks {
		if b.ID != skipID && b.Covers(cell.X, cell.Y) {
			return i
		}
	}
	return -1
}

// checkMoved verifies that the blocks at the given indices fit the columns
// and do not overlap any other block, including each other.
func (l Layout) checkMoved(idx ...int) error {
	for _, i := range idx {
		b := l.blocks[i]
		if !b.Fits() {
			return errs.New(errs.ErrCodeBoundaryRejected, "block %q would span [%d, %d) on row %d", b.ID, b.Position.X, b.Right(), b.Position.Y)
		}
		for j, o := range l.blocks {
			if j != i && b.Overlaps(o) {
				return errs.New(errs.ErrCodeBoundaryRejected, "block %q would overlap %q on row %d", b.ID, o.ID, b.Position.Y)
			}
		}
	}
	return nil
}
