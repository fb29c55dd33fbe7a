package grid

import (
	"math"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Direction names the edge being dragged during a resize.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection converts a user-supplied name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Left, Right:
		return Direction(s), nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown resize direction %q (want left or right)", s)
}

// Resize computes the span of b after dragging its dir edge by deltaPixels.
//
// The delta is converted to whole columns with half-away-from-zero rounding
// and the width clamped to [1, 12]. Dragging the right edge keeps X; dragging
// the left edge keeps the right edge fixed and moves X. A candidate that
// would start before column 0 or end past column 12 is rejected with
// BOUNDARY_REJECTED and b is returned unchanged: the drag stops advancing
// instead of clamping to the boundary.
func (g Grid) Resize(b Block, dir Direction, deltaPixels float64) (Block, error) {
	if !(g.ResizeStep > 0) {
		return b, errs.New(errs.ErrCodeInvalidInput, "resize step %v must be positive", g.ResizeStep)
	}
	delta := math.Round(deltaPixels / g.ResizeStep)
	if math.IsNaN(delta) {
		return b, errs.New(errs.ErrCodeInvalidInput, "resize delta is not a number")
	}
	delta = math.Max(-Columns, math.Min(delta, Columns))
	cols := int(delta)

	out := b
	switch dir {
	case Right:
		out.Width = clamp(b.Width+cols, MinWidth, MaxWidth)
	case Left:
		out.Width = clamp(b.Width-cols, MinWidth, MaxWidth)
		out.Position.X = b.Position.X + (b.Width - out.Width)
	default:
		return b, errs.New(errs.ErrCodeInvalidInput, "unknown resize direction %q", dir)
	}

	if out.Position.X < 0 || out.Right() > Columns {
		return b, errs.New(errs.ErrCodeBoundaryRejected, "resize of %q to [%d, %d) leaves the grid", b.ID, out.Position.X, out.Right())
	}
	return out, nil
}

// ResizeDrag tracks one edge-drag gesture.
//
// Every move is computed against the block captured at drag start, not
// incrementally. Rejected candidates leave the live value where it was.
type ResizeDrag struct {
	grid  Grid
	dir   Direction
	start Block
	live  Block
}

// BeginResize starts a resize gesture on b.
func (g Grid) BeginResize(b Block, dir Direction) (*ResizeDrag, error) {
	if _, err := ParseDirection(string(dir)); err != nil {
		return nil, err
	}
	return &ResizeDrag{grid: g, dir: dir, start: b, live: b}, nil
}

// Move applies a pointer delta measured from drag start. It returns the live
// block and whether its width or position changed since the previous move.
func (d *ResizeDrag) Move(deltaPixels float64) (Block, bool) {
	next, err := d.grid.Resize(d.start, d.dir, deltaPixels)
	if err != nil || next == d.live {
		return d.live, false
	}
	d.live = next
	return next, true
}

// Start returns the block as captured when the gesture began.
func (d *ResizeDrag) Start() Block { return d.start }

// Live returns the current intermediate block.
func (d *ResizeDrag) Live() Block { return d.live }

// Direction returns the edge being dragged.
func (d *ResizeDrag) Direction() Direction { return d.dir }

// Changed reports whether the live block differs from the start.
func (d *ResizeDrag) Changed() bool { return d.live != d.start }
