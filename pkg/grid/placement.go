package grid

// NextPosition returns the anchor for a new block of [DefaultWidth].
//
// The new block goes right after the most recently inserted block when the
// rest of that row can hold it, and at the start of the following row
// otherwise. This is a greedy append, not a bin packer: gaps left by deleted
// or moved blocks are never reused and other rows are not inspected, so the
// result may overlap a block that was moved onto the next row.
func NextPosition(l Layout) Position {
	last, ok := l.Last()
	if !ok {
		return Position{}
	}
	nextX := last.Right()
	if nextX+DefaultWidth <= Columns {
		return Position{X: nextX, Y: last.Position.Y}
	}
	return Position{X: 0, Y: last.Position.Y + 1}
}
