package grid

import (
	"encoding/json"
	"slices"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Layout is an ordered collection of blocks.
//
// Sequence order is insertion order and only matters for rendering and for
// [NextPosition]; spatial order is derived from (Y, X) by [Layout.Sorted].
// The zero value is an empty layout. Layout values are immutable: every
// method that changes content returns a new Layout.
type Layout struct {
	blocks []Block
}

// NewLayout returns a layout holding copies of blocks in the given order.
func NewLayout(blocks ...Block) Layout {
	if len(blocks) == 0 {
		return Layout{}
	}
	return Layout{blocks: slices.Clone(blocks)}
}

// Len returns the number of blocks.
func (l Layout) Len() int { return len(l.blocks) }

// Empty reports whether the layout has no blocks.
func (l Layout) Empty() bool { return len(l.blocks) == 0 }

// Blocks returns a copy of the blocks in insertion order.
func (l Layout) Blocks() []Block { return slices.Clone(l.blocks) }

// At returns the block at insertion index i.
func (l Layout) At(i int) Block { return l.blocks[i] }

// Index returns the insertion index of the block with the given id, or -1.
func (l Layout) Index(id string) int {
	return slices.IndexFunc(l.blocks, func(b Block) bool { return b.ID == id })
}

// Get returns the block with the given id.
func (l Layout) Get(id string) (Block, bool) {
	if i := l.Index(id); i >= 0 {
		return l.blocks[i], true
	}
	return Block{}, false
}

// Last returns the most recently inserted block.
func (l Layout) Last() (Block, bool) {
	if len(l.blocks) == 0 {
		return Block{}, false
	}
	return l.blocks[len(l.blocks)-1], true
}

// Clone returns an independent copy of l.
func (l Layout) Clone() Layout { return NewLayout(l.blocks...) }

// Append returns a layout with b added after the existing blocks.
func (l Layout) Append(b Block) Layout {
	out := make([]Block, len(l.blocks), len(l.blocks)+1)
	copy(out, l.blocks)
	return Layout{blocks: append(out, b)}
}

// Replace returns a layout where the block sharing b's id is replaced by b.
// The block keeps its insertion index.
func (l Layout) Replace(b Block) (Layout, error) {
	i := l.Index(b.ID)
	if i < 0 {
		return l, errs.New(errs.ErrCodeNotFound, "block %q not found", b.ID)
	}
	out := l.Clone()
	out.blocks[i] = b
	return out, nil
}

// Remove returns a layout without the block with the given id.
func (l Layout) Remove(id string) (Layout, error) {
	i := l.Index(id)
	if i < 0 {
		return l, errs.New(errs.ErrCodeNotFound, "block %q not found", id)
	}
	return Layout{blocks: slices.Delete(slices.Clone(l.blocks), i, i+1)}, nil
}

// Equal reports whether both layouts hold the same blocks in the same order.
func (l Layout) Equal(o Layout) bool {
	return slices.Equal(l.blocks, o.blocks)
}

// Sorted returns the blocks in spatial order: by row, then by column.
// Ties keep insertion order.
func (l Layout) Sorted() []Block {
	out := slices.Clone(l.blocks)
	slices.SortStableFunc(out, func(a, b Block) int {
		if a.Position.Y != b.Position.Y {
			return a.Position.Y - b.Position.Y
		}
		return a.Position.X - b.Position.X
	})
	return out
}

// Rows groups the blocks by row in spatial order. The returned slice is
// indexed by row number, so rows without blocks are empty.
func (l Layout) Rows() [][]Block {
	sorted := l.Sorted()
	if len(sorted) == 0 {
		return nil
	}
	rows := make([][]Block, sorted[len(sorted)-1].Position.Y+1)
	for _, b := range sorted {
		rows[b.Position.Y] = append(rows[b.Position.Y], b)
	}
	return rows
}

// Conflict names two blocks sharing at least one cell.
type Conflict struct {
	A, B string
	Row  int
}

// Conflicts returns every pair of overlapping blocks, in spatial order.
func (l Layout) Conflicts() []Conflict {
	var out []Conflict
	for _, row := range l.Rows() {
		for i := range row {
			for j := i + 1; j < len(row); j++ {
				if row[i].Overlaps(row[j]) {
					out = append(out, Conflict{A: row[i].ID, B: row[j].ID, Row: row[i].Position.Y})
				}
			}
		}
	}
	return out
}

// Validate checks every block and the no-overlap invariant.
func (l Layout) Validate() error {
	seen := make(map[string]bool, len(l.blocks))
	for _, b := range l.blocks {
		if err := b.Validate(); err != nil {
			return err
		}
		if seen[b.ID] {
			return errs.New(errs.ErrCodeInvalidID, "duplicate block id %q", b.ID)
		}
		seen[b.ID] = true
	}
	if c := l.Conflicts(); len(c) > 0 {
		return errs.New(errs.ErrCodeBoundaryRejected, "blocks %q and %q overlap on row %d", c[0].A, c[0].B, c[0].Row)
	}
	return nil
}

// MarshalJSON encodes the layout as a JSON array of blocks.
func (l Layout) MarshalJSON() ([]byte, error) {
	if l.blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.blocks)
}

// UnmarshalJSON decodes a JSON array of blocks. It performs no validation;
// use [Normalize] on data from untrusted sources.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	*l = NewLayout(blocks...)
	return nil
}

// Normalize repairs blocks that break the column bounds and drops blocks
// that cannot be repaired (missing or duplicate ids, unknown kinds). Widths
// are clamped to [1, 12], negative coordinates raised to zero and X pulled
// left until the span fits. Overlaps are left as they are; the reorder path
// rejects moves that would create new ones.
//
// It returns the repaired layout and the number of blocks changed or dropped.
func Normalize(l Layout) (Layout, int) {
	fixed := 0
	out := make([]Block, 0, len(l.blocks))
	seen := make(map[string]bool, len(l.blocks))
	for _, b := range l.blocks {
		if errs.ValidateBlockID(b.ID) != nil || seen[b.ID] || !b.Kind.Valid() {
			fixed++
			continue
		}
		seen[b.ID] = true

		orig := b
		b.Width = clamp(b.Width, MinWidth, MaxWidth)
		b.Position.X = clamp(b.Position.X, 0, Columns-b.Width)
		b.Position.Y = max(b.Position.Y, 0)
		if b != orig {
			fixed++
		}
		out = append(out, b)
	}
	return NewLayout(out...), fixed
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
