package grid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Grid dimensions.
const (
	// Columns is the number of columns in every row.
	Columns = 12

	// MinWidth and MaxWidth bound a block's span in columns.
	MinWidth = 1
	MaxWidth = Columns

	// DefaultWidth is the span given to newly added blocks.
	DefaultWidth = 6
)

// Kind discriminates block variants.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Kinds lists the supported block kinds in display order.
var Kinds = []Kind{KindText, KindImage}

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindText:
		return KindText, nil
	case KindImage:
		return KindImage, nil
	}
	return "", errs.New(errs.ErrCodeInvalidKind, "unknown block kind %q (want text or image)", s)
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindText || k == KindImage
}

// DefaultContent returns the content a new block of kind k starts with.
func (k Kind) DefaultContent() string {
	switch k {
	case KindText:
		return "New text block"
	case KindImage:
		return "https://placehold.co/600x400"
	}
	return ""
}

// Position is a block's anchor cell.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Block is a positioned, sized content unit.
type Block struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Content  string   `json:"content"`
	Width    int      `json:"width"`
	Position Position `json:"position"`
}

// NewID returns a fresh, time-sortable block identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewBlock builds a validated block.
func NewBlock(id string, kind Kind, content string, width int, pos Position) (Block, error) {
	b := Block{ID: id, Kind: kind, Content: content, Width: width, Position: pos}
	if err := b.Validate(); err != nil {
		return Block{}, err
	}
	return b, nil
}

// Validate checks the block's invariants, including kind-specific content rules.
func (b Block) Validate() error {
	if err := errs.ValidateBlockID(b.ID); err != nil {
		return err
	}
	switch b.Kind {
	case KindText:
		if err := errs.ValidateText(b.Content); err != nil {
			return err
		}
	case KindImage:
		if err := errs.ValidateImageURL(b.Content); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidKind, "block %s has unknown kind %q", b.ID, b.Kind)
	}
	if err := checkSpan(b.Position.X, b.Width); err != nil {
		return err
	}
	if b.Position.Y < 0 {
		return errs.New(errs.ErrCodeInvalidPosition, "row %d is negative", b.Position.Y)
	}
	return nil
}

// checkSpan validates a horizontal span against the column bounds.
func checkSpan(x, width int) error {
	if width < MinWidth || width > MaxWidth {
		return errs.New(errs.ErrCodeInvalidWidth, "width %d outside [%d, %d]", width, MinWidth, MaxWidth)
	}
	if x < 0 {
		return errs.New(errs.ErrCodeInvalidPosition, "column %d is negative", x)
	}
	if x+width > Columns {
		return errs.New(errs.ErrCodeInvalidPosition, "span [%d, %d) exceeds %d columns", x, x+width, Columns)
	}
	return nil
}

// Right returns the first column past the block's span.
func (b Block) Right() int { return b.Position.X + b.Width }

// Covers reports whether the block occupies cell (col, row).
func (b Block) Covers(col, row int) bool {
	return b.Position.Y == row && col >= b.Position.X && col < b.Right()
}

// Overlaps reports whether b and o share at least one cell.
func (b Block) Overlaps(o Block) bool {
	if b.Position.Y != o.Position.Y {
		return false
	}
	return b.Position.X < o.Right() && o.Position.X < b.Right()
}

// Fits reports whether the block satisfies the column bounds.
func (b Block) Fits() bool {
	return checkSpan(b.Position.X, b.Width) == nil && b.Position.Y >= 0
}
