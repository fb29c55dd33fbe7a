package grid

import (
	"testing"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"text", KindText, false},
		{"Image", KindImage, false},
		{" text ", KindText, false},
		{"video", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidKind) {
				t.Errorf("ParseKind(%q) code = %v", tt.in, errs.GetCode(err))
			}
		})
	}
}

func TestNewBlock(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		content  string
		width    int
		pos      Position
		wantCode errs.Code
	}{
		{"text default", KindText, "hello", 6, Position{0, 0}, ""},
		{"image default", KindImage, KindImage.DefaultContent(), 6, Position{6, 0}, ""},
		{"image empty url", KindImage, "", 4, Position{0, 3}, ""},
		{"full width", KindText, "", 12, Position{0, 0}, ""},
		{"width zero", KindText, "", 0, Position{0, 0}, errs.ErrCodeInvalidWidth},
		{"width thirteen", KindText, "", 13, Position{0, 0}, errs.ErrCodeInvalidWidth},
		{"past last column", KindText, "", 6, Position{7, 0}, errs.ErrCodeInvalidPosition},
		{"negative column", KindText, "", 6, Position{-1, 0}, errs.ErrCodeInvalidPosition},
		{"negative row", KindText, "", 6, Position{0, -1}, errs.ErrCodeInvalidPosition},
		{"bad image url", KindImage, "file:///etc/passwd", 6, Position{0, 0}, errs.ErrCodeInvalidContent},
		{"unknown kind", Kind("video"), "", 6, Position{0, 0}, errs.ErrCodeInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBlock("b1", tt.kind, tt.content, tt.width, tt.pos)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("NewBlock() error = %v", err)
				}
				if b.Width != tt.width || b.Position != tt.pos || b.Content != tt.content {
					t.Errorf("NewBlock() = %+v", b)
				}
				return
			}
			if !errs.Is(err, tt.wantCode) {
				t.Errorf("NewBlock() error = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}

func TestNewBlockRequiresID(t *testing.T) {
	if _, err := NewBlock("", KindText, "", 6, Position{}); !errs.Is(err, errs.ErrCodeInvalidID) {
		t.Errorf("NewBlock(empty id) error = %v, want INVALID_ID", err)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Errorf("NewID() returned duplicate %q", a)
	}
	if err := errs.ValidateBlockID(a); err != nil {
		t.Errorf("NewID() = %q is not a valid block id: %v", a, err)
	}
}

func TestBlockGeometry(t *testing.T) {
	a := Block{ID: "a", Kind: KindText, Width: 4, Position: Position{X: 2, Y: 1}}

	if got := a.Right(); got != 6 {
		t.Errorf("Right() = %d, want 6", got)
	}

	covers := []struct {
		col, row int
		want     bool
	}{
		{2, 1, true},
		{5, 1, true},
		{6, 1, false},
		{1, 1, false},
		{3, 0, false},
	}
	for _, c := range covers {
		if got := a.Covers(c.col, c.row); got != c.want {
			t.Errorf("Covers(%d, %d) = %v, want %v", c.col, c.row, got, c.want)
		}
	}

	overlaps := []struct {
		name string
		o    Block
		want bool
	}{
		{"adjacent left", Block{ID: "o", Width: 2, Position: Position{0, 1}}, false},
		{"adjacent right", Block{ID: "o", Width: 2, Position: Position{6, 1}}, false},
		{"shares a column", Block{ID: "o", Width: 2, Position: Position{5, 1}}, true},
		{"contains", Block{ID: "o", Width: 12, Position: Position{0, 1}}, true},
		{"other row", Block{ID: "o", Width: 12, Position: Position{0, 2}}, false},
	}
	for _, tt := range overlaps {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.o); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.o.Overlaps(a); got != tt.want {
				t.Errorf("Overlaps() is not symmetric")
			}
		})
	}
}
