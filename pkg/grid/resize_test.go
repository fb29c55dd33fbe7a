package grid

import (
	"testing"

	errs "github.com/matzehuels/gridboard/pkg/errors"
)

func TestResize(t *testing.T) {
	tests := []struct {
		name     string
		block    Block
		dir      Direction
		delta    float64
		want     Block
		wantCode errs.Code
	}{
		{
			name:  "right grows by rounded columns",
			block: blk("a", 0, 0, 6), dir: Right, delta: 250,
			want: blk("a", 0, 0, 9),
		},
		{
			name:  "right below half a column is a no-op",
			block: blk("a", 0, 0, 6), dir: Right, delta: 49,
			want: blk("a", 0, 0, 6),
		},
		{
			name:  "right shrinks",
			block: blk("a", 2, 0, 6), dir: Right, delta: -320,
			want: blk("a", 2, 0, 3),
		},
		{
			name:  "right shrink clamps to one",
			block: blk("a", 2, 0, 6), dir: Right, delta: -2000,
			want: blk("a", 2, 0, 1),
		},
		{
			name:  "right past edge rejected",
			block: blk("a", 4, 0, 6), dir: Right, delta: 300,
			want: blk("a", 4, 0, 6), wantCode: errs.ErrCodeBoundaryRejected,
		},
		{
			name:  "left grows and keeps right edge",
			block: blk("a", 6, 0, 4), dir: Left, delta: -200,
			want: blk("a", 4, 0, 6),
		},
		{
			name:  "left shrinks and keeps right edge",
			block: blk("a", 2, 0, 6), dir: Left, delta: 260,
			want: blk("a", 5, 0, 3),
		},
		{
			name:  "left past column zero rejected",
			block: blk("a", 1, 0, 6), dir: Left, delta: -300,
			want: blk("a", 1, 0, 6), wantCode: errs.ErrCodeBoundaryRejected,
		},
		{
			name:  "left at full width",
			block: blk("a", 0, 0, 12), dir: Left, delta: 1200,
			want: blk("a", 11, 0, 1),
		},
		{
			name:  "unknown direction",
			block: blk("a", 0, 0, 6), dir: Direction("up"), delta: 100,
			want: blk("a", 0, 0, 6), wantCode: errs.ErrCodeInvalidInput,
		},
	}

	g := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Resize(tt.block, tt.dir, tt.delta)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("Resize() error = %v, want %v", err, tt.wantCode)
				}
			} else if err != nil {
				t.Fatalf("Resize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resize() = %+v, want %+v", got, tt.want)
			}
			if !got.Fits() {
				t.Errorf("Resize() produced out-of-bounds block %+v", got)
			}
		})
	}
}

func TestResizeRounding(t *testing.T) {
	g := Default()
	b := blk("a", 3, 0, 4)

	tests := []struct {
		delta float64
		width int
	}{
		{149, 5},
		{150, 6},  // half rounds away from zero
		{-150, 2}, // and symmetrically for shrinking
		{-149, 3},
	}
	for _, tt := range tests {
		got, err := g.Resize(b, Right, tt.delta)
		if err != nil {
			t.Fatalf("Resize(%v) error = %v", tt.delta, err)
		}
		if got.Width != tt.width {
			t.Errorf("Resize(%v) width = %d, want %d", tt.delta, got.Width, tt.width)
		}
	}
}

func TestResizeDrag(t *testing.T) {
	g := Default()
	start := blk("a", 2, 0, 4)

	d, err := g.BeginResize(start, Right)
	if err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}

	steps := []struct {
		delta   float64
		width   int
		changed bool
	}{
		{30, 4, false},
		{60, 5, true},
		{120, 5, false},
		{310, 7, true},
		{640, 10, true},
		{700, 10, false}, // 2+11 > 12: rejected, live value kept
		{900, 10, false},
		{590, 10, false},
		{420, 8, true},
	}
	for i, s := range steps {
		got, changed := d.Move(s.delta)
		if got.Width != s.width || changed != s.changed {
			t.Errorf("step %d Move(%v) = width %d changed %v, want width %d changed %v",
				i, s.delta, got.Width, changed, s.width, s.changed)
		}
		if got.Position.X != start.Position.X {
			t.Errorf("step %d moved X to %d", i, got.Position.X)
		}
	}

	if !d.Changed() {
		t.Error("Changed() should be true after growing")
	}
	if d.Start() != start {
		t.Error("Start() should return the captured block")
	}
	if d.Live().Width != 8 {
		t.Errorf("Live() width = %d, want 8", d.Live().Width)
	}

	d.Move(0)
	if d.Changed() {
		t.Error("Changed() should be false after returning to the start")
	}
}

func TestResizeDragLeft(t *testing.T) {
	d, err := Default().BeginResize(blk("a", 4, 1, 4), Left)
	if err != nil {
		t.Fatal(err)
	}

	got, changed := d.Move(-300)
	if !changed || got.Position.X != 1 || got.Width != 7 {
		t.Errorf("Move(-300) = %+v changed=%v", got, changed)
	}

	got, changed = d.Move(-500)
	if changed || got.Position.X != 1 || got.Width != 7 {
		t.Errorf("Move(-500) should be rejected, got %+v changed=%v", got, changed)
	}

	got, changed = d.Move(-400)
	if !changed || got.Position.X != 0 || got.Width != 8 {
		t.Errorf("Move(-400) = %+v changed=%v", got, changed)
	}
}

func TestBeginResizeInvalidDirection(t *testing.T) {
	if _, err := Default().BeginResize(blk("a", 0, 0, 6), Direction("diagonal")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("BeginResize() error = %v, want INVALID_INPUT", err)
	}
}
