package grid

import "testing"

func TestNextPosition(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   Position
	}{
		{"empty", NewLayout(), Position{0, 0}},
		{"after half row", NewLayout(blk("a", 0, 0, 6)), Position{6, 0}},
		{"full row wraps", NewLayout(blk("a", 0, 0, 6), blk("b", 6, 0, 6)), Position{0, 1}},
		{"narrow block leaves room", NewLayout(blk("a", 0, 3, 4)), Position{4, 3}},
		{"not enough room wraps", NewLayout(blk("a", 2, 5, 5)), Position{0, 6}},
		// Insertion order wins over spatial order.
		{"last inserted not lowest", NewLayout(blk("a", 0, 4, 6), blk("b", 0, 0, 3)), Position{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextPosition(tt.layout); got != tt.want {
				t.Errorf("NextPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextPositionAppendSequence(t *testing.T) {
	var l Layout
	want := []Position{{0, 0}, {6, 0}, {0, 1}, {6, 1}, {0, 2}}
	for i, w := range want {
		pos := NextPosition(l)
		if pos != w {
			t.Fatalf("add #%d at %v, want %v", i+1, pos, w)
		}
		l = l.Append(blk(string(rune('a'+i)), pos.X, pos.Y, DefaultWidth))
	}
	if err := l.Validate(); err != nil {
		t.Errorf("appended layout invalid: %v", err)
	}
}
