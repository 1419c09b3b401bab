package components

import "testing"

func TestGridBorderAndInterior(t *testing.T) {
	g := NewGrid(5, 4, 20)

	tests := []struct {
		x, y             int
		border, interior bool
	}{
		{0, 0, true, false},
		{4, 3, true, false},
		{2, 0, true, false},
		{1, 1, false, true},
		{3, 2, false, true},
	}
	for _, tt := range tests {
		if got := g.IsBorder(tt.x, tt.y); got != tt.border {
			t.Errorf("IsBorder(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.border)
		}
		if got := g.IsInterior(tt.x, tt.y); got != tt.interior {
			t.Errorf("IsInterior(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.interior)
		}
	}
	if g.InBounds(5, 0) || g.InBounds(-1, 0) || !g.InBounds(4, 3) {
		t.Error("InBounds wrong at the edges")
	}
}

func TestGridIndexIsRowMajor(t *testing.T) {
	g := NewGrid(5, 4, 20)
	tests := []struct{ x, y, want int }{
		{0, 0, 0},
		{4, 0, 4},
		{0, 1, 5},
		{3, 2, 13},
		{4, 3, 19},
	}
	for _, tt := range tests {
		if got := g.Index(tt.x, tt.y); got != tt.want {
			t.Errorf("Index(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}

	g.At(3, 2).Smoke = 7
	if g.Cells[13].Smoke != 7 {
		t.Error("At does not address the row-major slot")
	}
}

func TestGridCloneIsDeep(t *testing.T) {
	g := NewGrid(3, 3, 20)
	cp := g.Clone()
	cp.At(1, 1).Fire = 1

	if g.At(1, 1).Fire != 0 {
		t.Error("Clone shares cell storage")
	}
}

func TestFloorsEqualAndCopy(t *testing.T) {
	a := NewFloors(2, 4, 4, 20)
	b := NewFloors(2, 4, 4, 20)
	if !a.Equal(b) {
		t.Fatal("fresh stacks differ")
	}

	a[1].At(2, 2).Smoke = 10
	if a.Equal(b) {
		t.Error("Equal missed a smoke change")
	}

	b.CopyFrom(a)
	if !a.Equal(b) {
		t.Error("CopyFrom did not copy")
	}

	if a.Top() != 1 || !a.Valid(1) || a.Valid(2) || a.Valid(-1) {
		t.Error("Top/Valid wrong")
	}
	if a.Equal(NewFloors(3, 4, 4, 20)) {
		t.Error("stacks of different height compared equal")
	}
}

func TestNewCell(t *testing.T) {
	c := NewCell(20)
	if c.Type != CellEmpty || c.Temperature != 20 || c.Integrity != 100 || c.Burning() || c.IsWall() {
		t.Errorf("NewCell(20) = %+v", c)
	}
}
