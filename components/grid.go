package components

// Grid is one floor of the building, stored row-major.
type Grid struct {
	W, H  int
	Cells []Cell
}

// NewGrid allocates a grid of empty cells at ambient temperature.
func NewGrid(w, h int, ambient float64) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &Grid{W: w, H: h, Cells: make([]Cell, w*h)}
	g.Fill(ambient)
	return g
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// At returns a pointer to the cell at (x, y). Coordinates must be in bounds.
func (g *Grid) At(x, y int) *Cell { return &g.Cells[g.Index(x, y)] }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// IsBorder reports whether (x, y) is on the outermost ring.
func (g *Grid) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == g.W-1 || y == g.H-1
}

// IsInterior reports whether (x, y) is strictly inside the border ring.
func (g *Grid) IsInterior(x, y int) bool {
	return x > 0 && x < g.W-1 && y > 0 && y < g.H-1
}

// Fill resets every cell to an empty cell at ambient temperature.
func (g *Grid) Fill(ambient float64) {
	for i := range g.Cells {
		g.Cells[i] = NewCell(ambient)
	}
}

// CopyFrom overwrites this grid's cells with src's. Dimensions must match.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.Cells, src.Cells)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := &Grid{W: g.W, H: g.H, Cells: make([]Cell, len(g.Cells))}
	copy(cp.Cells, g.Cells)
	return cp
}

// Floors is the building's floor stack. Index 0 is the ground floor.
type Floors []*Grid

// NewFloors allocates n floors of w x h empty cells.
func NewFloors(n, w, h int, ambient float64) Floors {
	floors := make(Floors, n)
	for i := range floors {
		floors[i] = NewGrid(w, h, ambient)
	}
	return floors
}

// Valid reports whether f indexes an existing floor.
func (fs Floors) Valid(f int) bool { return f >= 0 && f < len(fs) }

// Top returns the index of the highest floor.
func (fs Floors) Top() int { return len(fs) - 1 }

// CopyFrom overwrites every floor with src's cells.
func (fs Floors) CopyFrom(src Floors) {
	for i := range fs {
		fs[i].CopyFrom(src[i])
	}
}

// Clone returns a deep copy of the floor stack.
func (fs Floors) Clone() Floors {
	cp := make(Floors, len(fs))
	for i, g := range fs {
		cp[i] = g.Clone()
	}
	return cp
}

// Equal reports whether two stacks hold identical cell state.
func (fs Floors) Equal(other Floors) bool {
	if len(fs) != len(other) {
		return false
	}
	for f := range fs {
		a, b := fs[f], other[f]
		if a.W != b.W || a.H != b.H {
			return false
		}
		for i := range a.Cells {
			if a.Cells[i] != b.Cells[i] {
				return false
			}
		}
	}
	return true
}
