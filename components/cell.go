// Package components defines the simulation data model: cells, floor grids,
// and the ECS components attached to simulated detectors.
package components

// CellType identifies what occupies a grid cell.
type CellType uint8

const (
	CellEmpty CellType = iota // Open floor or corridor
	CellWall                  // Masonry; conducts heat, never burns
	CellFuel                  // Furniture, carpet, etc.
)

// String returns a lowercase name for logs.
func (t CellType) String() string {
	switch t {
	case CellEmpty:
		return "empty"
	case CellWall:
		return "wall"
	case CellFuel:
		return "fuel"
	default:
		return "unknown"
	}
}

// Cell is the state of one grid position on one floor.
type Cell struct {
	Type        CellType
	Temperature float64 // Capped at physics.max_temp
	Fuel        float64 // Remaining combustible load, >= 0
	Integrity   float64 // Structural health 0-100, only meaningful for walls
	Smoke       float64 // Density 0-100
	Fire        float64 // Combustion intensity 0 (none) to 1 (full)

	// Reserved velocity. No transition rule reads or writes these.
	VX, VY float64
}

// NewCell returns an empty cell at the given ambient temperature.
func NewCell(ambient float64) Cell {
	return Cell{
		Type:        CellEmpty,
		Temperature: ambient,
		Integrity:   100,
	}
}

// IsWall reports whether the cell is a wall.
func (c *Cell) IsWall() bool { return c.Type == CellWall }

// Burning reports whether the cell has any combustion intensity.
func (c *Cell) Burning() bool { return c.Fire > 0 }
