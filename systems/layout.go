// Package systems implements the building simulation rules: floor-plan
// generation, ignition, the per-tick transition and the detector system.
package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// GenerateBuilding fills every floor with a procedural office layout:
// exterior walls, a periodic corridor grid, interior walls with doorway gaps,
// and furniture fuel inside the rooms.
func GenerateBuilding(floors components.Floors, rng *rand.Rand, cfg *config.Config) {
	ambient := cfg.Physics.AmbientTemp
	for _, grid := range floors {
		grid.Fill(ambient)
		generateFloor(grid, rng, &cfg.Layout)
	}
}

func generateFloor(grid *components.Grid, rng *rand.Rand, l *config.LayoutConfig) {
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			cell := grid.At(x, y)

			if grid.IsBorder(x, y) {
				cell.Type = components.CellWall
				cell.Integrity = 100
				continue
			}

			if isCorridor(x, y, l) {
				continue
			}

			if x%l.CorridorPeriodX == 0 || y%l.CorridorPeriodY == 0 {
				// Interior wall line; misses become doorways
				if rng.Float64() < l.WallChance {
					cell.Type = components.CellWall
					cell.Integrity = 100
				}
				continue
			}

			if rng.Float64() < l.FuelChance {
				cell.Type = components.CellFuel
				cell.Fuel = l.FuelMin + rng.Float64()*(l.FuelMax-l.FuelMin)
			}
		}
	}
}

// isCorridor reports whether (x, y) falls inside one of the circulation bands.
func isCorridor(x, y int, l *config.LayoutConfig) bool {
	mx := x % l.CorridorPeriodX
	my := y % l.CorridorPeriodY
	return (mx > l.CorridorMinX && mx < l.CorridorMaxX) ||
		(my > l.CorridorMinY && my < l.CorridorMaxY)
}
