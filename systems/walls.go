package systems

import (
	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// stepWall advances a wall cell: structural damage above the failure
// temperature, collapse at zero integrity, slow conduction and cooling.
// Walls never burn or carry smoke rules.
func stepWall(src *components.Grid, x, y int, cur *components.Cell, out *components.Cell, p *config.PhysicsConfig) {
	if cur.Temperature > p.WallFailureTemp {
		out.Integrity -= p.WallDecayRate
		if out.Integrity <= 0 {
			// Collapse releases a burst of heat (flashover)
			out.Type = components.CellEmpty
			out.Integrity = 0
			out.Temperature += p.WallCollapseHeat
		}
	}

	var sum float64
	for _, n := range neighbors4(src, x, y) {
		sum += n.Temperature
	}
	avg := sum / 4
	out.Temperature += (avg - cur.Temperature) * p.WallConduction

	// Masonry sheds heat multiplicatively, not toward ambient
	out.Temperature *= p.WallCooling
}
