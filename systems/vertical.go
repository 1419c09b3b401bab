package systems

import (
	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// applyVertical couples a non-wall cell to the same position on the floors
// below and above (stack effect). Reads come from the previous tick only.
func applyVertical(prev components.Floors, f, x, y int, out *components.Cell, p *config.PhysicsConfig) {
	if f > 0 {
		below := prev[f-1].At(x, y)

		out.Temperature += (below.Temperature - p.AmbientTemp) * p.VerticalConductivity

		// An intact slab segment (wall below) blocks rising smoke
		if below.Type != components.CellWall {
			out.Smoke += below.Smoke * p.SmokeRiseRate
		}
	}

	if f < prev.Top() {
		above := prev[f+1].At(x, y)
		if above.Type != components.CellWall {
			out.Smoke -= out.Smoke * p.SmokeRiseRate * p.SmokeRiseDamping
		}
	}
}
