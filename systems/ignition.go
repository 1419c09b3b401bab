package systems

import (
	"math"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// IgnitionKind reports what an ignition request did.
type IgnitionKind uint8

const (
	IgnitionNone     IgnitionKind = iota // Out of range; nothing changed
	IgnitionStandard                     // Target cell set alight
	IgnitionChimney                      // Target superheated, ceiling above breached
)

// String returns a lowercase name for logs.
func (k IgnitionKind) String() string {
	switch k {
	case IgnitionStandard:
		return "standard"
	case IgnitionChimney:
		return "chimney"
	default:
		return "none"
	}
}

// Ignite sets fire to (x, y) on floor f.
//
// Requests for a missing floor or for the border ring are ignored. A cell that
// is already burning or already hot is not re-ignited; it is superheated and
// the same cell on the floor above is forced alight, blowing out any wall
// there. The breach climbs one floor per call.
func Ignite(floors components.Floors, f, x, y int, cfg *config.Config) IgnitionKind {
	if !floors.Valid(f) {
		return IgnitionNone
	}
	grid := floors[f]
	if !grid.IsInterior(x, y) {
		return IgnitionNone
	}

	ig := &cfg.Ignition
	cell := grid.At(x, y)

	if cell.Fire > ig.ChimneyFire || cell.Temperature > ig.ChimneyTemp {
		cell.Temperature = math.Min(cell.Temperature+ig.Superheat, cfg.Physics.MaxTemp)
		cell.Smoke = math.Min(cell.Smoke+ig.SuperheatSmoke, 100)

		if f < floors.Top() {
			above := floors[f+1].At(x, y)
			above.Temperature = cfg.Physics.MaxTemp
			above.Fire = 1
			if above.Type == components.CellWall {
				above.Type = components.CellEmpty
			}
			above.Fuel = math.Max(ig.MinFuel, above.Fuel)
		}
		return IgnitionChimney
	}

	cell.Temperature = ig.Temperature
	cell.Fire = 1
	cell.Fuel = math.Max(ig.MinFuel, cell.Fuel)
	return IgnitionStandard
}
