package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// stepOpen advances a non-wall cell through diffusion, combustion and decay.
// All neighbour reads come from src (the previous tick).
func stepOpen(src *components.Grid, x, y int, cur *components.Cell, out *components.Cell, rng *rand.Rand, cfg *config.Config) {
	p := &cfg.Physics
	c := &cfg.Combustion

	// 1. Diffusion
	var tempSum, smokeSum float64
	for _, n := range neighbors4(src, x, y) {
		tempSum += n.Temperature // walls conduct heat fully
		if n.Type == components.CellWall {
			smokeSum += n.Smoke * p.SmokeWallLeak
		} else {
			smokeSum += n.Smoke
		}
	}
	avgTemp := tempSum / 4
	avgSmoke := smokeSum / 4

	out.Smoke = out.Smoke*(1-p.SmokeBlend) + avgSmoke*p.SmokeBlend
	out.Temperature += (avgTemp - cur.Temperature) * p.HeatTransfer

	// 2. Combustion onset
	if cur.Type == components.CellFuel && cur.Fuel > 0 && cur.Temperature > c.IgnitionTemp {
		// Very hot fuel always catches; warm fuel catches by chance
		if cur.Temperature > cfg.Derived.CertainIgnitionTemp || rng.Float64() < c.IgnitionChance {
			out.Fire = math.Min(1, cur.Fire+c.OnsetFireGain)
			out.Temperature += c.OnsetHeat
			out.Fuel -= c.OnsetFuelBurn
			out.Smoke += c.OnsetSmoke
		}
	}

	// 3. Sustain or die out
	if cur.Fire > 0 && cur.Fuel > 0 {
		out.Temperature += c.SustainHeat
		out.Fuel -= c.SustainFuelBurn
		out.Smoke += c.SustainSmoke

		if out.Fuel <= 0 {
			out.Fire = 0
			out.Type = components.CellEmpty
		}
	} else {
		out.Fire *= c.EmberDecay
	}

	// 4. Cooling and decay
	out.Temperature = (out.Temperature-p.AmbientTemp)*p.CoolingRate + p.AmbientTemp
	out.Smoke *= p.SmokeDecay
}
