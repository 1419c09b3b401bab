package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

func init() {
	config.MustInit("")
}

// walledFloors returns n empty floors enclosed by an intact outer wall.
func walledFloors(n, w, h int) components.Floors {
	ambient := config.Cfg().Physics.AmbientTemp
	floors := components.NewFloors(n, w, h, ambient)
	for _, g := range floors {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if g.IsBorder(x, y) {
					g.At(x, y).Type = components.CellWall
				}
			}
		}
	}
	return floors
}

// stepAll advances every floor one tick and returns the swapped buffers.
func stepAll(prev, next components.Floors, rng *rand.Rand, cfg *config.Config) (components.Floors, components.Floors) {
	for f := range prev {
		StepFloor(prev, next, f, rng, cfg)
	}
	return next, prev
}

func seededRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
