package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// StepFloor computes floor f of next from the previous tick's stack.
//
// prev is never written. next[f] is first refreshed from prev[f] so that the
// border ring carries over unchanged, then every interior cell is rewritten
// from values read exclusively out of prev. Floors only touch their own slot
// in next, so different floors may be stepped concurrently.
//
// The border ring is frozen on purpose: outer walls are never heated, decayed
// or collapsed, and only interior cells evolve.
func StepFloor(prev, next components.Floors, f int, rng *rand.Rand, cfg *config.Config) {
	src := prev[f]
	dst := next[f]
	dst.CopyFrom(src)

	for y := 1; y < src.H-1; y++ {
		for x := 1; x < src.W-1; x++ {
			cur := src.At(x, y)
			out := dst.At(x, y)

			if cur.Type == components.CellWall {
				stepWall(src, x, y, cur, out, &cfg.Physics)
			} else {
				stepOpen(src, x, y, cur, out, rng, cfg)
				applyVertical(prev, f, x, y, out, &cfg.Physics)
			}

			clampCell(out, cfg.Physics.MaxTemp)
		}
	}
}

// neighbors4 returns the orthogonal neighbours of an interior cell.
func neighbors4(g *components.Grid, x, y int) [4]*components.Cell {
	return [4]*components.Cell{
		g.At(x, y-1),
		g.At(x, y+1),
		g.At(x-1, y),
		g.At(x+1, y),
	}
}
