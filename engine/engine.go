// Package engine advances the building simulation one tick at a time and
// wires it to telemetry, detectors and output in the headless Runner.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
	"github.com/pthm-cable/pyroflow/systems"
)

// Options configures an Engine.
type Options struct {
	Seed    int64       // RNG seed (0 = time-based)
	Source  rand.Source // Overrides Seed when set
	Workers int         // Floor workers (0 = engine.workers from config, 1 = serial)
}

// Engine owns the floor stack and advances it one tick at a time.
//
// State is double-buffered: Update reads only curr and writes only next, then
// swaps them. Ignite and Reset touch curr directly and must not be called
// while Update is running. An Engine is not safe for concurrent use.
type Engine struct {
	cfg  *config.Config
	curr components.Floors
	next components.Floors

	rng      *rand.Rand
	seed     int64
	floorPCG []*rand.PCG
	floorRNG []*rand.Rand // one stream per floor, reseeded every tick

	pool *floorPool
	tick int32
}

// New creates an engine with a freshly generated building.
func New(cfg *config.Config, opts Options) *Engine {
	b := cfg.Building

	e := &Engine{
		cfg:  cfg,
		curr: components.NewFloors(b.Floors, b.Width, b.Height, cfg.Physics.AmbientTemp),
		next: components.NewFloors(b.Floors, b.Width, b.Height, cfg.Physics.AmbientTemp),
	}

	e.seed = opts.Seed
	if opts.Source != nil {
		e.rng = rand.New(opts.Source)
	} else {
		if e.seed == 0 {
			e.seed = time.Now().UnixNano()
		}
		e.rng = newSeededRand(e.seed)
	}

	e.floorPCG = make([]*rand.PCG, b.Floors)
	e.floorRNG = make([]*rand.Rand, b.Floors)
	for f := range e.floorPCG {
		e.floorPCG[f] = rand.NewPCG(0, 0)
		e.floorRNG[f] = rand.New(e.floorPCG[f])
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Derived.Workers
	}
	if workers > 1 && b.Floors > 1 {
		e.pool = newFloorPool(min(workers, b.Floors), b.Floors)
	}

	e.Reset()
	return e
}

// newSeededRand returns a PCG-backed generator for seed.
func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Reset regenerates the building, discarding all fire, smoke and heat.
// The layout is drawn from the engine's generator, so a seeded engine
// produces the same sequence of buildings across resets.
func (e *Engine) Reset() {
	systems.GenerateBuilding(e.curr, e.rng, e.cfg)
	e.next.CopyFrom(e.curr)
	e.tick = 0
}

// Update advances the simulation by exactly one tick.
func (e *Engine) Update() {
	// Streams are drawn in floor order so worker scheduling cannot
	// change the outcome.
	for _, pcg := range e.floorPCG {
		pcg.Seed(e.rng.Uint64(), e.rng.Uint64())
	}

	if e.pool != nil {
		e.pool.run(e)
	} else {
		for f := range e.curr {
			e.stepFloor(f)
		}
	}

	e.curr, e.next = e.next, e.curr
	e.tick++
}

// Ignite sets fire to (x, y) on floor f. Out-of-range requests are ignored.
func (e *Engine) Ignite(f, x, y int) systems.IgnitionKind {
	return systems.Ignite(e.curr, f, x, y, e.cfg)
}

// Floors returns the live floor stack. Callers must treat it as read-only
// and must not retain it across Update, which swaps buffers.
func (e *Engine) Floors() components.Floors { return e.curr }

// Cell returns a copy of the cell at (x, y) on floor f.
func (e *Engine) Cell(f, x, y int) (components.Cell, bool) {
	if !e.curr.Valid(f) || !e.curr[f].InBounds(x, y) {
		return components.Cell{}, false
	}
	return *e.curr[f].At(x, y), true
}

// Tick returns the number of updates since the last reset.
func (e *Engine) Tick() int32 { return e.tick }

// Size returns the floor grid dimensions.
func (e *Engine) Size() (w, h int) { return e.cfg.Building.Width, e.cfg.Building.Height }

// NumFloors returns the number of floors in the building.
func (e *Engine) NumFloors() int { return len(e.curr) }

// Seed returns the seed the engine was built with. When a custom Source was
// supplied this is whatever Options.Seed held.
func (e *Engine) Seed() int64 { return e.seed }

// Config returns the configuration the engine runs with.
func (e *Engine) Config() *config.Config { return e.cfg }

// Close stops the floor workers. The engine must not be updated afterwards.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.stop()
	}
}
