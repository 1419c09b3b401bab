package engine

import (
	"log/slog"
	"sort"

	"github.com/pthm-cable/pyroflow/config"
	"github.com/pthm-cable/pyroflow/systems"
	"github.com/pthm-cable/pyroflow/telemetry"
)

// IgnitionEvent is an ignition scheduled for a given tick. It is applied
// between ticks, when the engine's tick counter equals Tick.
type IgnitionEvent struct {
	Tick  int32
	Floor int
	X, Y  int
}

// RunnerOptions configures a headless Runner.
type RunnerOptions struct {
	Seed          int64
	Workers       int
	LogStats      bool   // Output stats via slog on every sample
	OutputDir     string // CSV logs and config snapshot (empty = disabled)
	Ignitions     []IgnitionEvent
	StatsCallback func(telemetry.Stats)
}

// Runner drives an Engine headlessly and wires it to detectors, telemetry
// and output. All calls must come from one goroutine.
type Runner struct {
	cfg    *config.Config
	engine *Engine

	detectors     *systems.DetectorSystem
	collector     *telemetry.Collector
	eventDetector *telemetry.EventDetector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	logStats      bool
	statsCallback func(telemetry.Stats)

	schedule     []IgnitionEvent
	nextSchedule int

	summary RunSummary
}

// NewRunner creates an engine and everything around it. The only error
// source is the output directory.
func NewRunner(cfg *config.Config, opts RunnerOptions) (*Runner, error) {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	schedule := make([]IgnitionEvent, len(opts.Ignitions))
	copy(schedule, opts.Ignitions)
	sort.SliceStable(schedule, func(i, j int) bool { return schedule[i].Tick < schedule[j].Tick })

	r := &Runner{
		cfg:           cfg,
		engine:        New(cfg, Options{Seed: opts.Seed, Workers: opts.Workers}),
		detectors:     systems.NewDetectorSystem(),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsInterval, cfg.Telemetry.HistorySize),
		eventDetector: telemetry.NewEventDetector(cfg.Telemetry.CriticalDanger),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager: om,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		schedule:      schedule,
	}
	r.detectors.Install(r.engine.Floors(), &cfg.Detectors)
	r.resetSummary()

	if om != nil {
		slog.Info("output enabled", "dir", om.Dir())
	}

	return r, nil
}

// Step advances the simulation by one tick: scheduled ignitions, the
// transition, detectors, then telemetry when a sample is due.
func (r *Runner) Step() {
	r.perfCollector.StartTick()

	r.perfCollector.StartPhase(telemetry.PhaseIgnition)
	r.applySchedule()

	r.perfCollector.StartPhase(telemetry.PhaseTransition)
	r.engine.Update()

	r.perfCollector.StartPhase(telemetry.PhaseDetectors)
	for _, trip := range r.detectors.Update(r.engine.Floors(), r.engine.Tick()) {
		slog.Debug("detector tripped",
			"tick", trip.Tick,
			"floor", trip.Placement.Floor,
			"x", trip.Placement.X,
			"y", trip.Placement.Y,
			"cause", trip.Cause.String(),
		)
	}

	r.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	r.flushTelemetry()

	r.perfCollector.EndTick()
}

// applySchedule fires every scheduled ignition due at the current tick.
func (r *Runner) applySchedule() {
	tick := r.engine.Tick()
	for r.nextSchedule < len(r.schedule) && r.schedule[r.nextSchedule].Tick <= tick {
		ev := r.schedule[r.nextSchedule]
		r.nextSchedule++
		if ev.Tick < tick {
			slog.Warn("skipping past ignition", "scheduled", ev.Tick, "tick", tick)
			continue
		}
		r.Ignite(ev.Floor, ev.X, ev.Y)
	}
}

// Ignite sets fire to (x, y) on floor f between ticks.
func (r *Runner) Ignite(f, x, y int) systems.IgnitionKind {
	kind := r.engine.Ignite(f, x, y)
	if kind == systems.IgnitionNone {
		slog.Warn("ignition ignored", "floor", f, "x", x, "y", y, "tick", r.engine.Tick())
		return kind
	}

	r.summary.Ignitions++
	slog.Info("ignition",
		"kind", kind.String(),
		"floor", f,
		"x", x,
		"y", y,
		"tick", r.engine.Tick(),
	)
	return kind
}

// Reset regenerates the building and clears detectors, history and events.
// Scheduled ignitions replay from tick 0.
func (r *Runner) Reset() {
	r.engine.Reset()
	r.detectors.Install(r.engine.Floors(), &r.cfg.Detectors)
	r.collector.Reset()
	r.eventDetector.Reset()
	r.nextSchedule = 0
	r.resetSummary()
}

// Tick returns the current simulation tick.
func (r *Runner) Tick() int32 { return r.engine.Tick() }

// Engine returns the underlying engine.
func (r *Runner) Engine() *Engine { return r.engine }

// Collector returns the stats history.
func (r *Runner) Collector() *telemetry.Collector { return r.collector }

// Detectors returns the detector system.
func (r *Runner) Detectors() *systems.DetectorSystem { return r.detectors }

// Close stops the engine workers and flushes output files.
func (r *Runner) Close() error {
	r.engine.Close()
	return r.outputManager.Close()
}
