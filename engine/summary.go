package engine

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/pyroflow/telemetry"
)

// RunSummary aggregates a run for logging and the run ledger.
type RunSummary struct {
	Seed              int64
	Ticks             int32
	Floors            int
	Width, Height     int
	Ignitions         int
	PeakFireCells     int
	PeakSmoke         float64
	PeakDanger        float64
	CollapsedWalls    int
	FirstAlarmTick    int32 // -1 if no detector tripped
	FirstCriticalTick int32 // -1 if no floor went critical
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("seed", s.Seed),
		slog.Int("ticks", int(s.Ticks)),
		slog.Int("floors", s.Floors),
		slog.Int("ignitions", s.Ignitions),
		slog.Int("peak_fire_cells", s.PeakFireCells),
		slog.Float64("peak_smoke", s.PeakSmoke),
		slog.Float64("peak_danger", s.PeakDanger),
		slog.Int("collapsed_walls", s.CollapsedWalls),
		slog.Int("first_alarm_tick", int(s.FirstAlarmTick)),
		slog.Int("first_critical_tick", int(s.FirstCriticalTick)),
	)
}

func (r *Runner) resetSummary() {
	w, h := r.engine.Size()
	r.summary = RunSummary{
		Seed:              r.engine.Seed(),
		Floors:            r.engine.NumFloors(),
		Width:             w,
		Height:            h,
		FirstAlarmTick:    -1,
		FirstCriticalTick: -1,
	}
}

// observe folds a stats sample into the summary.
func (r *Runner) observe(s telemetry.Stats) {
	r.summary.PeakFireCells = max(r.summary.PeakFireCells, s.ActiveFireCells)
	r.summary.PeakSmoke = math.Max(r.summary.PeakSmoke, s.TotalSmokeMass)
	r.summary.PeakDanger = math.Max(r.summary.PeakDanger, s.MaxDanger)
	r.summary.CollapsedWalls = s.CollapsedWalls
	if r.summary.FirstCriticalTick < 0 && s.Critical() {
		r.summary.FirstCriticalTick = s.Tick
	}
}

// Summary returns the run so far.
func (r *Runner) Summary() RunSummary {
	s := r.summary
	s.Ticks = r.engine.Tick()
	if tick, ok := r.detectors.FirstAlarmTick(); ok {
		s.FirstAlarmTick = tick
	}
	return s
}
