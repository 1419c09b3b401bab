package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// FloorStats holds derived statistics for one floor. Only non-wall cells
// contribute.
type FloorStats struct {
	Floor          int     `csv:"floor"`
	FireCells      int     `csv:"fire_cells"`
	SmokeMass      float64 `csv:"smoke_mass"`
	AvgTemp        float64 `csv:"avg_temp"`
	MaxTemp        float64 `csv:"max_temp"`
	P90Temp        float64 `csv:"p90_temp"`
	TempStdDev     float64 `csv:"temp_std"`
	CollapsedWalls int     `csv:"collapsed_walls"`
	DangerLevel    float64 `csv:"danger"`
	AlarmsTripped  int     `csv:"alarms_tripped"`
}

// Stats holds building-wide statistics at one tick.
type Stats struct {
	Tick               int32   `csv:"tick"`
	ActiveFireCells    int     `csv:"fire_cells"`
	TotalSmokeMass     float64 `csv:"smoke_mass"`
	AverageTemperature float64 `csv:"avg_temp"`
	MaxDanger          float64 `csv:"max_danger"`
	CriticalFloors     int     `csv:"critical_floors"`
	CollapsedWalls     int     `csv:"collapsed_walls"`
	AlarmsTripped      int     `csv:"alarms_tripped"`

	Floors []FloorStats `csv:"-"`
}

// Compute derives statistics from the floor stack.
func Compute(floors components.Floors, tick int32, cfg *config.TelemetryConfig) Stats {
	s := Stats{
		Tick:   tick,
		Floors: make([]FloorStats, len(floors)),
	}

	var temps []float64
	var totalTemp float64
	var cellCount int

	for f, g := range floors {
		fs := FloorStats{Floor: f}
		temps = temps[:0]

		for i := range g.Cells {
			c := &g.Cells[i]
			if c.Type == components.CellWall {
				continue
			}
			temps = append(temps, c.Temperature)
			fs.SmokeMass += c.Smoke
			if c.Fire > 0 {
				fs.FireCells++
			}
			if c.Type == components.CellEmpty && c.Integrity <= 0 {
				fs.CollapsedWalls++
			}
		}

		if len(temps) > 0 {
			fs.AvgTemp, fs.TempStdDev = stat.PopMeanStdDev(temps, nil)
			fs.MaxTemp = floats.Max(temps)
			sort.Float64s(temps)
			fs.P90Temp = stat.Quantile(0.9, stat.Empirical, temps, nil)
			totalTemp += floats.Sum(temps)
			cellCount += len(temps)
		}
		fs.DangerLevel = DangerLevel(fs.FireCells, fs.SmokeMass, cfg)

		s.ActiveFireCells += fs.FireCells
		s.TotalSmokeMass += fs.SmokeMass
		s.CollapsedWalls += fs.CollapsedWalls
		s.MaxDanger = math.Max(s.MaxDanger, fs.DangerLevel)
		if fs.DangerLevel > cfg.CriticalDanger {
			s.CriticalFloors++
		}
		s.Floors[f] = fs
	}

	if cellCount > 0 {
		s.AverageTemperature = totalTemp / float64(cellCount)
	}

	return s
}

// DangerLevel scores a floor from 0 to 100 by burning cells and smoke mass.
func DangerLevel(fireCells int, smokeMass float64, cfg *config.TelemetryConfig) float64 {
	return math.Min(100, float64(fireCells)*cfg.DangerFireWeight+smokeMass*cfg.DangerSmokeWeight)
}

// Critical reports whether any floor is above the critical danger level.
func (s Stats) Critical() bool { return s.CriticalFloors > 0 }

// FloorCritical reports whether floor f is above the given danger level.
func (s Stats) FloorCritical(f int, threshold float64) bool {
	return f >= 0 && f < len(s.Floors) && s.Floors[f].DangerLevel > threshold
}

// SetAlarms copies per-floor tripped detector counts into the stats.
func (s *Stats) SetAlarms(tripped func(floor int) int) {
	s.AlarmsTripped = 0
	for f := range s.Floors {
		n := tripped(f)
		s.Floors[f].AlarmsTripped = n
		s.AlarmsTripped += n
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("tick", int(s.Tick)),
		slog.Int("fire_cells", s.ActiveFireCells),
		slog.Float64("smoke_mass", s.TotalSmokeMass),
		slog.Float64("avg_temp", s.AverageTemperature),
		slog.Float64("max_danger", s.MaxDanger),
		slog.Int("critical_floors", s.CriticalFloors),
		slog.Int("collapsed_walls", s.CollapsedWalls),
		slog.Int("alarms_tripped", s.AlarmsTripped),
	}
	return slog.GroupValue(attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (fs FloorStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("floor", fs.Floor),
		slog.Int("fire_cells", fs.FireCells),
		slog.Float64("smoke_mass", fs.SmokeMass),
		slog.Float64("avg_temp", fs.AvgTemp),
		slog.Float64("max_temp", fs.MaxTemp),
		slog.Float64("p90_temp", fs.P90Temp),
		slog.Float64("danger", fs.DangerLevel),
	)
}

// LogStats logs the building stats and each floor using slog.
func (s Stats) LogStats() {
	slog.Info("stats", "building", s)
	for _, fs := range s.Floors {
		slog.Info("floor_stats", "floor", fs)
	}
}
