package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of a runner step.
type Phase uint8

// Phases in step order.
const (
	PhaseIgnition Phase = iota
	PhaseTransition
	PhaseDetectors
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"ignition", "transition", "detectors", "telemetry"}

// String returns the phase name used in logs and CSV columns.
func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseDurations holds one duration per phase.
type PhaseDurations [numPhases]time.Duration

// tickTiming is the measured cost of one step.
type tickTiming struct {
	total  time.Duration
	phases PhaseDurations
}

// PerfCollector keeps step timings over a rolling window of ticks.
// A phase runs from its StartPhase call to the next StartPhase or EndTick.
type PerfCollector struct {
	window []tickTiming
	next   int
	filled int

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{window: make([]tickTiming, windowSize)}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = phase < numPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the last phase and stores the step in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// PerfStats summarizes the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg PhaseDurations
	PhasePct [numPhases]float64 // share of the average step, 0-100

	TicksPerSecond float64
}

// Stats aggregates the timings currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum PhaseDurations
	for i, t := range p.window[:p.filled] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for ph, d := range t.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window summary, skipping phases under 0.1% of a step.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for ph, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Tick          int32   `csv:"tick"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	IgnitionPct   float64 `csv:"ignition_pct"`
	TransitionPct float64 `csv:"transition_pct"`
	DetectorsPct  float64 `csv:"detectors_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the sample taken at tick.
func (s PerfStats) ToCSV(tick int32) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:          tick,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		IgnitionPct:   s.PhasePct[PhaseIgnition],
		TransitionPct: s.PhasePct[PhaseTransition],
		DetectorsPct:  s.PhasePct[PhaseDetectors],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
