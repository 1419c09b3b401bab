package telemetry

import (
	"math"
	"testing"
	"time"
)

// timedTicks records n steps with the given sleep per phase.
func timedTicks(pc *PerfCollector, n int, phases map[Phase]time.Duration) {
	order := []Phase{PhaseIgnition, PhaseTransition, PhaseDetectors, PhaseTelemetry}
	for i := 0; i < n; i++ {
		pc.StartTick()
		for _, ph := range order {
			d, ok := phases[ph]
			if !ok {
				continue
			}
			pc.StartPhase(ph)
			time.Sleep(d)
		}
		pc.EndTick()
	}
}

func TestPerfCollectorTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	timedTicks(pc, 5, map[Phase]time.Duration{
		PhaseTransition: 100 * time.Microsecond,
		PhaseDetectors:  200 * time.Microsecond,
	})

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v/%v/%v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
	if stats.PhaseAvg[PhaseTransition] < 100*time.Microsecond {
		t.Errorf("transition avg = %v, want >= 100us", stats.PhaseAvg[PhaseTransition])
	}
	if stats.PhaseAvg[PhaseIgnition] != 0 || stats.PhaseAvg[PhaseTelemetry] != 0 {
		t.Error("phases never started should have zero time")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	timedTicks(pc, 10, map[Phase]time.Duration{PhaseTransition: 10 * time.Microsecond})

	if pc.filled != 5 {
		t.Errorf("window holds %d samples, want 5", pc.filled)
	}
	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 || stats.TicksPerSecond <= 0 {
		t.Errorf("avg=%v tps=%v, want both positive", stats.AvgTickDuration, stats.TicksPerSecond)
	}
}

func TestPerfCollectorPhasePercentages(t *testing.T) {
	pc := NewPerfCollector(4)

	// Synthetic steps: detectors 1ms and telemetry 3ms of a 5ms tick
	for i := range pc.window {
		var phases PhaseDurations
		phases[PhaseDetectors] = time.Millisecond
		phases[PhaseTelemetry] = 3 * time.Millisecond
		pc.window[i] = tickTiming{total: 5 * time.Millisecond, phases: phases}
	}
	pc.filled = len(pc.window)

	stats := pc.Stats()
	tests := []struct {
		phase Phase
		want  float64
	}{
		{PhaseIgnition, 0},
		{PhaseTransition, 0},
		{PhaseDetectors, 20},
		{PhaseTelemetry, 60},
	}
	for _, tt := range tests {
		if got := stats.PhasePct[tt.phase]; math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s pct = %v, want %v", tt.phase, got, tt.want)
		}
	}
	if stats.TicksPerSecond != 200 {
		t.Errorf("ticks/sec = %v, want 200", stats.TicksPerSecond)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector gave %+v", stats)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseIgnition, "ignition"},
		{PhaseTransition, "transition"},
		{PhaseDetectors, "detectors"},
		{PhaseTelemetry, "telemetry"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var stats PerfStats
	stats.AvgTickDuration = 1500 * time.Microsecond
	stats.PhasePct[PhaseTransition] = 80
	stats.PhasePct[PhaseTelemetry] = 15

	rec := stats.ToCSV(120)
	if rec.Tick != 120 || rec.AvgTickUS != 1500 {
		t.Errorf("ToCSV tick/avg = %d/%d, want 120/1500", rec.Tick, rec.AvgTickUS)
	}
	if rec.TransitionPct != 80 || rec.TelemetryPct != 15 || rec.DetectorsPct != 0 {
		t.Errorf("phase pcts = %v/%v/%v", rec.TransitionPct, rec.TelemetryPct, rec.DetectorsPct)
	}
}
