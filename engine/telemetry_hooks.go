package engine

import (
	"log/slog"

	"github.com/pthm-cable/pyroflow/telemetry"
)

// flushTelemetry samples stats when due and handles events and output.
func (r *Runner) flushTelemetry() {
	tick := r.engine.Tick()
	if !r.collector.ShouldSample(tick) {
		return
	}

	stats := telemetry.Compute(r.engine.Floors(), tick, &r.cfg.Telemetry)
	stats.SetAlarms(r.detectors.Tripped)
	r.collector.Record(stats)
	r.observe(stats)
	perfStats := r.perfCollector.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if r.outputManager != nil {
		if err := r.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := r.outputManager.WritePerf(perfStats, tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, ev := range r.eventDetector.Check(stats) {
		ev.LogEvent()

		if r.outputManager != nil {
			if err := r.outputManager.WriteEvent(ev); err != nil {
				slog.Error("failed to write event", "error", err)
			}
		}
	}
}
