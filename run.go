package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/pyroflow/config"
	"github.com/pthm-cable/pyroflow/engine"
	"github.com/pthm-cable/pyroflow/storage"
)

var (
	flagSeed      int64
	flagMaxTicks  int
	flagIgnite    []string
	flagOutputDir string
	flagLogStats  bool
	flagRunDB     string
	flagWorkers   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation",
	Long: `Run the simulation without graphics until --max-ticks or Ctrl-C.

Ignitions are given as floor:x:y, optionally followed by @tick to apply them
between ticks later in the run. Igniting a cell that is already burning
breaches the ceiling above it.`,
	Args: cobra.NoArgs,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = time-based)")
	runCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 600, "Stop after N ticks (0 = until interrupted)")
	runCmd.Flags().StringArrayVar(&flagIgnite, "ignite", nil, "Ignition floor:x:y[@tick] (repeatable)")
	runCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	runCmd.Flags().BoolVar(&flagLogStats, "log-stats", false, "Output stats via slog")
	runCmd.Flags().StringVar(&flagRunDB, "db", defaultRunDB, "Record the run summary in this SQLite database (empty = do not record)")
	runCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Floor workers (0 = from config, 1 = serial)")
}

// parseIgnition parses "floor:x:y" or "floor:x:y@tick".
func parseIgnition(s string) (engine.IgnitionEvent, error) {
	var ev engine.IgnitionEvent

	loc, tickStr, hasTick := strings.Cut(s, "@")
	if hasTick {
		tick, err := strconv.ParseInt(tickStr, 10, 32)
		if err != nil || tick < 0 {
			return ev, fmt.Errorf("invalid ignition tick in %q", s)
		}
		ev.Tick = int32(tick)
	}

	parts := strings.Split(loc, ":")
	if len(parts) != 3 {
		return ev, fmt.Errorf("invalid ignition %q (want floor:x:y[@tick])", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ev, fmt.Errorf("invalid ignition %q: %w", s, err)
		}
		vals[i] = v
	}
	ev.Floor, ev.X, ev.Y = vals[0], vals[1], vals[2]
	return ev, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()

	ignitions := make([]engine.IgnitionEvent, 0, len(flagIgnite))
	for _, s := range flagIgnite {
		ev, err := parseIgnition(s)
		if err != nil {
			return err
		}
		ignitions = append(ignitions, ev)
	}

	runner, err := engine.NewRunner(cfg, engine.RunnerOptions{
		Seed:      flagSeed,
		Workers:   flagWorkers,
		LogStats:  flagLogStats,
		OutputDir: flagOutputDir,
		Ignitions: ignitions,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", runner.Engine().Seed(),
		"floors", cfg.Building.Floors,
		"width", cfg.Building.Width,
		"height", cfg.Building.Height,
		"max_ticks", flagMaxTicks,
		"ignitions", len(ignitions),
	)

	simulate(ctx, runner, flagMaxTicks)

	summary := runner.Summary()
	slog.Info("run complete", "summary", summary)

	if flagRunDB != "" {
		if err := recordRun(flagRunDB, summary); err != nil {
			return err
		}
	}
	return nil
}

// simulate steps the runner until maxTicks (0 = unlimited) or ctx ends.
func simulate(ctx context.Context, runner *engine.Runner, maxTicks int) {
	for maxTicks == 0 || int(runner.Tick()) < maxTicks {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", runner.Tick())
			return
		default:
		}
		runner.Step()
	}
	slog.Info("max ticks reached", "tick", runner.Tick())
}

func recordRun(dbPath string, s engine.RunSummary) error {
	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveRun(storage.Run{
		Seed:              s.Seed,
		Ticks:             int(s.Ticks),
		Floors:            s.Floors,
		Width:             s.Width,
		Height:            s.Height,
		Ignitions:         s.Ignitions,
		PeakFireCells:     s.PeakFireCells,
		PeakSmoke:         s.PeakSmoke,
		PeakDanger:        s.PeakDanger,
		CollapsedWalls:    s.CollapsedWalls,
		FirstAlarmTick:    int(s.FirstAlarmTick),
		FirstCriticalTick: int(s.FirstCriticalTick),
	})
	if err != nil {
		return err
	}
	slog.Info("run recorded", "id", id, "db", dbPath)
	return nil
}
