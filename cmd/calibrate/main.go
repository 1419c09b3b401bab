// Package main provides CMA-ES calibration of the vertical-coupling
// parameters so that fire reaches the top floor at a target time.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/pyroflow/config"
)

// evalRecord is one row of calibrate_log.csv.
type evalRecord struct {
	Eval                 int     `csv:"eval"`
	Fitness              float64 `csv:"fitness"`
	MeanBreachTick       float64 `csv:"mean_breach_tick"`
	VerticalConductivity float64 `csv:"vertical_conductivity"`
	SmokeRiseRate        float64 `csv:"smoke_rise_rate"`
	HeatTransfer         float64 `csv:"heat_transfer"`
}

// newEvalRecord builds a log row. clamped is in NewParamVector order.
func newEvalRecord(eval int, fitness, breach float64, clamped []float64) evalRecord {
	return evalRecord{
		Eval:                 eval,
		Fitness:              fitness,
		MeanBreachTick:       breach,
		VerticalConductivity: clamped[0],
		SmokeRiseRate:        clamped[1],
		HeatTransfer:         clamped[2],
	}
}

// evalLog appends records to a CSV file, writing the header once.
type evalLog struct {
	file          *os.File
	headerWritten bool
}

func (l *evalLog) write(rec evalRecord) error {
	records := []evalRecord{rec}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(records, l.file)
	}
	return gocsv.MarshalWithoutHeaders(records, l.file)
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 1500, "Tick cap per run; runs that never breach score this")
	targetTick := flag.Int("target-tick", 300, "Tick at which the top floor should first go critical")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "calibrate",
	})
	slog.SetDefault(slog.New(logger))

	if err := run(*configPath, *outputDir, int32(*maxTicks), int32(*targetTick), *seeds, *maxEvals, *population); err != nil {
		slog.Error("calibration failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks, targetTick int32, seeds, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if targetTick <= 0 || targetTick >= maxTicks {
		return fmt.Errorf("--target-tick must be in (0, --max-ticks)")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if baseCfg.Building.Floors < 2 {
		return fmt.Errorf("calibration needs at least two floors, have %d", baseCfg.Building.Floors)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector()

	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, maxTicks, targetTick, evalSeeds, baseCfg)

	logPath := filepath.Join(outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	evals := &evalLog{file: logFile}

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(ctx, clamped)
			if err != nil {
				// Interrupted; Status stops the search after this call.
				return bestFitness
			}
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			breach := evaluator.LastBreach()
			if err := evals.write(newEvalRecord(evalCount, fitness, breach, clamped)); err != nil {
				slog.Warn("failed to write eval log", "error", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(maxEvals-evalCount) * avgPerEval

			slog.Info("eval",
				"n", evalCount,
				"of", maxEvals,
				"breach_tick", fmt.Sprintf("%.0f", breach),
				"target", targetTick,
				"fitness", fitness,
				"best", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	slog.Info("starting CMA-ES calibration",
		"params", dim,
		"population", popSize,
		"max_evals", maxEvals,
		"seeds", seeds,
		"target_tick", targetTick,
		"max_ticks", maxTicks,
	)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	if bestParams == nil {
		if result == nil {
			return fmt.Errorf("no evaluation completed")
		}
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	slog.Info("calibration complete",
		"evals", evalCount,
		"elapsed", formatDuration(time.Since(startTime)),
		"best_fitness", evaluator.BestFitness(),
	)
	for i, spec := range params.Specs {
		slog.Info("best parameter", "name", spec.Name, "path", spec.Path, "value", bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", configOutPath)
	return nil
}
