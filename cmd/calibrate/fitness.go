package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pyroflow/config"
	"github.com/pthm-cable/pyroflow/engine"
	"github.com/pthm-cable/pyroflow/telemetry"
)

// FitnessEvaluator runs the breach scenario headless and scores how close
// the top floor's time-to-critical lands to the target.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	targetTick int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastBreach  float64 // mean breach tick from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks, targetTick int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		targetTick:  targetTick,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestFitness returns the lowest fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// LastBreach returns the mean breach tick from the most recent evaluation.
func (fe *FitnessEvaluator) LastBreach() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastBreach
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Every seed runs on its own goroutine with a private engine.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	breaches := make([]float64, len(fe.seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			tick, err := runScenario(ctx, cfg, seed, fe.maxTicks)
			if err != nil {
				return err
			}
			breaches[i] = float64(tick)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return math.Inf(1), err
	}

	fitness := breachError(breaches, fe.targetTick)
	mean := stat.Mean(breaches, nil)

	fe.mu.Lock()
	fe.lastBreach = mean
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.mu.Unlock()

	return fitness, nil
}

// breachError is the mean squared distance between each run's breach tick
// and the target.
func breachError(breaches []float64, target int32) float64 {
	if len(breaches) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, b := range breaches {
		d := b - float64(target)
		sum += d * d
	}
	return sum / float64(len(breaches))
}

// runScenario sets the centre of the ground floor alight, forces a chimney
// breach into the floor above, and returns the tick the top floor first
// goes critical. Runs that never get there score maxTicks.
func runScenario(ctx context.Context, cfg *config.Config, seed int64, maxTicks int32) (int32, error) {
	eng := engine.New(cfg, engine.Options{Seed: seed, Workers: 1})
	defer eng.Close()

	w, h := eng.Size()
	eng.Ignite(0, w/2, h/2)
	eng.Ignite(0, w/2, h/2)

	top := eng.NumFloors() - 1
	threshold := cfg.Telemetry.CriticalDanger
	for eng.Tick() < maxTicks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		eng.Update()
		stats := telemetry.Compute(eng.Floors(), eng.Tick(), &cfg.Telemetry)
		if stats.FloorCritical(top, threshold) {
			return eng.Tick(), nil
		}
	}
	return maxTicks, nil
}
