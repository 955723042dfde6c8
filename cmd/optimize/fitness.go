package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/sketch"
	"github.com/pthm-cable/flowlines/telemetry"
)

// invalidFitness is returned for parameter vectors the config rejects.
const invalidFitness = 1.0

// FitnessEvaluator runs headless sketches and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastCover   float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastCoverage returns the mean final coverage of the most recent evaluation.
func (fe *FitnessEvaluator) LastCoverage() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCover
}

// runResult holds the results from a single run.
type runResult struct {
	coverage    float64
	windowStats []telemetry.WindowStats // collected via the stats callback each window
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative final coverage with up to a 20% quality bonus.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return invalidFitness
	}

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.runSketch(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalCover float64
	for i, r := range results {
		if errs[i] != nil {
			return invalidFitness
		}
		quality := computeQuality(r.windowStats)
		totalFitness += computeFitness(r.coverage, quality)
		totalQuality += quality
		totalCover += r.coverage
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastCover = totalCover / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSketch executes one headless run until the sketch is exhausted or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSketch(cfg *config.Config, seed int64) (runResult, error) {
	var result runResult

	s, err := sketch.New(cfg, sketch.Options{Seed: seed, MaxTicks: fe.maxTicks})
	if err != nil {
		return result, err
	}
	defer s.Close()

	s.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})
	if err := s.Run(context.Background(), nil); err != nil {
		return result, err
	}

	result.coverage = s.Simulator().Coverage()
	return result, nil
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Palette.Colors = append([]string(nil), fe.baseConfig.Palette.Colors...)
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(coverage × (1.0 + 0.2 × quality))
func computeFitness(coverage, quality float64) float64 {
	return -(coverage * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightAccept    = 0.5
	qualityWeightStability = 0.5
)

// computeQuality scores a run in [0, 1] from its window stats: a high
// accept rate means lines rarely stall against occupied space, and a low
// spread of trail lengths means lines fill their targets evenly.
func computeQuality(windows []telemetry.WindowStats) float64 {
	var acceptSum float64
	var acceptCount int
	var last telemetry.WindowStats
	for _, w := range windows {
		if w.Accepted+w.Rejected == 0 {
			continue
		}
		acceptSum += w.AcceptRate
		acceptCount++
		last = w
	}
	if acceptCount == 0 {
		return 0
	}

	acceptScore := acceptSum / float64(acceptCount)

	stabilityScore := 0.0
	if last.LengthMean > 0 {
		cv := last.LengthStd / last.LengthMean
		stabilityScore = math.Exp(-cv * cv)
	}

	return clamp01(qualityWeightAccept*acceptScore + qualityWeightStability*stabilityScore)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}
