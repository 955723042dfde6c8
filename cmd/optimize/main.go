// Package main searches flow parameters that maximize how much of the
// canvas the lines cover, using CMA-ES or Nelder-Mead.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flowlines/config"
)

// formatDuration formats a duration as 1h02m03s, or 2m03s when under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// newMethod returns the named optimizer.
func newMethod(name string, population int) (optimize.Method, error) {
	switch name {
	case "cmaes":
		return &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}, nil
	case "neldermead":
		return &optimize.NelderMead{SimplexSize: 0.2}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (want cmaes or neldermead)", name)
	}
}

// progress logs every evaluation to optimize_log.csv and stdout and
// remembers the best parameters seen.
type progress struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	maxEvals  int
	out       *csv.Writer
	start     time.Time

	evals       int
	bestFitness float64
	bestParams  []float64
}

func newProgress(params *ParamVector, evaluator *FitnessEvaluator, maxEvals int, f *os.File) *progress {
	p := &progress{
		params:      params,
		evaluator:   evaluator,
		maxEvals:    maxEvals,
		out:         csv.NewWriter(f),
		start:       time.Now(),
		bestFitness: math.Inf(1),
	}
	p.out.Write(append([]string{"eval", "fitness", "coverage"}, params.Names()...))
	return p
}

// record logs one evaluation of the clamped raw values.
func (p *progress) record(fitness float64, values []float64) {
	p.evals++
	if fitness < p.bestFitness {
		p.bestFitness = fitness
		p.bestParams = append(p.bestParams[:0], values...)
	}

	row := []string{
		strconv.Itoa(p.evals),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(p.evaluator.LastCoverage(), 'f', 6, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	p.out.Write(row)
	p.out.Flush()

	elapsed := time.Since(p.start)
	eta := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	fmt.Printf("Eval %d/%d: coverage=%.3f quality=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
		p.evals, p.maxEvals, p.evaluator.LastCoverage(), p.evaluator.LastQuality(), p.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 2000, "Maximum run length in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	methodName := flag.String("method", "cmaes", "Optimizer: cmaes or neldermead")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg)

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}
	method, err := newMethod(*methodName, popSize)
	if err != nil {
		log.Fatal(err)
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	prog := newProgress(params, evaluator, *maxEvals, logFile)

	// The optimizer works in normalized [0,1] space
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			prog.record(fitness, raw)
			return fitness
		},
	}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	fmt.Printf("Starting %s optimization with %d parameters, max_evals=%d\n", *methodName, params.Dim(), *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, max ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := prog.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", prog.evals, formatDuration(time.Since(prog.start)))
	fmt.Printf("Best fitness: %.4f\n\nBest parameters:\n", prog.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, best[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	if err := params.ApplyToConfig(bestCfg, best); err != nil {
		log.Fatalf("best parameters are invalid: %v", err)
	}
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
