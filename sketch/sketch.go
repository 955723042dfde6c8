// Package sketch runs a flow-line simulation tick by tick and turns its
// state into frames for a renderer.
package sketch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/noise"
	"github.com/pthm-cable/flowlines/palette"
	"github.com/pthm-cable/flowlines/telemetry"
)

// Options configures a Sketch.
type Options struct {
	Seed      int64  // RNG seed for noise, sampler and palette
	LogStats  bool   // Log window stats via slog
	OutputDir string // Directory for CSV output and config snapshot (empty = disabled)
	MaxTicks  int    // Stop Run after N ticks (0 = until exhausted)
}

// Renderer consumes frames.
type Renderer interface {
	Draw(frame flow.Frame) error
}

// Sketch holds the complete run state.
type Sketch struct {
	cfg       *config.Config
	rng       *rand.Rand
	sim       *flow.Simulator
	colorizer *palette.Colorizer

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	maxTicks int
	tick     int
	last     flow.StepStats
	frame    flow.Frame

	// Debug grid cache, refreshed when the field time moves
	grid     []noise.VectorSample
	gridTime float64
}

// New builds a sketch from cfg. cfg must already be validated, which
// config.Load does.
func New(cfg *config.Config, opts Options) (*Sketch, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	sim, err := newSimulator(cfg, opts.Seed, rng)
	if err != nil {
		return nil, fmt.Errorf("building simulator: %w", err)
	}
	colorizer, err := newColorizer(cfg, opts.Seed, rng)
	if err != nil {
		return nil, fmt.Errorf("building colorizer: %w", err)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	s := &Sketch{
		cfg:           cfg,
		rng:           rng,
		sim:           sim,
		colorizer:     colorizer,
		collector:     telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
		logStats:      opts.LogStats,
		maxTicks:      opts.MaxTicks,
		gridTime:      -1,
	}
	s.frame = s.buildFrame()
	return s, nil
}

// Tick advances the simulation one step and returns the new frame.
func (s *Sketch) Tick() flow.Frame {
	frame, _ := s.TickWith(nil)
	return frame
}

// TickWith runs one step, builds the frame and, when r is set, draws it
// inside the render perf phase.
func (s *Sketch) TickWith(r Renderer) (flow.Frame, error) {
	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseStep)
	s.last = s.sim.Step()
	s.tick++
	s.collector.Record(s.last)
	if s.last.NewGeneration {
		slog.Info("generation started",
			"tick", s.tick,
			"generation", s.sim.Generation(),
			"trails", s.last.Spawned,
		)
	}

	s.perfCollector.StartPhase(telemetry.PhaseColorize)
	s.frame = s.buildFrame()

	var err error
	if r != nil {
		s.perfCollector.StartPhase(telemetry.PhaseRender)
		err = r.Draw(s.frame)
		s.perfCollector.RecordFrame()
	}

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
	return s.frame, err
}

// Run ticks until the simulation is exhausted, MaxTicks is reached or ctx
// is cancelled, drawing every frame with r. r may be nil. Cancellation is
// only observed between ticks, so trails are always left consistent.
func (s *Sketch) Run(ctx context.Context, r Renderer) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("run cancelled", "tick", s.tick)
			return ctx.Err()
		default:
		}

		if s.Done() {
			slog.Info("simulation exhausted", "tick", s.tick, "trails", len(s.sim.Trails()))
			return nil
		}
		if s.maxTicks > 0 && s.tick >= s.maxTicks {
			slog.Info("max ticks reached", "tick", s.tick)
			return nil
		}

		if _, err := s.TickWith(r); err != nil {
			return fmt.Errorf("drawing tick %d: %w", s.tick, err)
		}
	}
}

// Done reports whether further ticks would change nothing: every
// generation has run, nothing is growing and no trail is still fading.
func (s *Sketch) Done() bool {
	if !s.sim.Done() {
		return false
	}
	return s.cfg.Flow.FadeAfter == 0 || len(s.sim.Active()) == 0
}

// Stopped reports whether Run would return now: the run is exhausted or
// MaxTicks ticks have run.
func (s *Sketch) Stopped() bool {
	return s.Done() || (s.maxTicks > 0 && s.tick >= s.maxTicks)
}

// Frame returns the most recent frame.
func (s *Sketch) Frame() flow.Frame { return s.frame }

// Ticks returns the number of ticks run.
func (s *Sketch) Ticks() int { return s.tick }

// LastStep returns the stats of the most recent step.
func (s *Sketch) LastStep() flow.StepStats { return s.last }

// Simulator exposes the underlying simulator.
func (s *Sketch) Simulator() *flow.Simulator { return s.sim }

// Colorizer exposes the trail colorizer.
func (s *Sketch) Colorizer() *palette.Colorizer { return s.colorizer }

// Config returns the sketch configuration.
func (s *Sketch) Config() *config.Config { return s.cfg }

// Perf returns the performance collector.
func (s *Sketch) Perf() *telemetry.PerfCollector { return s.perfCollector }

// SetStatsCallback sets a function called with every flushed window.
func (s *Sketch) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// buildFrame collects clipped segments in trail spawn order, each colored
// once per trail.
func (s *Sketch) buildFrame() flow.Frame {
	w, h := s.cfg.Derived.Width, s.cfg.Derived.Height
	frame := flow.Frame{
		Tick:       s.tick,
		Generation: s.sim.Generation(),
		Width:      w,
		Height:     h,
	}

	for _, t := range s.sim.Active() {
		segs := t.Segments()
		if len(segs) == 0 {
			continue
		}
		col := s.colorizer.ColorOf(t, w, h)
		for _, seg := range segs {
			frame.Strokes = append(frame.Strokes, flow.Stroke{
				TrailID: t.ID,
				Points:  seg,
				Color:   col,
				Width:   t.Width,
			})
		}
	}
	frame.Heads = s.sim.Heads()

	if s.cfg.Render.DebugField {
		if now := s.sim.Time(); s.grid == nil || now != s.gridTime {
			box := r2.Box{Max: r2.Vec{X: w, Y: h}}
			s.grid = noise.Grid(s.sim.Field(), box, s.cfg.Render.DebugStep, now)
			s.gridTime = now
		}
		frame.Field = s.grid
	}

	return frame
}
