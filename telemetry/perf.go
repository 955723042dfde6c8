package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for one tick.
const (
	PhaseStep      = "step" // Spawn, advance, fade and retire
	PhaseColorize  = "colorize"
	PhaseRender    = "render"
	PhaseTelemetry = "telemetry"
)

// phases lists every phase in report order.
var phases = []string{PhaseStep, PhaseColorize, PhaseRender, PhaseTelemetry}

// Phases returns the phase names in report order.
func Phases() []string {
	return append([]string(nil), phases...)
}

// PerfCollector keeps tick and phase timings for the last windowSize ticks.
// Phase names outside the standard set get their own column on first use.
type PerfCollector struct {
	windowSize int
	n          int // Samples recorded, capped at windowSize
	next       int // Ring write position

	ticks  []float64   // Tick duration in ns, one per ring slot
	phases [][]float64 // [phase][slot] duration in ns
	names  []string
	slot   map[string]int

	tickStart  time.Time
	phaseStart time.Time
	current    int // Active phase column, -1 between ticks
	pending    []float64

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 is one second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		windowSize: windowSize,
		ticks:      make([]float64, windowSize),
		slot:       make(map[string]int),
		current:    -1,
	}
	for _, name := range phases {
		p.column(name)
	}
	return p
}

func (p *PerfCollector) column(name string) int {
	if i, ok := p.slot[name]; ok {
		return i
	}
	i := len(p.names)
	p.slot[name] = i
	p.names = append(p.names, name)
	p.phases = append(p.phases, make([]float64, p.windowSize))
	p.pending = append(p.pending, 0)
	return i
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.pending)
	p.current = -1
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.current = p.column(phase)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.current >= 0 {
		p.pending[p.current] += float64(now.Sub(p.phaseStart))
	}
}

// EndTick closes the last phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current = -1

	p.ticks[p.next] = float64(now.Sub(p.tickStart))
	for i := range p.phases {
		p.phases[i][p.next] = p.pending[i]
	}
	p.next = (p.next + 1) % p.windowSize
	p.n = min(p.n+1, p.windowSize)
}

// RecordFrame marks a presented frame; the gap to the previous call is the
// frame time.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.n == 0 {
		return s
	}

	ticks := p.ticks[:p.n]
	avg := stat.Mean(ticks, nil)
	sorted := slices.Clone(ticks)
	slices.Sort(sorted)

	s.AvgTickDuration = time.Duration(avg)
	s.MinTickDuration = time.Duration(floats.Min(ticks))
	s.MaxTickDuration = time.Duration(floats.Max(ticks))
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))
	if avg > 0 {
		s.TicksPerSecond = float64(time.Second) / avg
	}

	for i, name := range p.names {
		col := p.phases[i][:p.n]
		if floats.Sum(col) == 0 {
			continue
		}
		phaseAvg := stat.Mean(col, nil)
		s.PhaseAvg[name] = time.Duration(phaseAvg)
		if avg > 0 {
			s.PhasePct[name] = phaseAvg / avg * 100
		}
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
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
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	StepPct      float64 `csv:"step_pct"`
	ColorizePct  float64 `csv:"colorize_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		StepPct:      s.PhasePct[PhaseStep],
		ColorizePct:  s.PhasePct[PhaseColorize],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
