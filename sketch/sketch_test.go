package sketch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/telemetry"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Canvas.Width = 200
	cfg.Canvas.Height = 200
	cfg.Canvas.Padding = 10
	cfg.Sampler.MinRadius = 40
	cfg.Flow.MinSteps = 3
	cfg.Flow.MaxSteps = 10
	cfg.Occupancy.LineMargin = 4
	cfg.Noise.Scale = 0.01
	cfg.Telemetry.WindowTicks = 5
	if err := cfg.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	return cfg
}

func newSketch(t *testing.T, cfg *config.Config, opts Options) *Sketch {
	t.Helper()
	s, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type countingRenderer struct {
	frames int
	err    error
}

func (r *countingRenderer) Draw(frame flow.Frame) error {
	r.frames++
	return r.err
}

func TestRunUntilExhausted(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 1, MaxTicks: 500})
	r := &countingRenderer{}

	if err := s.Run(context.Background(), r); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !s.Done() {
		t.Error("expected sketch to be done")
	}
	if s.Ticks() >= 500 {
		t.Errorf("ran %d ticks, expected exhaustion well before max", s.Ticks())
	}
	if r.frames != s.Ticks() {
		t.Errorf("renderer saw %d frames, want %d", r.frames, s.Ticks())
	}
	if len(s.Simulator().Trails()) == 0 {
		t.Error("no trails spawned")
	}
}

func TestRunMaxTicks(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 1, MaxTicks: 3})
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", s.Ticks())
	}
}

func TestRunCancelled(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if s.Ticks() != 0 {
		t.Errorf("ticks = %d after cancelled run, want 0", s.Ticks())
	}
}

func TestRunRendererError(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 1})
	boom := errors.New("boom")

	err := s.Run(context.Background(), &countingRenderer{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want wrapped boom", err)
	}
	if s.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", s.Ticks())
	}
}

func TestDeterministicFrames(t *testing.T) {
	cfg := smallConfig(t)
	a := newSketch(t, cfg, Options{Seed: 42})
	b := newSketch(t, cfg, Options{Seed: 42})

	for i := 0; i < 15; i++ {
		fa, fb := a.Tick(), b.Tick()
		if len(fa.Strokes) != len(fb.Strokes) {
			t.Fatalf("tick %d: %d strokes vs %d", i, len(fa.Strokes), len(fb.Strokes))
		}
		for j := range fa.Strokes {
			sa, sb := fa.Strokes[j], fb.Strokes[j]
			if sa.TrailID != sb.TrailID || sa.Color != sb.Color || len(sa.Points) != len(sb.Points) {
				t.Fatalf("tick %d stroke %d differs", i, j)
			}
			for k := range sa.Points {
				if sa.Points[k] != sb.Points[k] {
					t.Fatalf("tick %d stroke %d point %d: %v vs %v", i, j, k, sa.Points[k], sb.Points[k])
				}
			}
		}
	}
}

func TestFrameOrderAndColor(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 9})
	var frame flow.Frame
	for i := 0; i < 8; i++ {
		frame = s.Tick()
	}
	if len(frame.Strokes) == 0 {
		t.Fatal("expected strokes after 8 ticks")
	}
	if frame.Tick != 8 {
		t.Errorf("frame tick = %d, want 8", frame.Tick)
	}

	colors := make(map[int]string)
	last := -1
	for _, st := range frame.Strokes {
		if st.TrailID < last {
			t.Errorf("stroke for trail %d after trail %d", st.TrailID, last)
		}
		last = st.TrailID
		if len(st.Points) < 2 {
			t.Errorf("stroke for trail %d has %d points", st.TrailID, len(st.Points))
		}
		hex := st.Color.Hex()
		if prev, ok := colors[st.TrailID]; ok && prev != hex {
			t.Errorf("trail %d has colors %s and %s", st.TrailID, prev, hex)
		}
		colors[st.TrailID] = hex
	}
}

func TestDebugFieldInFrame(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Render.DebugField = true
	cfg.Render.DebugStep = 50

	s := newSketch(t, cfg, Options{Seed: 1})
	frame := s.Tick()
	if got := len(frame.Field); got != 16 {
		t.Errorf("debug grid has %d samples, want 16", got)
	}

	cfg2 := smallConfig(t)
	s2 := newSketch(t, cfg2, Options{Seed: 1})
	if frame := s2.Tick(); frame.Field != nil {
		t.Errorf("debug grid present with debug_field off: %d samples", len(frame.Field))
	}
}

func TestFrameHeads(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 4})

	frame := s.Tick()
	growing := s.Simulator().Growing()
	if growing == 0 {
		t.Fatal("nothing growing after the first tick")
	}
	if len(frame.Heads) != growing {
		t.Errorf("frame has %d heads, want %d", len(frame.Heads), growing)
	}

	for i := 0; i < 1000 && !s.Done(); i++ {
		frame = s.Tick()
	}
	if !s.Done() {
		t.Fatal("sketch never finished")
	}
	if len(frame.Heads) != 0 {
		t.Errorf("finished frame still has %d heads", len(frame.Heads))
	}
}

func TestStatsCallback(t *testing.T) {
	s := newSketch(t, smallConfig(t), Options{Seed: 3})
	var windows []telemetry.WindowStats
	s.SetStatsCallback(func(ws telemetry.WindowStats) { windows = append(windows, ws) })

	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 5 || windows[1].WindowEndTick != 10 {
		t.Errorf("window ends = %d, %d, want 5, 10", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[0].Spawned == 0 {
		t.Error("first window recorded no spawns")
	}
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(smallConfig(t), Options{Seed: 5, OutputDir: dir, MaxTicks: 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "trails.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "trails.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if want := len(s.Simulator().Trails()) + 1; len(lines) != want {
		t.Errorf("trails.csv has %d lines, want %d", len(lines), want)
	}
}

func TestNewRejectsBadNoise(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Noise.Kind = "worley"
	if _, err := New(cfg, Options{}); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg := smallConfig(t)
	p := ParamsFromConfig(cfg)
	if p.Width != 200 || p.Height != 200 {
		t.Errorf("size = %vx%v, want 200x200", p.Width, p.Height)
	}
	if p.MinSteps != 3 || p.MaxSteps != 10 {
		t.Errorf("steps = %d..%d, want 3..10", p.MinSteps, p.MaxSteps)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("params from valid config fail validation: %v", err)
	}
}
