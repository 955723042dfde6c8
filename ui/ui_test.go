package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/sketch"
)

func newTestSketch(t *testing.T) *sketch.Sketch {
	t.Helper()
	cfg := config.Default()
	cfg.Canvas.Width = 200
	cfg.Canvas.Height = 200
	cfg.Canvas.Padding = 10
	cfg.Sampler.MinRadius = 40
	cfg.Flow.MinSteps = 3
	cfg.Flow.MaxSteps = 10
	if err := cfg.Recompute(); err != nil {
		t.Fatal(err)
	}
	s, err := sketch.New(cfg, sketch.Options{Seed: 1})
	if err != nil {
		t.Fatalf("sketch.New: %v", err)
	}
	return s
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name string
		data HUDData
		want string
	}{
		{"running", HUDData{}, "Running"},
		{"paused", HUDData{Paused: true}, "PAUSED"},
		{"done", HUDData{Done: true}, "Done"},
		{"paused wins over done", HUDData{Paused: true, Done: true}, "PAUSED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := StatusLines(tt.data)
			if got := lines[len(lines)-1]; got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}

	lines := StatusLines(HUDData{Trails: 4, Growing: 2, Generation: 1, Tick: 9, Coverage: 0.25})
	if !strings.Contains(lines[0], "Trails: 4") || !strings.Contains(lines[1], "Coverage: 25.0%") {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestHUDDataOf(t *testing.T) {
	s := newTestSketch(t)
	s.Tick()

	d := HUDDataOf(s, "flowlines")
	if d.Tick != 1 || d.Generation != 1 {
		t.Errorf("tick/generation = %d/%d, want 1/1", d.Tick, d.Generation)
	}
	if len(d.Palette) != s.Colorizer().Palette().Rows() {
		t.Errorf("palette swatches = %d, want %d", len(d.Palette), s.Colorizer().Palette().Rows())
	}
}

func TestModelTicks(t *testing.T) {
	s := newTestSketch(t)
	m := NewModel(s, "flowlines", 60)

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule another tick")
	}
	if s.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", s.Ticks())
	}

	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if !m.Paused() {
		t.Fatal("space should pause")
	}
	m.Update(TickMsg{})
	if s.Ticks() != 1 {
		t.Errorf("paused model ticked: %d", s.Ticks())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if s.Ticks() != 2 {
		t.Errorf("single step: ticks = %d, want 2", s.Ticks())
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(newTestSketch(t), "flowlines", 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(newTestSketch(t), "flowlines", 0)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	view := next.(Model).View()
	if !strings.Contains(view, "flowlines") || !strings.Contains(view, "q quit") {
		t.Errorf("view missing title or help:\n%s", view)
	}
}
