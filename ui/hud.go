package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/sketch"
	"github.com/pthm-cable/flowlines/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Trails     int
	Growing    int
	Generation int
	Tick       int
	Coverage   float64
	FPS        int32
	Paused     bool
	Done       bool
	Palette    []colorful.Color // Middle shade of each palette row
}

// HUDDataOf samples s for display.
func HUDDataOf(s *sketch.Sketch, title string) HUDData {
	sim := s.Simulator()
	p := s.Colorizer().Palette()
	base := make([]colorful.Color, p.Rows())
	for i := range base {
		base[i] = p.At(i, p.Shades()/2)
	}
	return HUDData{
		Title:      title,
		Trails:     len(sim.Active()),
		Growing:    sim.Growing(),
		Generation: sim.Generation(),
		Tick:       s.Ticks(),
		Coverage:   sim.Coverage(),
		Done:       s.Done(),
		Palette:    base,
	}
}

// StatusLines formats the HUD body, one entry per line. The last line is
// the run state.
func StatusLines(d HUDData) []string {
	state := "Running"
	if d.Paused {
		state = "PAUSED"
	} else if d.Done {
		state = "Done"
	}
	return []string{
		fmt.Sprintf("Trails: %d | Growing: %d | Generation: %d", d.Trails, d.Growing, d.Generation),
		fmt.Sprintf("Tick: %d | FPS: %d | Coverage: %.1f%%", d.Tick, d.FPS, d.Coverage*100),
		state,
	}
}

// HUD renders the main heads-up display.
type HUD struct {
	theme Theme
}

// NewHUD creates a HUD with the default theme.
func NewHUD() *HUD {
	return &HUD{theme: DefaultTheme()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	lines := StatusLines(data)
	y := int32(35)
	for i, line := range lines {
		col := rl.LightGray
		if i == len(lines)-1 {
			col = rl.Yellow
		}
		rl.DrawText(line, 10, y, 16, col)
		y += 20
	}

	if len(data.Palette) > 0 {
		c := &cursor{theme: h.theme, x: 10, y: y + 4}
		c.swatches("Palette", data.Palette)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders tick timing and the per-phase share of tick time.
type PerfPanel struct {
	theme Theme
	x, y  int32
	width int32
}

// NewPerfPanel creates a performance panel at (x, y).
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{theme: DefaultTheme(), x: x, y: y, width: width}
}

// SetPosition moves the panel.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders stats.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	names := telemetry.Phases()
	rows := int32(len(names)) + 3
	c := panel(p.theme, p.x, p.y, p.width, 2*p.theme.Padding+rows*(p.theme.Line+2))

	c.header("Performance")
	c.labelValue("tick", stats.AvgTickDuration.Round(time.Microsecond).String())
	c.labelValue("p95", stats.P95TickDuration.Round(time.Microsecond).String())
	for _, name := range names {
		c.bar(name, stats.PhasePct[name]/100)
	}
}
