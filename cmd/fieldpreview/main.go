// Field preview tool - interactive view of the steering field and its
// debug vector grid.
//
// Usage: go run ./cmd/fieldpreview [-config path] [-seed n]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/noise"
)

const (
	previewSize = 640
	panelWidth  = 300
	gridSize    = 160 // Texture resolution
	depthStep   = 25  // Canvas units per PageUp/PageDown
)

var kinds = []string{"simplex", "perlin", "fbm"}

// previewParams holds the editable field parameters.
type previewParams struct {
	Kind       int
	Scale      float64
	Turbulence float64
	Step       float64
	Depth      float64 // z of the viewed slice, in canvas units
	Seed       int64
	Animate    bool
	ShowArrows bool
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 1, "Noise seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	params := previewParams{
		Kind:       kindIndex(cfg.Noise.Kind),
		Scale:      cfg.Noise.Scale,
		Turbulence: cfg.Noise.Turbulence,
		Step:       cfg.Render.DebugStep,
		Seed:       *seed,
		ShowArrows: true,
	}

	rl.InitWindow(previewSize+panelWidth, previewSize, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	canvas := r2.Box{Max: r2.Vec{X: cfg.Derived.Width, Y: cfg.Derived.Height}}
	var t float64
	needsRegen := true
	var field *noise.Field
	var arrows []noise.VectorSample

	for !rl.WindowShouldClose() {
		if handleInput(&params) {
			needsRegen = true
		}
		if params.Animate {
			t += cfg.Noise.TimeSpeed + 0.01
			needsRegen = true
		}

		if needsRegen {
			field, err = buildField(cfg, params)
			if err != nil {
				slog.Error("failed to build field", "error", err)
				os.Exit(1)
			}
			rl.UpdateTexture(texture, sampleField(field, canvas, params.Depth, gridSize, t))
			arrows = sliceArrows(field, canvas, params.Depth, params.Step, t)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{Width: gridSize, Height: gridSize},
			rl.Rectangle{Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)

		if params.ShowArrows {
			drawArrows(arrows, canvas, params.Step)
		}
		drawPanel(params, t, len(arrows))

		rl.EndDrawing()
	}
}

func kindIndex(kind string) int {
	for i, k := range kinds {
		if k == kind {
			return i
		}
	}
	return 0
}

func buildField(cfg *config.Config, p previewParams) (*noise.Field, error) {
	src, err := noise.New(noise.Options{
		Kind:    kinds[p.Kind],
		Seed:    p.Seed,
		Octaves: cfg.Noise.Octaves,
		Alpha:   cfg.Noise.Alpha,
		Beta:    cfg.Noise.Beta,
	})
	if err != nil {
		return nil, err
	}
	return noise.NewField(src, p.Scale, p.Turbulence), nil
}

// handleInput applies key presses to p and reports whether the field changed.
func handleInput(p *previewParams) bool {
	changed := true
	switch {
	case rl.IsKeyPressed(rl.KeyK):
		p.Kind = (p.Kind + 1) % len(kinds)
	case rl.IsKeyPressed(rl.KeyUp):
		p.Scale *= 1.25
	case rl.IsKeyPressed(rl.KeyDown):
		p.Scale /= 1.25
	case rl.IsKeyPressed(rl.KeyRight):
		p.Turbulence += 0.25
	case rl.IsKeyPressed(rl.KeyLeft):
		p.Turbulence = math.Max(0.25, p.Turbulence-0.25)
	case rl.IsKeyPressed(rl.KeyEqual):
		p.Step += 5
	case rl.IsKeyPressed(rl.KeyMinus):
		p.Step = math.Max(5, p.Step-5)
	case rl.IsKeyPressed(rl.KeyPageUp):
		p.Depth += depthStep
	case rl.IsKeyPressed(rl.KeyPageDown):
		p.Depth -= depthStep
	case rl.IsKeyPressed(rl.KeyR):
		p.Seed++
	case rl.IsKeyPressed(rl.KeySpace):
		p.Animate = !p.Animate
		changed = false
	case rl.IsKeyPressed(rl.KeyV):
		p.ShowArrows = !p.ShowArrows
		changed = false
	default:
		changed = false
	}
	return changed
}

// sampleField renders the field's angle as hue over a size x size grid
// covering canvas, on the slice at z = depth.
func sampleField(f *noise.Field, canvas r2.Box, depth float64, size int, t float64) []color.RGBA {
	pixels := make([]color.RGBA, size*size)
	w := canvas.Max.X - canvas.Min.X
	h := canvas.Max.Y - canvas.Min.Y
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := r3.Vec{
				X: canvas.Min.X + (float64(x)+0.5)*w/float64(size),
				Y: canvas.Min.Y + (float64(y)+0.5)*h/float64(size),
				Z: depth,
			}
			angle := f.Sample3(p, t)
			hue := math.Mod(angle*180/math.Pi, 360)
			if hue < 0 {
				hue += 360
			}
			v := (angle + 1) / 2
			c := colorful.Hsv(hue, 0.6, 0.25+0.5*math.Max(0, math.Min(v, 1)))
			r, g, b := c.Clamped().RGB255()
			pixels[y*size+x] = color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	return pixels
}

// sliceArrows samples one lattice layer of the field centred on z = depth.
func sliceArrows(f *noise.Field, canvas r2.Box, depth, step, t float64) []noise.VectorSample {
	slab := r3.Box{
		Min: r3.Vec{X: canvas.Min.X, Y: canvas.Min.Y, Z: depth - step/2},
		Max: r3.Vec{X: canvas.Max.X, Y: canvas.Max.Y, Z: depth + step},
	}
	layer := noise.Grid3(f, slab, step, t)
	out := make([]noise.VectorSample, len(layer))
	for i, s := range layer {
		out[i] = noise.VectorSample{Pos: r2.Vec{X: s.Pos.X, Y: s.Pos.Y}, Angle: s.Value}
	}
	return out
}

func drawArrows(samples []noise.VectorSample, canvas r2.Box, step float64) {
	sx := previewSize / (canvas.Max.X - canvas.Min.X)
	sy := previewSize / (canvas.Max.Y - canvas.Min.Y)
	length := step * 0.4
	col := rl.Color{R: 255, G: 255, B: 255, A: 160}
	for _, s := range samples {
		x0 := float32((s.Pos.X - canvas.Min.X) * sx)
		y0 := float32((s.Pos.Y - canvas.Min.Y) * sy)
		x1 := x0 + float32(math.Cos(s.Angle)*length*sx)
		y1 := y0 + float32(math.Sin(s.Angle)*length*sy)
		rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, 1, col)
		rl.DrawCircleV(rl.Vector2{X: x1, Y: y1}, 2, col)
	}
}

func drawPanel(p previewParams, t float64, arrows int) {
	x := int32(previewSize + 15)
	y := int32(15)
	rl.DrawText("Field Parameters", x, y, 20, rl.RayWhite)
	y += 35

	lines := []string{
		fmt.Sprintf("Kind:       %s  [K]", kinds[p.Kind]),
		fmt.Sprintf("Scale:      %.5f  [Up/Down]", p.Scale),
		fmt.Sprintf("Turbulence: %.2f  [Left/Right]", p.Turbulence),
		fmt.Sprintf("Grid step:  %.0f  [+/-]", p.Step),
		fmt.Sprintf("Depth:      %.0f  [PgUp/PgDn]", p.Depth),
		fmt.Sprintf("Seed:       %d  [R]", p.Seed),
		fmt.Sprintf("Time:       %.2f  [Space]", t),
		fmt.Sprintf("Arrows:     %d  [V]", arrows),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, 14, rl.LightGray)
		y += 22
	}
}
