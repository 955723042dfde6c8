package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/flow"
)

// Window draws frames into the current raylib window. The caller owns the
// window lifecycle (rl.InitWindow / rl.CloseWindow).
type Window struct {
	background rl.Color
	showField  bool
	showHeads  bool
}

// NewWindow creates a window renderer.
func NewWindow(background colorful.Color) *Window {
	return &Window{background: rgba(background), showField: true, showHeads: true}
}

// ToggleField shows or hides the debug vector grid.
func (w *Window) ToggleField() { w.showField = !w.showField }

// ToggleHeads shows or hides the dots marking growing particles.
func (w *Window) ToggleHeads() { w.showHeads = !w.showHeads }

// Draw renders frame between BeginDrawing and EndDrawing.
func (w *Window) Draw(frame flow.Frame) error {
	rl.BeginDrawing()
	w.Clear()
	w.DrawFrame(frame)
	rl.EndDrawing()
	return nil
}

// Clear fills the screen with the background color.
func (w *Window) Clear() { rl.ClearBackground(w.background) }

// DrawFrame issues draw calls for frame without touching the frame buffer
// state, so callers can layer overlays on top.
func (w *Window) DrawFrame(frame flow.Frame) {
	scaleX, scaleY := float32(1), float32(1)
	if frame.Width > 0 && frame.Height > 0 {
		scaleX = float32(rl.GetScreenWidth()) / float32(frame.Width)
		scaleY = float32(rl.GetScreenHeight()) / float32(frame.Height)
	}
	vec := func(x, y float64) rl.Vector2 {
		return rl.Vector2{X: float32(x) * scaleX, Y: float32(y) * scaleY}
	}

	if w.showField && len(frame.Field) > 0 {
		length := arrowLength(frame)
		col := rl.Color{R: 255, G: 255, B: 255, A: 90}
		for _, s := range frame.Field {
			x0, y0, x1, y1 := arrow(s, length)
			rl.DrawLineEx(vec(x0, y0), vec(x1, y1), 1, col)
			rl.DrawCircleV(vec(x1, y1), 1.5, col)
		}
	}

	for _, s := range frame.Strokes {
		if len(s.Points) < 2 {
			continue
		}
		col := rgba(s.Color)
		thick := float32(s.Width) * scaleX
		for i := 0; i+1 < len(s.Points); i++ {
			a := vec(s.Points[i].X, s.Points[i].Y)
			b := vec(s.Points[i+1].X, s.Points[i+1].Y)
			rl.DrawLineEx(a, b, thick, col)
			// Round joins and caps
			rl.DrawCircleV(a, thick/2, col)
		}
		last := s.Points[len(s.Points)-1]
		rl.DrawCircleV(vec(last.X, last.Y), thick/2, col)
	}

	if w.showHeads {
		col := rl.Color{R: 255, G: 255, B: 255, A: 200}
		for _, h := range frame.Heads {
			rl.DrawCircleV(vec(h.X, h.Y), 2, col)
		}
	}
}
