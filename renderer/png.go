package renderer

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/flow"
)

// PNG rasterises frames with round-capped strokes and writes them as PNG
// files.
type PNG struct {
	width      int
	height     int
	background colorful.Color
	path       string
}

// NewPNG creates a PNG renderer of the given pixel size. Draw writes to
// path.
func NewPNG(width, height int, background colorful.Color, path string) (*PNG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: png size must be positive, got %dx%d", width, height)
	}
	return &PNG{width: width, height: height, background: background, path: path}, nil
}

// Render draws frame onto a fresh context.
func (p *PNG) Render(frame flow.Frame) *gg.Context {
	dc := gg.NewContext(p.width, p.height)
	dc.SetColor(rgba(p.background))
	dc.Clear()

	sx, sy := 1.0, 1.0
	if frame.Width > 0 && frame.Height > 0 {
		sx = float64(p.width) / frame.Width
		sy = float64(p.height) / frame.Height
	}
	dc.Scale(sx, sy)

	if len(frame.Field) > 0 {
		length := arrowLength(frame)
		dc.SetRGBA(1, 1, 1, 0.35)
		dc.SetLineWidth(1)
		for _, s := range frame.Field {
			x0, y0, x1, y1 := arrow(s, length)
			dc.DrawLine(x0, y0, x1, y1)
			dc.Stroke()
		}
	}

	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, s := range frame.Strokes {
		if len(s.Points) < 2 {
			continue
		}
		dc.SetColor(rgba(s.Color))
		dc.SetLineWidth(s.Width)
		dc.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, pt := range s.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.Stroke()
	}

	return dc
}

// Image returns frame as an image.
func (p *PNG) Image(frame flow.Frame) image.Image {
	return p.Render(frame).Image()
}

// Draw renders frame and saves it to the renderer's path.
func (p *PNG) Draw(frame flow.Frame) error {
	if err := p.Render(frame).SavePNG(p.path); err != nil {
		return fmt.Errorf("renderer: saving %s: %w", p.path, err)
	}
	return nil
}

// Path returns the output file.
func (p *PNG) Path() string { return p.path }
