// Package renderer draws flow frames. Renderers only consume frames; they
// never step the simulation.
package renderer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/noise"
)

// ParseBackground parses a hex background color.
func ParseBackground(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("renderer: background: %w", err)
	}
	return c, nil
}

// rgba converts c to an opaque 8-bit color.
func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// arrow returns the shaft endpoints of a debug vector centred on s.
func arrow(s noise.VectorSample, length float64) (x0, y0, x1, y1 float64) {
	dx := math.Cos(s.Angle) * length / 2
	dy := math.Sin(s.Angle) * length / 2
	return s.Pos.X - dx, s.Pos.Y - dy, s.Pos.X + dx, s.Pos.Y + dy
}

// arrowLength picks a shaft length from the grid spacing.
func arrowLength(frame flow.Frame) float64 {
	if len(frame.Field) < 2 {
		return 10
	}
	d := frame.Field[1].Pos.X - frame.Field[0].Pos.X
	if d <= 0 {
		d = frame.Field[1].Pos.Y - frame.Field[0].Pos.Y
	}
	return math.Max(d*0.8, 1)
}
