// Package ui draws status panels over the sketch: a raylib HUD for window
// mode and a bubbletea model for terminal mode.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg    rl.Color
	Border     rl.Color
	Header     rl.Color
	Label      rl.Color
	Value      rl.Color
	BarBg      rl.Color
	BarFill    rl.Color
	Padding    int32
	Line       int32 // Row height
	LabelWidth int32
	FontSize   int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:    rl.Color{R: 20, G: 25, B: 30, A: 220},
		Border:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		Header:     rl.Yellow,
		Label:      rl.LightGray,
		Value:      rl.RayWhite,
		BarBg:      rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:    rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:    10,
		Line:       16,
		LabelWidth: 80,
		FontSize:   12,
	}
}

// cursor lays out rows top to bottom inside a panel.
type cursor struct {
	theme Theme
	x, y  int32
	width int32 // Usable width
}

// panel draws a background box and returns a cursor inside its padding.
func panel(theme Theme, x, y, width, height int32) *cursor {
	rl.DrawRectangle(x, y, width, height, theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, theme.Border)
	return &cursor{theme: theme, x: x + theme.Padding, y: y + theme.Padding, width: width - 2*theme.Padding}
}

func (c *cursor) header(title string) {
	rl.DrawText(title, c.x, c.y, c.theme.FontSize+2, c.theme.Header)
	c.y += c.theme.Line + 2
}

func (c *cursor) labelValue(label, value string) {
	rl.DrawText(label, c.x, c.y, c.theme.FontSize, c.theme.Label)
	rl.DrawText(value, c.x+c.theme.LabelWidth, c.y, c.theme.FontSize, c.theme.Value)
	c.y += c.theme.Line
}

// bar draws a [0,1] meter with its value printed to the right.
func (c *cursor) bar(label string, v float64) {
	v = max(0, min(v, 1))
	bx := c.x + c.theme.LabelWidth
	bw := c.width - c.theme.LabelWidth - 40
	h := c.theme.FontSize

	rl.DrawText(label, c.x, c.y, c.theme.FontSize, c.theme.Label)
	rl.DrawRectangle(bx, c.y+1, bw, h, c.theme.BarBg)
	rl.DrawRectangle(bx, c.y+1, int32(float64(bw)*v), h, c.theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", v*100), bx+bw+5, c.y, c.theme.FontSize, c.theme.Value)
	c.y += c.theme.Line + 2
}

// swatches draws one square per color in a row.
func (c *cursor) swatches(label string, colors []colorful.Color) {
	size := c.theme.FontSize
	rl.DrawText(label, c.x, c.y, c.theme.FontSize, c.theme.Label)
	x := c.x + c.theme.LabelWidth
	for _, col := range colors {
		rl.DrawRectangle(x, c.y, size, size, toRL(col))
		x += size + 2
	}
	c.y += c.theme.Line
}

func toRL(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: 255}
}
