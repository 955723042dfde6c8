package palette

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowlines/clip"
	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/noise"
)

// Colorizer picks a palette color for a trail from its seed random value
// and a noise sample at the midpoint of its visible geometry.
type Colorizer struct {
	palette    *Palette
	field      *noise.Field
	seedWeight float64
}

// NewColorizer samples field in viewport-normalised coordinates, so the
// field's Scale is the palette noise scale. seedWeight is the share of the
// seed random value in the combined value.
func NewColorizer(p *Palette, field *noise.Field, seedWeight float64) *Colorizer {
	return &Colorizer{palette: p, field: field, seedWeight: seedWeight}
}

// Palette returns the palette colors are drawn from.
func (c *Colorizer) Palette() *Palette { return c.palette }

// Combined mixes the noise at mid, mapped to [0,1], with random.
func (c *Colorizer) Combined(random float64, mid r2.Vec, width, height float64) float64 {
	p := r2.Vec{X: mid.X / width, Y: mid.Y / height}
	n01 := (c.field.Raw(p, 0) + 1) / 2
	return (1-c.seedWeight)*n01 + c.seedWeight*random
}

// Index returns the palette row chosen by random and the shade chosen by
// the combined value. Both are always in range.
func (c *Colorizer) Index(random float64, mid r2.Vec, width, height float64) (row, shade int) {
	row = ShadeIndex(random, c.palette.Rows())
	shade = ShadeIndex(c.Combined(random, mid, width, height), c.palette.Shades())
	return row, shade
}

// ColorAt returns the color for a seed random value and midpoint.
func (c *Colorizer) ColorAt(random float64, mid r2.Vec, width, height float64) colorful.Color {
	row, shade := c.Index(random, mid, width, height)
	return c.palette.At(row, shade)
}

// ColorOf colors a trail by the midpoint of its longest clipped segment.
// Trails with no segment yet fall back to their visible points, then to
// the seed position.
func (c *Colorizer) ColorOf(t *flow.Trail, width, height float64) colorful.Color {
	return c.ColorAt(t.Seed.Random, Anchor(t), width, height)
}

// Anchor returns the point a trail's color is sampled at.
func Anchor(t *flow.Trail) r2.Vec {
	var longest []r2.Vec
	for _, seg := range t.Segments() {
		if len(seg) > len(longest) {
			longest = seg
		}
	}
	if len(longest) > 0 {
		return clip.Midpoint(longest)
	}
	if vis := t.Visible(); len(vis) > 0 {
		return clip.Midpoint(vis)
	}
	return t.Seed.Pos
}
