// Package palette builds the color table trails are painted from and picks
// a color for each trail.
package palette

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// MinColors is the smallest palette accepted.
const MinColors = 5

// rampSpread is the HCL lightness range covered by one row.
const rampSpread = 0.4

// Table holds the built-in five-color palettes.
var Table = map[string][]string{
	"ocean": {"#69d2e7", "#a7dbd8", "#e0e4cc", "#f38630", "#fa6900"},
	"blush": {"#fe4365", "#fc9d9a", "#f9cdad", "#c8c8a9", "#83af9b"},
	"ember": {"#ecd078", "#d95b43", "#c02942", "#542437", "#53777a"},
	"reef":  {"#556270", "#4ecdc4", "#c7f464", "#ff6b6b", "#c44d58"},
	"clay":  {"#774f38", "#e08e79", "#f1d4af", "#ece5ce", "#c5e0dc"},
	"ink":   {"#da3900", "#5555ff", "#ffffff", "#8a8a8a", "#f2c14e"},
}

// Names returns the built-in palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Table))
	for name := range Table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the hex colors for name. "random" picks one of the built-in
// palettes with rng, so the choice is reproducible for a fixed seed.
func Lookup(name string, rng *rand.Rand) ([]string, error) {
	if name == "random" {
		names := Names()
		name = names[rng.Intn(len(names))]
	}
	colors, ok := Table[name]
	if !ok {
		return nil, fmt.Errorf("palette: unknown palette %q", name)
	}
	return colors, nil
}

// Palette is an immutable table of color rows. Each row is a luminance ramp
// of one base color, darkest first.
type Palette struct {
	rows [][]colorful.Color
}

// FromHex parses hex colors and builds a palette with shades entries per row.
func FromHex(hex []string, shades int) (*Palette, error) {
	base := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette: color %d: %w", i, err)
		}
		base[i] = c
	}
	return New(base, shades)
}

// New builds a palette from base colors. It needs at least MinColors colors
// and one shade per row.
func New(base []colorful.Color, shades int) (*Palette, error) {
	if len(base) < MinColors {
		return nil, fmt.Errorf("palette: need at least %d colors, got %d", MinColors, len(base))
	}
	if shades < 1 {
		return nil, fmt.Errorf("palette: shades must be at least 1, got %d", shades)
	}

	rows := make([][]colorful.Color, len(base))
	for i, c := range base {
		rows[i] = ramp(c, shades)
	}
	return &Palette{rows: rows}, nil
}

// ramp spreads shades around the base color's lightness. A single shade is
// the base color itself.
func ramp(c colorful.Color, shades int) []colorful.Color {
	if shades == 1 {
		return []colorful.Color{c}
	}
	h, chroma, l := c.Hcl()
	out := make([]colorful.Color, shades)
	for i := range out {
		t := float64(i)/float64(shades-1) - 0.5
		li := math.Min(math.Max(l+t*rampSpread, 0), 1)
		out[i] = colorful.Hcl(h, chroma, li).Clamped()
	}
	return out
}

// Rows returns the number of rows.
func (p *Palette) Rows() int { return len(p.rows) }

// Shades returns the number of entries per row.
func (p *Palette) Shades() int { return len(p.rows[0]) }

// Row returns a copy of row i, clamped to the valid range.
func (p *Palette) Row(i int) []colorful.Color {
	i = clampIndex(i, len(p.rows))
	out := make([]colorful.Color, len(p.rows[i]))
	copy(out, p.rows[i])
	return out
}

// At returns the color at (row, shade), both clamped.
func (p *Palette) At(row, shade int) colorful.Color {
	r := p.rows[clampIndex(row, len(p.rows))]
	return r[clampIndex(shade, len(r))]
}

// ShadeIndex maps v in [0,1) onto [0,n). Values at or past the ends clamp, so
// v == 1.0 selects the last entry instead of running off the table.
func ShadeIndex(v float64, n int) int {
	if math.IsNaN(v) {
		return 0
	}
	return clampIndex(int(math.Floor(v*float64(n))), n)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
