package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/flowlines/flow"
)

const (
	strokeGlyph = "█"
	fieldGlyph  = "·"
)

// Terminal rasterises frames onto a character grid and colors each cell
// with lipgloss.
type Terminal struct {
	cols, rows int
	out        io.Writer
}

// NewTerminal creates a terminal renderer of cols x rows cells writing to
// out. out may be nil when only Render is used.
func NewTerminal(cols, rows int, out io.Writer) *Terminal {
	return &Terminal{cols: max(cols, 1), rows: max(rows, 1), out: out}
}

// Resize changes the grid size.
func (t *Terminal) Resize(cols, rows int) {
	t.cols, t.rows = max(cols, 1), max(rows, 1)
}

// Draw writes the rendered frame to the output.
func (t *Terminal) Draw(frame flow.Frame) error {
	if t.out == nil {
		return fmt.Errorf("renderer: terminal has no output")
	}
	_, err := io.WriteString(t.out, t.Render(frame)+"\n")
	return err
}

// Render returns frame as rows of styled cells. Later strokes overwrite
// earlier ones, matching draw order.
func (t *Terminal) Render(frame flow.Frame) string {
	cells := make([]string, t.cols*t.rows)
	if frame.Width <= 0 || frame.Height <= 0 {
		return t.join(cells)
	}
	cw := frame.Width / float64(t.cols)
	ch := frame.Height / float64(t.rows)

	plot := func(x, y float64, s string) {
		c := int(math.Floor(x / cw))
		r := int(math.Floor(y / ch))
		if c < 0 || c >= t.cols || r < 0 || r >= t.rows {
			return
		}
		cells[r*t.cols+c] = s
	}

	if len(frame.Field) > 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).Render(fieldGlyph)
		for _, s := range frame.Field {
			plot(s.Pos.X, s.Pos.Y, dim)
		}
	}

	step := math.Min(cw, ch) / 2
	for _, s := range frame.Strokes {
		glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color.Clamped().Hex())).Render(strokeGlyph)
		for i := 0; i+1 < len(s.Points); i++ {
			a, b := s.Points[i], s.Points[i+1]
			dx, dy := b.X-a.X, b.Y-a.Y
			n := int(math.Ceil(math.Hypot(dx, dy)/step)) + 1
			for k := 0; k <= n; k++ {
				f := float64(k) / float64(n)
				plot(a.X+dx*f, a.Y+dy*f, glyph)
			}
		}
	}

	return t.join(cells)
}

func (t *Terminal) join(cells []string) string {
	var b strings.Builder
	for r := 0; r < t.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < t.cols; c++ {
			if s := cells[r*t.cols+c]; s != "" {
				b.WriteString(s)
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
