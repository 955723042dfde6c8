package flow

import (
	"gonum.org/v1/gonum/spatial/r2"
)

type stamp struct {
	pos   r2.Vec
	owner int
}

// HashGrid stores stamped points in margin-sized buckets so a query only
// visits the 3x3 block of cells around the candidate.
type HashGrid struct {
	cellSize float64
	cols     int
	rows     int
	margin   float64
	cells    [][]stamp
	filled   int
}

// NewHashGrid creates a grid covering the given canvas size.
func NewHashGrid(width, height, margin float64) *HashGrid {
	cellSize := max(margin, 1)
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]stamp, cols*rows)
	for i := range cells {
		cells[i] = make([]stamp, 0, 4)
	}

	return &HashGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		margin:   margin,
		cells:    cells,
	}
}

// Reset removes all stamps.
func (g *HashGrid) Reset() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.filled = 0
}

// Stamp records p for owner.
func (g *HashGrid) Stamp(p r2.Vec, owner int) {
	idx := g.cellIndex(p)
	if len(g.cells[idx]) == 0 {
		g.filled++
	}
	g.cells[idx] = append(g.cells[idx], stamp{pos: p, owner: owner})
}

// Accepts reports whether no other trail has a point closer than margin.
func (g *HashGrid) Accepts(p r2.Vec, owner int) bool {
	if g.margin <= 0 {
		return true
	}
	col, row := g.cellOf(p)
	rsq := g.margin * g.margin

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c, r := col+dc, row+dr
			if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
				continue
			}
			for _, s := range g.cells[r*g.cols+c] {
				if s.owner == owner {
					continue
				}
				d := r2.Sub(s.pos, p)
				if d.X*d.X+d.Y*d.Y < rsq {
					return false
				}
			}
		}
	}
	return true
}

// Coverage returns the share of cells holding at least one stamp.
func (g *HashGrid) Coverage() float64 {
	return float64(g.filled) / float64(len(g.cells))
}

// cellOf returns the clamped column and row for a position.
func (g *HashGrid) cellOf(p r2.Vec) (int, int) {
	col := int(p.X / g.cellSize)
	row := int(p.Y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func (g *HashGrid) cellIndex(p r2.Vec) int {
	col, row := g.cellOf(p)
	return row*g.cols + col
}
