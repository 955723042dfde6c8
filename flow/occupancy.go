package flow

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Occupancy decides whether a candidate point keeps enough distance from
// other trails. Stamps from the trail being tested never block it.
type Occupancy interface {
	Accepts(p r2.Vec, owner int) bool
	Stamp(p r2.Vec, owner int)
	Reset()
}

// Coverer is implemented by occupancy tests that can report how much of
// the canvas their stamps cover, in [0,1].
type Coverer interface {
	Coverage() float64
}

// NewOccupancy builds the occupancy test named by kind.
func NewOccupancy(kind string, width, height, margin, cellSize float64) (Occupancy, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("flow: occupancy bounds must be positive, got %gx%g", width, height)
	}
	if margin < 0 {
		return nil, fmt.Errorf("flow: line margin must not be negative, got %g", margin)
	}
	switch kind {
	case "raster":
		if cellSize <= 0 {
			return nil, fmt.Errorf("flow: raster cell size must be positive, got %g", cellSize)
		}
		return NewRaster(width, height, margin, cellSize), nil
	case "grid":
		return NewHashGrid(width, height, margin), nil
	case "kdtree":
		return NewPointIndex(margin), nil
	default:
		return nil, fmt.Errorf("flow: unknown occupancy kind %q", kind)
	}
}

const (
	cellEmpty  int32 = 0
	cellShared int32 = -1 // Stamped by more than one trail
)

// Raster is the coverage buffer: every accepted point stamps a disk of
// radius margin, and a cell remembers which trail stamped it. Queries are
// a single cell lookup.
type Raster struct {
	cell   float64
	cols   int
	rows   int
	margin float64
	owners []int32 // owner+1, cellEmpty or cellShared
	filled int
}

// NewRaster covers [0,width)x[0,height) with square cells of side cellSize.
func NewRaster(width, height, margin, cellSize float64) *Raster {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	return &Raster{
		cell:   cellSize,
		cols:   cols,
		rows:   rows,
		margin: margin,
		owners: make([]int32, cols*rows),
	}
}

// Accepts reports whether the cell under p is empty or owned by owner.
// Points off the raster are always accepted.
func (r *Raster) Accepts(p r2.Vec, owner int) bool {
	idx, ok := r.index(p)
	if !ok {
		return true
	}
	v := r.owners[idx]
	return v == cellEmpty || v == int32(owner)+1
}

// Stamp marks every cell whose centre lies within margin of p, plus the
// cell containing p.
func (r *Raster) Stamp(p r2.Vec, owner int) {
	if idx, ok := r.index(p); ok {
		r.mark(idx, owner)
	}

	span := int(math.Ceil(r.margin/r.cell)) + 1
	cx := int(math.Floor(p.X / r.cell))
	cy := int(math.Floor(p.Y / r.cell))
	rsq := r.margin * r.margin
	for y := max(cy-span, 0); y <= min(cy+span, r.rows-1); y++ {
		for x := max(cx-span, 0); x <= min(cx+span, r.cols-1); x++ {
			dx := (float64(x)+0.5)*r.cell - p.X
			dy := (float64(y)+0.5)*r.cell - p.Y
			if dx*dx+dy*dy <= rsq {
				r.mark(y*r.cols+x, owner)
			}
		}
	}
}

func (r *Raster) mark(idx, owner int) {
	id := int32(owner) + 1
	switch r.owners[idx] {
	case cellEmpty:
		r.owners[idx] = id
		r.filled++
	case id, cellShared:
	default:
		r.owners[idx] = cellShared
	}
}

// Reset clears every stamp.
func (r *Raster) Reset() {
	clear(r.owners)
	r.filled = 0
}

// Coverage returns the share of stamped cells.
func (r *Raster) Coverage() float64 {
	if len(r.owners) == 0 {
		return 0
	}
	return float64(r.filled) / float64(len(r.owners))
}

func (r *Raster) index(p r2.Vec) (int, bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, false
	}
	x := int(p.X / r.cell)
	y := int(p.Y / r.cell)
	if x >= r.cols || y >= r.rows {
		return 0, false
	}
	return y*r.cols + x, true
}
