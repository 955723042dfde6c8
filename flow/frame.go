package flow

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowlines/noise"
)

// Stroke is one clipped segment ready to draw.
type Stroke struct {
	TrailID int
	Points  []r2.Vec
	Color   colorful.Color
	Width   float64
}

// Frame is everything a renderer needs for one tick. Strokes are in trail
// spawn order, then segment order within a trail.
type Frame struct {
	Tick       int
	Generation int
	Width      float64
	Height     float64
	Strokes    []Stroke
	Heads      []r2.Vec             // Particles of growing trails
	Field      []noise.VectorSample // Debug vector grid; empty unless enabled
}
