package flow

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowlines/sampler"
)

// Trail is the polyline left by one particle. Points are only ever
// appended; once committed a point never changes.
type Trail struct {
	ID           int
	Seed         sampler.Seed
	Generation   int
	Born         int // Simulator step count at spawn
	Age          int // Ticks this trail has been advanced
	TargetLength int
	Width        float64

	state       State
	particle    Particle
	points      []r2.Vec
	tail        int // First visible point, advanced by the fade
	completedAt int // Simulator tick of the Growing -> Complete transition
	segments    [][]r2.Vec
}

func newTrail(id int, seed sampler.Seed, generation, born, target int, width float64) *Trail {
	return &Trail{
		ID:           id,
		Seed:         seed,
		Generation:   generation,
		Born:         born,
		TargetLength: target,
		Width:        width,
		state:        Growing,
		particle:     Particle{Pos: seed.Pos},
		points:       make([]r2.Vec, 0, target),
	}
}

// State returns the lifecycle stage.
func (t *Trail) State() State { return t.state }

// Particle returns the current particle state.
func (t *Trail) Particle() Particle { return t.particle }

// Points returns every committed point. The slice is capped so appending
// to it cannot write into the trail.
func (t *Trail) Points() []r2.Vec {
	return t.points[:len(t.points):len(t.points)]
}

// Visible returns the points still drawn after any fade.
func (t *Trail) Visible() []r2.Vec {
	return t.points[t.tail:len(t.points):len(t.points)]
}

// Len returns the number of committed points.
func (t *Trail) Len() int { return len(t.points) }

// Segments returns the clipped runs computed at the end of the last step.
func (t *Trail) Segments() [][]r2.Vec { return t.segments }

// LastAccepted returns the newest committed point, or the seed position
// when nothing was committed yet.
func (t *Trail) LastAccepted() r2.Vec {
	if len(t.points) == 0 {
		return t.Seed.Pos
	}
	return t.points[len(t.points)-1]
}
