// Package flow steps particles through a noise field and grows the
// polyline trails they leave behind.
package flow

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowlines/noise"
)

// Particle is the moving head of a trail.
type Particle struct {
	Pos r2.Vec
	Vel r2.Vec
}

// integrate applies one step: velocity gains delta, position follows
// velocity, then velocity decays by damping.
func (p *Particle) integrate(delta r2.Vec, damping float64) {
	p.Vel = r2.Add(p.Vel, delta)
	p.Pos = r2.Add(p.Pos, p.Vel)
	p.Vel = r2.Scale(damping, p.Vel)
}

// Steering turns a field sample into a velocity increment.
type Steering interface {
	Delta(f *noise.Field, pos r2.Vec, t, stepDistance float64) r2.Vec
}

// AngleSteering reads the field as a heading in radians, so every step has
// the same length.
type AngleSteering struct{}

func (AngleSteering) Delta(f *noise.Field, pos r2.Vec, t, stepDistance float64) r2.Vec {
	v := f.Angle(pos, t)
	return r2.Vec{X: math.Cos(v) * stepDistance, Y: math.Sin(v) * stepDistance}
}

// DisplacementSteering uses the two-channel field sample as a raw offset.
type DisplacementSteering struct{}

func (DisplacementSteering) Delta(f *noise.Field, pos r2.Vec, t, stepDistance float64) r2.Vec {
	return r2.Scale(stepDistance, f.Vector(pos, t))
}

// NewSteering returns the strategy named by kind.
func NewSteering(kind string) (Steering, error) {
	switch kind {
	case "", "angle":
		return AngleSteering{}, nil
	case "displacement":
		return DisplacementSteering{}, nil
	default:
		return nil, fmt.Errorf("flow: unknown steering %q", kind)
	}
}
