// Package noise provides seeded coherent noise sources and the scaled field
// that steers flow particles.
package noise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Source is a raw coherent noise function. Implementations return values in
// roughly [-1, 1]; Field clamps whatever they produce.
type Source interface {
	Eval2(x, y float64) float64
	Eval3(x, y, z float64) float64
}

// Options selects and parameterises a Source.
type Options struct {
	Kind    string // perlin, simplex or fbm
	Seed    int64
	Octaves int
	Alpha   float64
	Beta    float64
}

// New builds the Source named by opts.Kind.
func New(opts Options) (Source, error) {
	switch opts.Kind {
	case "perlin":
		return NewPerlin(opts.Seed), nil
	case "simplex":
		return NewSimplex(opts.Seed), nil
	case "fbm":
		if opts.Octaves < 1 {
			return nil, fmt.Errorf("noise: fbm needs at least one octave, got %d", opts.Octaves)
		}
		return NewFBM(opts.Alpha, opts.Beta, opts.Octaves, opts.Seed), nil
	default:
		return nil, fmt.Errorf("noise: unknown kind %q", opts.Kind)
	}
}

// constant is a Source that ignores its input.
type constant float64

// Constant returns a Source that always yields v (clamped by Field).
func Constant(v float64) Source { return constant(v) }

func (c constant) Eval2(x, y float64) float64    { return float64(c) }
func (c constant) Eval3(x, y, z float64) float64 { return float64(c) }

// channelOffset shifts the second vector channel far from the first so the
// two components decorrelate.
const channelOffset = 100

// Field maps positions to noise values. It is a pure function of
// (position, time) for a fixed Source.
type Field struct {
	src        Source
	Scale      float64 // Spatial frequency multiplier
	Turbulence float64 // Output amplitude multiplier
}

// NewField wraps src with scale and turbulence.
func NewField(src Source, scale, turbulence float64) *Field {
	return &Field{src: src, Scale: scale, Turbulence: turbulence}
}

// Raw returns the unscaled noise value at p and time t, in [-1, 1].
// Non-finite coordinates are a caller bug and panic.
func (f *Field) Raw(p r2.Vec, t float64) float64 {
	mustFinite(p.X, p.Y, t)
	return finite(f.src.Eval3(p.X*f.Scale, p.Y*f.Scale, t))
}

// Sample returns the noise value at p scaled by Turbulence,
// in [-Turbulence, Turbulence].
func (f *Field) Sample(p r2.Vec, t float64) float64 {
	return f.Raw(p, t) * f.Turbulence
}

// Angle reinterprets the sample at p as a direction in radians.
func (f *Field) Angle(p r2.Vec, t float64) float64 {
	return f.Sample(p, t)
}

// Vector returns a two-channel sample at p, each component in
// [-Turbulence, Turbulence].
func (f *Field) Vector(p r2.Vec, t float64) r2.Vec {
	return r2.Vec{
		X: f.Sample(p, t),
		Y: f.Sample(r2.Vec{X: p.X + channelOffset/f.Scale, Y: p.Y + channelOffset/f.Scale}, t),
	}
}

// Sample3 returns the scaled noise value for a 3D position. Time moves the
// sample along z, the way the lattice sketches animate their arrows.
func (f *Field) Sample3(p r3.Vec, t float64) float64 {
	mustFinite(p.X, p.Y, p.Z, t)
	return finite(f.src.Eval3(p.X*f.Scale, p.Y*f.Scale, p.Z*f.Scale+t)) * f.Turbulence
}

func mustFinite(vs ...float64) {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("noise: non-finite sample coordinate %v", vs))
		}
	}
}

// finite clamps a raw source value into [-1, 1]; NaN collapses to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
