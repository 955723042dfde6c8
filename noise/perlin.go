package noise

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// edges are the twelve cube-edge gradients of improved Perlin noise.
var edges = [12]r3.Vec{
	{X: 1, Y: 1}, {X: -1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1},
	{X: 1, Z: 1}, {X: -1, Z: 1}, {X: 1, Z: -1}, {X: -1, Z: -1},
	{Y: 1, Z: 1}, {Y: -1, Z: 1}, {Y: 1, Z: -1}, {Y: -1, Z: -1},
}

// Perlin is gradient noise on the integer lattice. Corner gradients are
// picked by hashing the corner through a seeded permutation.
type Perlin struct {
	hash [256]uint8
}

// NewPerlin builds the lattice hash for seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	for i, v := range rand.New(rand.NewSource(seed)).Perm(len(p.hash)) {
		p.hash[i] = uint8(v)
	}
	return p
}

func (p *Perlin) corner(ix, iy, iz int) r3.Vec {
	h := p.hash[ix&255]
	h = p.hash[(int(h)+iy)&255]
	h = p.hash[(int(h)+iz)&255]
	return edges[int(h)%len(edges)]
}

// Eval3 returns the noise value at (x, y, z), roughly in [-1, 1].
func (p *Perlin) Eval3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int(fx), int(fy), int(fz)
	off := r3.Vec{X: x - fx, Y: y - fy, Z: z - fz}
	w := r3.Vec{X: smooth(off.X), Y: smooth(off.Y), Z: smooth(off.Z)}

	var sum float64
	for c := 0; c < 8; c++ {
		dx, dy, dz := c&1, (c>>1)&1, (c>>2)&1
		g := p.corner(ix+dx, iy+dy, iz+dz)
		d := r3.Sub(off, r3.Vec{X: float64(dx), Y: float64(dy), Z: float64(dz)})
		sum += r3.Dot(g, d) * weight(w.X, dx) * weight(w.Y, dy) * weight(w.Z, dz)
	}
	return sum
}

// Eval2 samples the z = 0 plane.
func (p *Perlin) Eval2(x, y float64) float64 {
	return p.Eval3(x, y, 0)
}

// smooth is the quintic 6t^5 - 15t^4 + 10t^3.
func smooth(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// weight is the interpolation weight of the near (0) or far (1) corner.
func weight(t float64, far int) float64 {
	if far == 1 {
		return t
	}
	return 1 - t
}
