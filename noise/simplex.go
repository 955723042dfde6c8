package noise

import "github.com/ojrac/opensimplex-go"

// Simplex wraps OpenSimplex noise.
type Simplex struct {
	noise opensimplex.Noise
}

// NewSimplex creates a simplex source for seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{noise: opensimplex.New(seed)}
}

// Eval2 returns 2D simplex noise in [-1, 1].
func (s *Simplex) Eval2(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}

// Eval3 returns 3D simplex noise in [-1, 1].
func (s *Simplex) Eval3(x, y, z float64) float64 {
	return s.noise.Eval3(x, y, z)
}
