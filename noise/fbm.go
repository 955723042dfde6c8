package noise

import perlin "github.com/aquilax/go-perlin"

// FBM is octave-summed Perlin noise.
type FBM struct {
	p *perlin.Perlin
}

// NewFBM creates an FBM source. alpha is the amplitude falloff per octave and
// beta the frequency growth; both are usually 2.
func NewFBM(alpha, beta float64, octaves int, seed int64) *FBM {
	return &FBM{p: perlin.NewPerlin(alpha, beta, int32(octaves), seed)}
}

// Eval2 returns 2D fbm noise. Strong octave stacks can overshoot [-1, 1].
func (f *FBM) Eval2(x, y float64) float64 {
	return f.p.Noise2D(x, y)
}

// Eval3 returns 3D fbm noise.
func (f *FBM) Eval3(x, y, z float64) float64 {
	return f.p.Noise3D(x, y, z)
}
