// Package sampler places the seed positions that start new flow lines.
package sampler

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Seed is a starting position plus a per-seed random value in [0,1) used for
// length and color variation. Seeds are immutable once produced.
type Seed struct {
	Pos    r2.Vec
	Random float64
}

// PointSampler produces decorrelated seed positions within [0,w)x[0,h).
// Fill may accumulate across calls; Reset starts a fresh, independent set.
type PointSampler interface {
	Fill(width, height, minRadius float64, maxAttempts int) []Seed
	Reset()
}

// New builds the sampler named by kind.
func New(kind string, rng *rand.Rand) (PointSampler, error) {
	switch kind {
	case "poisson":
		return NewPoisson(rng), nil
	case "grid":
		return NewGrid(rng), nil
	default:
		return nil, fmt.Errorf("sampler: unknown kind %q", kind)
	}
}

// Poisson is Bridson blue-noise sampling. The minimum spacing is enforced
// against every accepted point, but coverage is only as dense as the bounded
// number of attempts per active point allows.
type Poisson struct {
	rng   *rand.Rand
	seeds []Seed
}

// NewPoisson creates a Poisson-disk sampler drawing from rng.
func NewPoisson(rng *rand.Rand) *Poisson {
	return &Poisson{rng: rng}
}

// Reset discards accumulated seeds.
func (s *Poisson) Reset() {
	s.seeds = s.seeds[:0]
}

// Fill grows the current set until no active point can place a neighbour,
// and returns a copy of every seed accepted since the last Reset.
// An over-constrained radius yields a small or empty set, never an error.
func (s *Poisson) Fill(width, height, minRadius float64, maxAttempts int) []Seed {
	if width <= 0 || height <= 0 || minRadius <= 0 || maxAttempts < 1 {
		return s.snapshot()
	}

	cell := minRadius / math.Sqrt2
	cols := int(math.Ceil(width / cell))
	rows := int(math.Ceil(height / cell))
	grid := make([]int, cols*rows) // seed index + 1, 0 = empty

	cellOf := func(p r2.Vec) (int, int) {
		return min(int(p.X/cell), cols-1), min(int(p.Y/cell), rows-1)
	}
	inBounds := func(p r2.Vec) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
	}

	var active []int
	for i, seed := range s.seeds {
		if !inBounds(seed.Pos) {
			continue
		}
		cx, cy := cellOf(seed.Pos)
		grid[cy*cols+cx] = i + 1
		active = append(active, i)
	}

	accept := func(p r2.Vec) {
		s.seeds = append(s.seeds, Seed{Pos: p, Random: s.rng.Float64()})
		idx := len(s.seeds) - 1
		cx, cy := cellOf(p)
		grid[cy*cols+cx] = idx + 1
		active = append(active, idx)
	}

	farEnough := func(p r2.Vec) bool {
		cx, cy := cellOf(p)
		r2sq := minRadius * minRadius
		for y := max(cy-2, 0); y <= min(cy+2, rows-1); y++ {
			for x := max(cx-2, 0); x <= min(cx+2, cols-1); x++ {
				idx := grid[y*cols+x]
				if idx == 0 {
					continue
				}
				d := r2.Sub(s.seeds[idx-1].Pos, p)
				if d.X*d.X+d.Y*d.Y < r2sq {
					return false
				}
			}
		}
		return true
	}

	if len(active) == 0 {
		accept(r2.Vec{X: s.rng.Float64() * width, Y: s.rng.Float64() * height})
	}

	for len(active) > 0 {
		ai := s.rng.Intn(len(active))
		origin := s.seeds[active[ai]].Pos

		placed := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			angle := s.rng.Float64() * 2 * math.Pi
			dist := minRadius * (1 + s.rng.Float64())
			p := r2.Vec{X: origin.X + math.Cos(angle)*dist, Y: origin.Y + math.Sin(angle)*dist}
			if inBounds(p) && farEnough(p) {
				accept(p)
				placed = true
				break
			}
		}

		if !placed {
			// Swap-remove keeps the pick O(1); order only feeds the rng
			active[ai] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}

	return s.snapshot()
}

func (s *Poisson) snapshot() []Seed {
	out := make([]Seed, len(s.seeds))
	copy(out, s.seeds)
	return out
}

// Grid places seeds on a regular lattice with spacing minRadius, centred in
// the bounds. maxAttempts is ignored.
type Grid struct {
	rng *rand.Rand
}

// NewGrid creates a lattice sampler; rng only feeds Seed.Random.
func NewGrid(rng *rand.Rand) *Grid {
	return &Grid{rng: rng}
}

// Reset is a no-op; every Fill is independent.
func (g *Grid) Reset() {}

// Fill returns the lattice points row by row.
func (g *Grid) Fill(width, height, minRadius float64, maxAttempts int) []Seed {
	if width <= 0 || height <= 0 || minRadius <= 0 {
		return nil
	}
	cols := int(width / minRadius)
	rows := int(height / minRadius)
	if cols == 0 || rows == 0 {
		return nil
	}
	offX := (width - float64(cols-1)*minRadius) / 2
	offY := (height - float64(rows-1)*minRadius) / 2

	out := make([]Seed, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			out = append(out, Seed{
				Pos:    r2.Vec{X: offX + float64(col)*minRadius, Y: offY + float64(row)*minRadius},
				Random: g.rng.Float64(),
			})
		}
	}
	return out
}

// Fixed always returns the same positions. Useful for reproducible scenes
// and tests.
type Fixed struct {
	rng       *rand.Rand
	positions []r2.Vec
}

// NewFixed returns a sampler yielding positions in order; rng feeds
// Seed.Random.
func NewFixed(rng *rand.Rand, positions ...r2.Vec) *Fixed {
	return &Fixed{rng: rng, positions: positions}
}

// Reset is a no-op.
func (f *Fixed) Reset() {}

// Fill returns the fixed positions regardless of the bounds and radius.
func (f *Fixed) Fill(width, height, minRadius float64, maxAttempts int) []Seed {
	out := make([]Seed, len(f.positions))
	for i, p := range f.positions {
		out[i] = Seed{Pos: p, Random: f.rng.Float64()}
	}
	return out
}

// Static replays a fixed list of seeds, Random values included.
type Static []Seed

// Reset is a no-op.
func (s Static) Reset() {}

// Fill returns a copy of the seeds regardless of the bounds and radius.
func (s Static) Fill(width, height, minRadius float64, maxAttempts int) []Seed {
	out := make([]Seed, len(s))
	copy(out, s)
	return out
}
