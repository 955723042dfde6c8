package sampler

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func minPairDistance(seeds []Seed) float64 {
	best := math.Inf(1)
	for i := range seeds {
		for j := i + 1; j < len(seeds); j++ {
			d := r2.Norm(r2.Sub(seeds[i].Pos, seeds[j].Pos))
			if d < best {
				best = d
			}
		}
	}
	return best
}

func TestPoissonSpacing(t *testing.T) {
	s := NewPoisson(rand.New(rand.NewSource(1)))
	seeds := s.Fill(400, 300, 30, 20)

	if len(seeds) < 20 {
		t.Fatalf("expected a reasonably dense fill, got %d seeds", len(seeds))
	}
	if d := minPairDistance(seeds); d < 30-1e-9 {
		t.Errorf("min pair distance %v below radius 30", d)
	}
	for _, seed := range seeds {
		if seed.Pos.X < 0 || seed.Pos.X >= 400 || seed.Pos.Y < 0 || seed.Pos.Y >= 300 {
			t.Errorf("seed %v outside bounds", seed.Pos)
		}
		if seed.Random < 0 || seed.Random >= 1 {
			t.Errorf("seed random %v outside [0,1)", seed.Random)
		}
	}
}

func TestPoissonDeterministic(t *testing.T) {
	a := NewPoisson(rand.New(rand.NewSource(99))).Fill(200, 200, 20, 15)
	b := NewPoisson(rand.New(rand.NewSource(99))).Fill(200, 200, 20, 15)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seed %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPoissonResetIsFresh(t *testing.T) {
	s := NewPoisson(rand.New(rand.NewSource(5)))
	first := s.Fill(300, 300, 40, 20)

	s.Reset()
	second := s.Fill(300, 300, 40, 20)

	if len(second) == 0 {
		t.Fatal("second fill is empty")
	}
	// Not cumulative: a fresh fill is about as large as the first one
	if len(second) > len(first)*3/2 {
		t.Errorf("second fill has %d seeds vs %d, looks cumulative", len(second), len(first))
	}
	if first[0] == second[0] {
		t.Error("fresh fill repeated the first seed")
	}
}

func TestPoissonAccumulatesWithoutReset(t *testing.T) {
	s := NewPoisson(rand.New(rand.NewSource(5)))
	first := s.Fill(300, 300, 40, 20)
	again := s.Fill(300, 300, 40, 20)

	if len(again) < len(first) {
		t.Errorf("refill without reset shrank from %d to %d", len(first), len(again))
	}
	if d := minPairDistance(again); d < 40-1e-9 {
		t.Errorf("refill broke spacing: %v", d)
	}
}

func TestPoissonOverConstrained(t *testing.T) {
	s := NewPoisson(rand.New(rand.NewSource(3)))

	seeds := s.Fill(10, 10, 500, 20)
	if len(seeds) > 1 {
		t.Errorf("huge radius should give at most one seed, got %d", len(seeds))
	}

	s.Reset()
	if got := s.Fill(100, 100, 0, 20); len(got) != 0 {
		t.Errorf("zero radius should give no seeds, got %d", len(got))
	}
}

func TestGridSampler(t *testing.T) {
	g := NewGrid(rand.New(rand.NewSource(1)))
	seeds := g.Fill(100, 50, 25, 0)

	if len(seeds) != 8 {
		t.Fatalf("len = %d, want 8", len(seeds))
	}
	if seeds[0].Pos != (r2.Vec{X: 12.5, Y: 12.5}) {
		t.Errorf("first seed at %v, want (12.5,12.5)", seeds[0].Pos)
	}
	if d := minPairDistance(seeds); math.Abs(d-25) > 1e-9 {
		t.Errorf("lattice spacing %v, want 25", d)
	}

	if got := g.Fill(10, 10, 50, 0); got != nil {
		t.Errorf("oversized spacing should give nil, got %v", got)
	}
}

func TestFixedSampler(t *testing.T) {
	pts := []r2.Vec{{X: 10, Y: 10}, {X: 50, Y: 50}, {X: 90, Y: 90}}
	f := NewFixed(rand.New(rand.NewSource(1)), pts...)

	seeds := f.Fill(100, 100, 1000, 1)
	if len(seeds) != 3 {
		t.Fatalf("len = %d, want 3", len(seeds))
	}
	for i, seed := range seeds {
		if seed.Pos != pts[i] {
			t.Errorf("seed %d at %v, want %v", i, seed.Pos, pts[i])
		}
	}
}

func TestStaticSampler(t *testing.T) {
	s := Static{{Pos: r2.Vec{X: 1, Y: 2}, Random: 0.25}}
	got := s.Fill(0, 0, 0, 0)
	if len(got) != 1 || got[0] != s[0] {
		t.Fatalf("Fill = %v, want %v", got, s)
	}
	got[0].Random = 0.9
	if s[0].Random != 0.25 {
		t.Error("Fill must return a copy")
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("halton", rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for unknown sampler")
	}
}
