package noise

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSourcesDeterministic(t *testing.T) {
	kinds := []string{"perlin", "simplex", "fbm"}
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			a, err := New(Options{Kind: kind, Seed: 7, Octaves: 3, Alpha: 2, Beta: 2})
			if err != nil {
				t.Fatal(err)
			}
			b, _ := New(Options{Kind: kind, Seed: 7, Octaves: 3, Alpha: 2, Beta: 2})

			for i := 0; i < 50; i++ {
				x := float64(i) * 0.37
				y := float64(i) * 0.91
				if a.Eval3(x, y, 0.5) != b.Eval3(x, y, 0.5) {
					t.Fatalf("%s: same seed diverged at (%v,%v)", kind, x, y)
				}
			}
		})
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := NewPerlin(1)
	b := NewPerlin(2)

	same := true
	for i := 0; i < 20; i++ {
		x := float64(i)*0.31 + 0.1
		if a.Eval2(x, x*1.7) != b.Eval2(x, x*1.7) {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical noise")
	}
}

func TestFieldRange(t *testing.T) {
	for _, kind := range []string{"perlin", "simplex", "fbm"} {
		src, _ := New(Options{Kind: kind, Seed: 3, Octaves: 4, Alpha: 2, Beta: 2})
		f := NewField(src, 0.01, 2.5)

		for i := 0; i < 500; i++ {
			p := r2.Vec{X: float64(i*7 % 1000), Y: float64(i*13 % 800)}
			raw := f.Raw(p, float64(i)*0.01)
			if raw < -1 || raw > 1 {
				t.Fatalf("%s: raw %v outside [-1,1]", kind, raw)
			}
			s := f.Sample(p, 0)
			if math.Abs(s) > 2.5 {
				t.Fatalf("%s: sample %v outside turbulence bound", kind, s)
			}
		}
	}
}

func TestFieldClampsSource(t *testing.T) {
	f := NewField(Constant(5), 1, 1)
	if got := f.Raw(r2.Vec{X: 1, Y: 1}, 0); got != 1 {
		t.Errorf("Raw = %v, want clamped 1", got)
	}

	f = NewField(Constant(math.NaN()), 1, 1)
	if got := f.Raw(r2.Vec{X: 1, Y: 1}, 0); got != 0 {
		t.Errorf("Raw = %v, want NaN collapsed to 0", got)
	}
}

func TestFieldRejectsNonFinite(t *testing.T) {
	f := NewField(NewPerlin(1), 1, 1)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for NaN coordinate")
		}
	}()
	f.Sample(r2.Vec{X: math.NaN(), Y: 0}, 0)
}

func TestVectorChannels(t *testing.T) {
	f := NewField(NewSimplex(11), 0.01, 1)
	p := r2.Vec{X: 123, Y: 456}
	v := f.Vector(p, 0)

	if v.X != f.Sample(p, 0) {
		t.Errorf("first channel %v differs from Sample %v", v.X, f.Sample(p, 0))
	}
	if math.Abs(v.X) > 1 || math.Abs(v.Y) > 1 {
		t.Errorf("vector %v outside [-1,1]", v)
	}
}

func TestGrid(t *testing.T) {
	f := NewField(Constant(0.25), 1, 2)
	box := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 100, Y: 50}}

	samples := Grid(f, box, 10, 0)
	if len(samples) != 50 {
		t.Fatalf("len = %d, want 50", len(samples))
	}
	first := samples[0]
	if first.Pos.X != 5 || first.Pos.Y != 5 {
		t.Errorf("first sample at %v, want (5,5)", first.Pos)
	}
	if first.Angle != 0.5 {
		t.Errorf("angle = %v, want 0.5", first.Angle)
	}

	if Grid(f, box, 0, 0) != nil {
		t.Error("zero step should yield no samples")
	}
}

func TestGrid3(t *testing.T) {
	f := NewField(NewPerlin(5), 0.1, 1)
	cube := r3.Box{Min: r3.Vec{X: -2, Y: -2, Z: -2}, Max: r3.Vec{X: 2, Y: 2, Z: 2}}
	samples := Grid3(f, cube, 1, 0)
	if len(samples) != 64 {
		t.Fatalf("len = %d, want 64", len(samples))
	}
	if samples[0].Pos != (r3.Vec{X: -1.5, Y: -1.5, Z: -1.5}) {
		t.Errorf("first lattice point = %v", samples[0].Pos)
	}
	if samples[1].Pos != (r3.Vec{X: -0.5, Y: -1.5, Z: -1.5}) {
		t.Errorf("second lattice point = %v, want x to vary fastest", samples[1].Pos)
	}

	// A one-cell-deep slab is a single slice; at z = 0 it matches the 2D grid.
	slab := r3.Box{Min: r3.Vec{Z: -0.5}, Max: r3.Vec{X: 4, Y: 4, Z: 0.5}}
	slice := Grid3(f, slab, 1, 0.3)
	flat := Grid(f, r2.Box{Max: r2.Vec{X: 4, Y: 4}}, 1, 0.3)
	if len(slice) != len(flat) {
		t.Fatalf("slice has %d samples, 2D grid %d", len(slice), len(flat))
	}
	for i := range flat {
		if math.Abs(slice[i].Value-flat[i].Angle) > 1e-12 {
			t.Errorf("sample %d: slice %v, grid %v", i, slice[i].Value, flat[i].Angle)
		}
	}
	if Grid3(f, cube, 0, 0) != nil {
		t.Error("zero step should yield no samples")
	}
}

func TestUnknownKind(t *testing.T) {
	if _, err := New(Options{Kind: "worley"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
