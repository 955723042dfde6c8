package clip

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

var unitBox = r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 100, Y: 100}}

func pts(xy ...float64) []r2.Vec {
	out := make([]r2.Vec, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, r2.Vec{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestPolyline(t *testing.T) {
	tests := []struct {
		name     string
		points   []r2.Vec
		segments int
		counts   []int
	}{
		{"empty", nil, 0, nil},
		{"single point", pts(50, 50), 0, nil},
		{"fully inside", pts(10, 10, 20, 20, 30, 30), 1, []int{3}},
		{"fully outside", pts(-10, -10, -20, 50, -30, 90), 0, nil},
		{"exits right", pts(80, 50, 90, 50, 110, 50), 1, []int{3}},
		{"enters left", pts(-10, 50, 10, 50, 20, 50), 1, []int{3}},
		{"passes through", pts(-10, 50, 110, 50), 1, []int{2}},
		{"leaves and returns", pts(50, 50, 150, 50, 150, 60, 50, 60), 2, []int{2, 2}},
		{"corner graze outside", pts(-10, 5, 5, -10), 0, nil},
		{"touches edge from outside", pts(105, 50, 100, 50, 105, 50), 0, nil},
		{"ends on edge then leaves", pts(50, 50, 100, 50, 105, 50), 1, []int{2}},
		{"repeated points", pts(10, 10, 10, 10, 20, 20, 20, 20), 1, []int{2}},
		{"single repeated point", pts(10, 10, 10, 10), 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Polyline(tt.points, unitBox)
			if len(got) != tt.segments {
				t.Fatalf("segments = %d, want %d (%v)", len(got), tt.segments, got)
			}
			for i, want := range tt.counts {
				if len(got[i]) != want {
					t.Errorf("segment %d has %d points, want %d", i, len(got[i]), want)
				}
			}
		})
	}
}

func TestPolylineCrossingPoints(t *testing.T) {
	got := Polyline(pts(50, 50, 150, 50), unitBox)
	if len(got) != 1 {
		t.Fatalf("segments = %d, want 1", len(got))
	}
	end := got[0][1]
	if math.Abs(end.X-100) > 1e-9 || math.Abs(end.Y-50) > 1e-9 {
		t.Errorf("exit point = %v, want (100,50)", end)
	}
}

func TestPolylineContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	box := r2.Box{Min: r2.Vec{X: 20, Y: 30}, Max: r2.Vec{X: 180, Y: 120}}

	for trial := 0; trial < 200; trial++ {
		line := make([]r2.Vec, 2+rng.Intn(30))
		for i := range line {
			line[i] = r2.Vec{X: rng.Float64()*300 - 50, Y: rng.Float64()*200 - 30}
		}
		for _, seg := range Polyline(line, box) {
			if len(seg) < 2 {
				t.Fatalf("segment with %d points", len(seg))
			}
			for _, p := range seg {
				if !Contains(box, p) {
					t.Fatalf("point %v escapes box %v", p, box)
				}
			}
		}
	}
}

func TestPolylineDoesNotMutate(t *testing.T) {
	in := pts(-10, 50, 50, 50, 150, 50)
	orig := append([]r2.Vec(nil), in...)
	Polyline(in, unitBox)
	for i := range in {
		if in[i] != orig[i] {
			t.Fatalf("input point %d changed from %v to %v", i, orig[i], in[i])
		}
	}
}

func TestViewport(t *testing.T) {
	v := NewViewport(200, 100, 10)
	if v.Box.Min != (r2.Vec{X: 10, Y: 10}) || v.Box.Max != (r2.Vec{X: 190, Y: 90}) {
		t.Errorf("box = %+v", v.Box)
	}
	if v.Contains(r2.Vec{X: 5, Y: 50}) {
		t.Error("point in padding reported inside")
	}
	if got := v.Clip(pts(0, 50, 100, 50)); len(got) != 1 || got[0][0].X != 10 {
		t.Errorf("clip = %v, want one segment starting at x=10", got)
	}
}

func TestMidpoint(t *testing.T) {
	m := Midpoint(pts(0, 0, 10, 0, 10, 10))
	if math.Abs(m.X-10) > 1e-9 || math.Abs(m.Y-0) > 1e-9 {
		t.Errorf("midpoint = %v, want (10,0)", m)
	}
	if Midpoint(pts(3, 4, 3, 4)) != (r2.Vec{X: 3, Y: 4}) {
		t.Error("zero-length midpoint should be the first point")
	}
	if Count([][]r2.Vec{pts(0, 0, 1, 1), pts(2, 2, 3, 3, 4, 4)}) != 5 {
		t.Error("Count mismatch")
	}
}
