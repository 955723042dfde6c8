// Package clip cuts polylines against a rectangular viewport.
package clip

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport is the clip box trails are drawn into.
type Viewport struct {
	Box r2.Box
}

// NewViewport returns the box [padding, w-padding] x [padding, h-padding].
func NewViewport(width, height, padding float64) Viewport {
	return Viewport{Box: r2.Box{
		Min: r2.Vec{X: padding, Y: padding},
		Max: r2.Vec{X: width - padding, Y: height - padding},
	}}
}

// Clip cuts points against the viewport box.
func (v Viewport) Clip(points []r2.Vec) [][]r2.Vec {
	return Polyline(points, v.Box)
}

// Contains reports whether p lies inside the box, edges included.
func (v Viewport) Contains(p r2.Vec) bool {
	return Contains(v.Box, p)
}

// Contains reports whether p lies inside box, edges included.
func Contains(box r2.Box, p r2.Vec) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X && p.Y >= box.Min.Y && p.Y <= box.Max.Y
}

// Polyline returns the maximal runs of the polyline that lie inside box.
// Each consecutive pair is clipped on its own and contiguous in-box pieces are
// merged, so a line that leaves and re-enters yields several segments.
// Pieces that only touch the box edge are skipped and repeated points are
// collapsed, so every run has at least two distinct points. The input is
// never modified.
func Polyline(points []r2.Vec, box r2.Box) [][]r2.Vec {
	if len(points) < 2 {
		return nil
	}

	var out [][]r2.Vec
	var run []r2.Vec
	flush := func() {
		if len(run) >= 2 {
			out = append(out, run)
		}
		run = nil
	}

	for i := 0; i+1 < len(points); i++ {
		a, b, t0, t1, ok := segment(points[i], points[i+1], box)
		if !ok || t0 == t1 {
			// Missed the box, or only touched its edge.
			flush()
			continue
		}
		if len(run) == 0 || t0 > 0 {
			flush()
			run = append(run, a)
		}
		if b != run[len(run)-1] {
			run = append(run, b)
		}
		if t1 < 1 {
			flush()
		}
	}
	flush()

	return out
}

// Count returns the total number of points across segments.
func Count(segments [][]r2.Vec) int {
	n := 0
	for _, s := range segments {
		n += len(s)
	}
	return n
}

// Midpoint returns the point halfway along the segment's arc length.
// A zero-length segment returns its first point.
func Midpoint(seg []r2.Vec) r2.Vec {
	if len(seg) == 0 {
		return r2.Vec{}
	}
	total := 0.0
	for i := 1; i < len(seg); i++ {
		total += r2.Norm(r2.Sub(seg[i], seg[i-1]))
	}
	if total == 0 {
		return seg[0]
	}

	half := total / 2
	for i := 1; i < len(seg); i++ {
		l := r2.Norm(r2.Sub(seg[i], seg[i-1]))
		if l >= half && l > 0 {
			return r2.Add(seg[i-1], r2.Scale(half/l, r2.Sub(seg[i], seg[i-1])))
		}
		half -= l
	}
	return seg[len(seg)-1]
}

// segment is Liang-Barsky clipping of a->b. It returns the clipped endpoints
// and their parameters along the original segment.
func segment(a, b r2.Vec, box r2.Box) (r2.Vec, r2.Vec, float64, float64, bool) {
	d := r2.Sub(b, a)
	p := [4]float64{-d.X, d.X, -d.Y, d.Y}
	q := [4]float64{a.X - box.Min.X, box.Max.X - a.X, a.Y - box.Min.Y, box.Max.Y - a.Y}

	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return r2.Vec{}, r2.Vec{}, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return r2.Vec{}, r2.Vec{}, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return r2.Vec{}, r2.Vec{}, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}

	ca, cb := a, b
	if t0 > 0 {
		ca = clampTo(box, r2.Add(a, r2.Scale(t0, d)))
	}
	if t1 < 1 {
		cb = clampTo(box, r2.Add(a, r2.Scale(t1, d)))
	}
	return ca, cb, t0, t1, true
}

// clampTo snaps boundary crossings onto the box; interpolation can land a
// hair outside.
func clampTo(box r2.Box, p r2.Vec) r2.Vec {
	return r2.Vec{
		X: math.Min(math.Max(p.X, box.Min.X), box.Max.X),
		Y: math.Min(math.Max(p.Y, box.Min.Y), box.Max.Y),
	}
}
