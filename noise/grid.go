package noise

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// VectorSample is one arrow of the debug field visualisation.
type VectorSample struct {
	Pos   r2.Vec
	Angle float64
}

// VectorSample3 is one arrow of a 3D debug lattice.
type VectorSample3 struct {
	Pos   r3.Vec
	Value float64
}

// Grid samples the field's angle on a regular lattice covering box, with
// cells centred on the lattice points. A non-positive step yields nothing.
func Grid(f *Field, box r2.Box, step, t float64) []VectorSample {
	if step <= 0 {
		return nil
	}
	w := box.Max.X - box.Min.X
	h := box.Max.Y - box.Min.Y
	cols := int(w / step)
	rows := int(h / step)
	if cols <= 0 || rows <= 0 {
		return nil
	}

	out := make([]VectorSample, 0, cols*rows)
	for row := 0; row < rows; row++ {
		y := box.Min.Y + (float64(row)+0.5)*step
		for col := 0; col < cols; col++ {
			p := r2.Vec{X: box.Min.X + (float64(col)+0.5)*step, Y: y}
			out = append(out, VectorSample{Pos: p, Angle: f.Angle(p, t)})
		}
	}
	return out
}

// Grid3 samples Sample3 on a lattice filling box, cells centred on the
// lattice points like Grid. Samples are ordered by z, then y, then x.
func Grid3(f *Field, box r3.Box, step, t float64) []VectorSample3 {
	if step <= 0 {
		return nil
	}
	size := r3.Sub(box.Max, box.Min)
	nx, ny, nz := int(size.X/step), int(size.Y/step), int(size.Z/step)
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil
	}

	out := make([]VectorSample3, 0, nx*ny*nz)
	for k := 0; k < nz; k++ {
		z := box.Min.Z + (float64(k)+0.5)*step
		for j := 0; j < ny; j++ {
			y := box.Min.Y + (float64(j)+0.5)*step
			for i := 0; i < nx; i++ {
				p := r3.Vec{X: box.Min.X + (float64(i)+0.5)*step, Y: y, Z: z}
				out = append(out, VectorSample3{Pos: p, Value: f.Sample3(p, t)})
			}
		}
	}
	return out
}
