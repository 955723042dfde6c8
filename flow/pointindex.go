package flow

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

// indexed is a stamped point stored in the k-d tree.
type indexed struct {
	pos   r2.Vec
	owner int
}

func (p indexed) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexed)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		panic("flow: illegal dimension")
	}
}

func (p indexed) Dims() int { return 2 }

// Distance is squared Euclidean distance, as kdtree keepers expect.
func (p indexed) Distance(c kdtree.Comparable) float64 {
	q := c.(indexed)
	d := r2.Sub(p.pos, q.pos)
	return d.X*d.X + d.Y*d.Y
}

// PointIndex answers the margin query with a k-d tree over every stamped
// point. It is unbounded, so points off the canvas count too.
type PointIndex struct {
	margin float64
	tree   *kdtree.Tree
}

// NewPointIndex returns an empty index.
func NewPointIndex(margin float64) *PointIndex {
	return &PointIndex{margin: margin, tree: &kdtree.Tree{}}
}

// Stamp inserts p for owner.
func (x *PointIndex) Stamp(p r2.Vec, owner int) {
	x.tree.Insert(indexed{pos: p, owner: owner}, false)
}

// Accepts reports whether no other trail has a point closer than margin.
func (x *PointIndex) Accepts(p r2.Vec, owner int) bool {
	if x.margin <= 0 || x.tree.Count == 0 {
		return true
	}
	rsq := x.margin * x.margin
	keep := kdtree.NewDistKeeper(rsq)
	x.tree.NearestSet(keep, indexed{pos: p, owner: owner})
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		if c.Comparable.(indexed).owner != owner && c.Dist < rsq {
			return false
		}
	}
	return true
}

// Reset drops the tree.
func (x *PointIndex) Reset() {
	x.tree = &kdtree.Tree{}
}

// Len returns the number of stamped points.
func (x *PointIndex) Len() int { return x.tree.Count }
