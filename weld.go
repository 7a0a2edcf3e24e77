package tetsurf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld merges nodes that lie within tol of each other and rewrites the
// tetrahedra to reference the merged nodes. Merging is transitive. Merged
// nodes take the position of the lowest indexed node of their group and
// keep first occurrence order. A tetrahedron that loses a corner to welding
// is an error.
func Weld(nodes []r3.Vec, tetras [][4]int, tol float64) ([]r3.Vec, [][4]int, error) {
	if tol < 0 {
		return nil, nil, errors.New("negative weld tolerance")
	}
	pts := make(weldPoints, len(nodes))
	for i, n := range nodes {
		pts[i] = weldPoint{pos: n, idx: i}
	}
	// kdtree.New reorders its argument, pts keeps the input order.
	tree := kdtree.New(append(weldPoints(nil), pts...), false)

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range pts {
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, pts[i])
		for _, found := range keep.Heap {
			if found.Comparable == nil {
				continue
			}
			ri, rj := find(i), find(found.Comparable.(weldPoint).idx)
			if ri == rj {
				continue
			}
			if rj < ri {
				ri, rj = rj, ri
			}
			parent[rj] = ri // lowest index stays representative.
		}
	}

	remap := make([]int, len(nodes))
	welded := make([]r3.Vec, 0, len(nodes))
	for i := range nodes {
		r := find(i)
		if r == i {
			remap[i] = len(welded)
			welded = append(welded, nodes[i])
		} else {
			remap[i] = remap[r] // r < i so already assigned.
		}
	}
	out := make([][4]int, len(tetras))
	for it, tetra := range tetras {
		for j, idx := range tetra {
			if idx < 0 || idx >= len(nodes) {
				return nil, nil, fmt.Errorf("tetra %d: node index %d out of range [0, %d)", it, idx, len(nodes))
			}
			out[it][j] = remap[idx]
		}
		for j := 1; j < 4; j++ {
			for k := 0; k < j; k++ {
				if out[it][j] == out[it][k] {
					return nil, nil, fmt.Errorf("tetra %d collapses after welding with tolerance %g", it, tol)
				}
			}
		}
	}
	return welded, out, nil
}

var (
	_ kdtree.Interface  = weldPoints{}
	_ kdtree.Comparable = weldPoint{}
)

type weldPoint struct {
	pos r3.Vec
	idx int
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a weldPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return weldComp(a, b.(weldPoint), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a weldPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a weldPoint) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.pos, b.(weldPoint).pos))
}

// c = a.dim - b.dim
func weldComp(a, b weldPoint, dim int) (c float64) {
	switch dim {
	case 0:
		c = a.pos.X - b.pos.X
	case 1:
		c = a.pos.Y - b.pos.Y
	case 2:
		c = a.pos.Z - b.pos.Z
	}
	return c
}

type weldPoints []weldPoint

func (p weldPoints) Index(i int) kdtree.Comparable { return p[i] }

// Len returns the length of the list.
func (p weldPoints) Len() int { return len(p) }

// Pivot partitions the list based on the dimension specified.
func (p weldPoints) Pivot(d kdtree.Dim) int {
	pl := weldPlane{dim: int(d), points: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (p weldPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

type weldPlane struct {
	dim    int
	points weldPoints
}

func (p weldPlane) Less(i, j int) bool {
	return weldComp(p.points[i], p.points[j], p.dim) < 0
}

func (p weldPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

func (p weldPlane) Len() int {
	return len(p.points)
}

func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
