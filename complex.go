package tetsurf

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/tetsurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a point of a tetrahedral complex. Vertices are shared by
// reference among all cells they belong to.
type Vertex struct {
	Pos r3.Vec
	id  int
}

// ID returns the index of the vertex in its complex.
func (v *Vertex) ID() int { return v.id }

// NeighborKind discriminates what lies across a cell face.
type NeighborKind uint8

const (
	// HullBoundary means no cell lies across the face: the face
	// is on the boundary of the complex.
	HullBoundary NeighborKind = iota
	// Interior means another cell of the complex shares the face.
	Interior
)

func (k NeighborKind) String() string {
	switch k {
	case HullBoundary:
		return "hull"
	case Interior:
		return "interior"
	}
	return fmt.Sprintf("NeighborKind(%d)", uint8(k))
}

// Neighbor describes what lies across one face of a cell.
// The zero value is a hull boundary neighbor.
type Neighbor struct {
	Kind NeighborKind
	// Cell is the adjacent cell. Nil for HullBoundary.
	Cell *Cell
}

// Cell is a tetrahedron of a complex. Neighbor slot i holds
// whatever lies across the face opposite vertex i.
type Cell struct {
	vertices  [4]*Vertex
	neighbors [4]Neighbor
	tag       int
	owner     *Complex
}

// Vertex returns the i'th corner of the cell.
func (c *Cell) Vertex(i int) *Vertex { return c.vertices[i] }

// Vertices returns the four corners of the cell.
func (c *Cell) Vertices() [4]*Vertex { return c.vertices }

// Neighbor returns what lies across the face opposite vertex i.
func (c *Cell) Neighbor(i int) Neighbor { return c.neighbors[i] }

// Points returns the positions of the four corners of the cell.
func (c *Cell) Points() [4]r3.Vec {
	return [4]r3.Vec{c.vertices[0].Pos, c.vertices[1].Pos, c.vertices[2].Pos, c.vertices[3].Pos}
}

// Face returns the three corners of the face opposite vertex i,
// keeping the cell's vertex order.
func (c *Cell) Face(i int) (face [3]*Vertex) {
	n := 0
	for j, v := range c.vertices {
		if j != i {
			face[n] = v
			n++
		}
	}
	return face
}

// Complex is a tetrahedral complex: an ordered collection of cells
// with symmetric face adjacency and the vertices they reference.
//
// The complex keeps a structural version which every mutation bumps.
// Tags and labels are bound to the version they were computed at
// and stop being usable once the complex changes.
type Complex struct {
	vertices []*Vertex
	cells    []*Cell
	version  uint64
	// version at the last call to Tag. Zero if never tagged.
	tagged uint64
}

// NewComplex builds a complex from node positions and tetrahedra given
// as node indices. Adjacency is derived by matching faces with identical
// vertex sets, so shared nodes must be referenced by the same index
// (see Weld for merging coincident nodes).
func NewComplex(nodes []r3.Vec, tetras [][4]int) (*Complex, error) {
	cx := &Complex{
		vertices: make([]*Vertex, 0, len(nodes)),
		cells:    make([]*Cell, 0, len(tetras)),
	}
	for i, n := range nodes {
		if !d3.IsFinite(n) {
			return nil, fmt.Errorf("node %d is not finite: %v", i, n)
		}
		cx.AddVertex(n)
	}
	for i, tetra := range tetras {
		var vs [4]*Vertex
		for j, idx := range tetra {
			if idx < 0 || idx >= len(nodes) {
				return nil, fmt.Errorf("tetra %d: node index %d out of range [0, %d)", i, idx, len(nodes))
			}
			vs[j] = cx.vertices[idx]
		}
		if _, err := cx.AddCell(vs[0], vs[1], vs[2], vs[3]); err != nil {
			return nil, fmt.Errorf("tetra %d: %w", i, err)
		}
	}
	if err := cx.connectFaces(); err != nil {
		return nil, err
	}
	return cx, nil
}

type faceRef struct {
	cell *Cell
	slot int
}

// connectFaces matches every face against the faces already seen using
// its sorted vertex IDs as key. A face shared by more than two cells
// cannot be represented with four neighbor slots and is an error.
func (cx *Complex) connectFaces() error {
	open := make(map[[3]int]faceRef, 2*len(cx.cells))
	for _, c := range cx.cells {
		for slot := range c.neighbors {
			key := faceKey(c.Face(slot))
			other, ok := open[key]
			if !ok {
				open[key] = faceRef{cell: c, slot: slot}
				continue
			}
			if other.cell == nil {
				return fmt.Errorf("%w: face %v shared by more than two cells", ErrAdjacencyAsymmetry, key)
			}
			if err := cx.Connect(c, slot, other.cell, other.slot); err != nil {
				return err
			}
			open[key] = faceRef{} // mark face as closed.
		}
	}
	return nil
}

func faceKey(f [3]*Vertex) [3]int {
	k := [3]int{f[0].id, f[1].id, f[2].id}
	// Three element sorting network.
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	if k[1] > k[2] {
		k[1], k[2] = k[2], k[1]
	}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	return k
}

// AddVertex appends a vertex at pos to the complex.
func (cx *Complex) AddVertex(pos r3.Vec) *Vertex {
	v := &Vertex{Pos: pos, id: len(cx.vertices)}
	cx.vertices = append(cx.vertices, v)
	cx.bump()
	return v
}

// AddCell appends a cell with the given corners to the complex. All of the cell's
// neighbor slots start out as HullBoundary; use Connect to join cells.
func (cx *Complex) AddCell(v0, v1, v2, v3 *Vertex) (*Cell, error) {
	vs := [4]*Vertex{v0, v1, v2, v3}
	for i, v := range vs {
		if v == nil {
			return nil, errors.New("nil vertex")
		}
		if v.id >= len(cx.vertices) || cx.vertices[v.id] != v {
			return nil, fmt.Errorf("vertex %d does not belong to complex", i)
		}
		for _, w := range vs[:i] {
			if w == v {
				return nil, fmt.Errorf("vertex %d repeated in cell", v.id)
			}
		}
	}
	c := &Cell{vertices: vs, tag: -1, owner: cx}
	cx.cells = append(cx.cells, c)
	cx.bump()
	return c, nil
}

// Connect makes cells a and b neighbors across a's face opposite vertex fa
// and b's face opposite vertex fb. Both slots must be hull boundaries.
// Whether the faces actually coincide is checked by Validate.
func (cx *Complex) Connect(a *Cell, fa int, b *Cell, fb int) error {
	switch {
	case a == nil || b == nil:
		return errors.New("nil cell")
	case a.owner != cx || b.owner != cx:
		return errors.New("cell does not belong to complex")
	case a == b:
		return fmt.Errorf("%w: cell cannot neighbor itself", ErrAdjacencyAsymmetry)
	case fa < 0 || fa > 3 || fb < 0 || fb > 3:
		return fmt.Errorf("face index out of range: %d, %d", fa, fb)
	case a.neighbors[fa].Kind != HullBoundary || b.neighbors[fb].Kind != HullBoundary:
		return fmt.Errorf("%w: face already connected", ErrAdjacencyAsymmetry)
	}
	a.neighbors[fa] = Neighbor{Kind: Interior, Cell: b}
	b.neighbors[fb] = Neighbor{Kind: Interior, Cell: a}
	cx.bump()
	return nil
}

// SwapCells exchanges the positions of cells i and j. Tags computed
// before the swap become stale.
func (cx *Complex) SwapCells(i, j int) {
	cx.cells[i], cx.cells[j] = cx.cells[j], cx.cells[i]
	cx.bump()
}

func (cx *Complex) bump() { cx.version++ }

// Version returns the structural version of the complex.
func (cx *Complex) Version() uint64 { return cx.version }

// Len returns the number of cells.
func (cx *Complex) Len() int { return len(cx.cells) }

// Cell returns the i'th cell in iteration order.
func (cx *Complex) Cell(i int) *Cell { return cx.cells[i] }

// Cells returns the cells in iteration order. The returned slice is a copy;
// reordering it does not affect the complex.
func (cx *Complex) Cells() []*Cell {
	return append([]*Cell(nil), cx.cells...)
}

// Vertices returns the vertices of the complex in ID order.
func (cx *Complex) Vertices() []*Vertex {
	return append([]*Vertex(nil), cx.vertices...)
}

// Bounds returns the bounding box of all vertices. The zero box is
// returned for a complex without vertices.
func (cx *Complex) Bounds() r3.Box {
	if len(cx.vertices) == 0 {
		return r3.Box{}
	}
	bb := d3.EmptyBox()
	for _, v := range cx.vertices {
		bb = bb.Include(v.Pos)
	}
	return r3.Box(bb)
}

// HullFaces returns the number of cell faces without a neighbor.
func (cx *Complex) HullFaces() (n int) {
	for _, c := range cx.cells {
		for _, nb := range c.neighbors {
			if nb.Kind == HullBoundary {
				n++
			}
		}
	}
	return n
}

// MinVolume returns the smallest cell volume in the complex, or zero if empty.
func (cx *Complex) MinVolume() float64 {
	if len(cx.cells) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, c := range cx.cells {
		min = math.Min(min, d3.Tetra(c.Points()).Volume())
	}
	return min
}
