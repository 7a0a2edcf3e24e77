package tetsurf

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// HullPolicy selects what happens with cell faces that have no neighbor.
type HullPolicy uint8

const (
	// SkipHull never reports faces on the boundary of the complex,
	// even when they bound an included cell.
	SkipHull HullPolicy = iota
	// IncludeHull treats the outside of the complex as excluded so
	// hull faces of included cells are reported.
	IncludeHull
)

func (p HullPolicy) String() string {
	switch p {
	case SkipHull:
		return "skip"
	case IncludeHull:
		return "include"
	}
	return fmt.Sprintf("HullPolicy(%d)", uint8(p))
}

// Face is a triangle separating an included cell region from an excluded one.
// No winding order is guaranteed.
type Face struct {
	Vertices [3]*Vertex
	// Cell is the cell the face was emitted from.
	Cell *Cell
	// Across is what lies on the other side of the face.
	Across Neighbor
}

// Points returns the positions of the face's corners.
func (f Face) Points() [3]r3.Vec {
	return [3]r3.Vec{f.Vertices[0].Pos, f.Vertices[1].Pos, f.Vertices[2].Pos}
}

// BoundaryOption configures boundary extraction.
type BoundaryOption func(*boundaryConfig)

type boundaryConfig struct {
	hull  HullPolicy
	dedup bool
}

// WithHullPolicy sets the policy for faces on the boundary of the complex.
// The default is SkipHull.
func WithHullPolicy(p HullPolicy) BoundaryOption {
	return func(c *boundaryConfig) { c.hull = p }
}

// Dedup emits each interior boundary face once, from its lower tagged cell.
// Without it every interior boundary face is emitted from both of its cells.
func Dedup() BoundaryOption {
	return func(c *boundaryConfig) { c.dedup = true }
}

// BoundaryReader lazily walks the cells of a labelled complex and yields
// the faces across which the label changes. Cells are visited in tag order
// and neighbor slots in slot order.
type BoundaryReader struct {
	cx      *Complex
	labels  []bool
	cfg     boundaryConfig
	version uint64
	// cursor: next cell and neighbor slot to inspect.
	cell, slot int
}

// NewBoundaryReader validates the complex, its tags and labels before
// returning a reader so that no face is produced from an inconsistent complex.
func NewBoundaryReader(cx *Complex, labels Labels, opts ...BoundaryOption) (*BoundaryReader, error) {
	var cfg boundaryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hull > IncludeHull {
		return nil, fmt.Errorf("invalid %v", cfg.hull)
	}
	if err := cx.checkTags(); err != nil {
		return nil, err
	}
	if len(cx.cells) > 0 && labels.cx != cx {
		return nil, fmt.Errorf("%w: labels computed for another complex", ErrTaggingInconsistency)
	}
	if err := labels.check(); err != nil {
		return nil, err
	}
	if err := cx.Validate(); err != nil {
		return nil, err
	}
	return &BoundaryReader{
		cx:      cx,
		labels:  labels.values,
		cfg:     cfg,
		version: cx.version,
	}, nil
}

// ReadFaces reads up to len(dst) boundary faces into dst and returns the
// number of faces read. It returns io.EOF once all cells have been visited.
// It fails with ErrTaggingInconsistency if the complex was modified after
// the reader was created.
func (r *BoundaryReader) ReadFaces(dst []Face) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	if r.cx.version != r.version {
		return 0, fmt.Errorf("%w: complex modified during boundary extraction", ErrTaggingInconsistency)
	}
	cells := r.cx.cells
	for n < len(dst) && r.cell < len(cells) {
		c := cells[r.cell]
		for n < len(dst) && r.slot < 4 {
			slot := r.slot
			r.slot++
			face, ok, err := r.faceAt(c, slot)
			if err != nil {
				return n, err
			}
			if ok {
				dst[n] = face
				n++
			}
		}
		if r.slot == 4 {
			r.cell++
			r.slot = 0
		}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// faceAt returns the boundary face across slot of c, if there is one.
func (r *BoundaryReader) faceAt(c *Cell, slot int) (Face, bool, error) {
	nb := c.neighbors[slot]
	inside := r.labels[c.tag]
	switch nb.Kind {
	case HullBoundary:
		if r.cfg.hull == IncludeHull && inside {
			return Face{Vertices: c.Face(slot), Cell: c, Across: nb}, true, nil
		}
		return Face{}, false, nil
	case Interior:
		n := nb.Cell
		if r.labels[n.tag] == inside || (r.cfg.dedup && n.tag < c.tag) {
			return Face{}, false, nil
		}
		verts, err := sharedFace(c, n)
		if err != nil {
			return Face{}, false, err
		}
		return Face{Vertices: verts, Cell: c, Across: nb}, true, nil
	}
	return Face{}, false, fmt.Errorf("invalid %v", nb.Kind)
}

// BoundaryFaces reads all boundary faces of a labelled complex.
func BoundaryFaces(cx *Complex, labels Labels, opts ...BoundaryOption) ([]Face, error) {
	r, err := NewBoundaryReader(cx, labels, opts...)
	if err != nil {
		return nil, err
	}
	var faces []Face
	buf := make([]Face, 256)
	for {
		n, err := r.ReadFaces(buf)
		faces = append(faces, buf[:n]...)
		if err == io.EOF {
			return faces, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// sideMarks maps the vertices of two cells to the side they were last
// marked with. It lives for a single face computation.
type sideMarks struct {
	n    int
	v    [8]*Vertex
	side [8]uint8
}

func (m *sideMarks) mark(v *Vertex, side uint8) {
	for i := 0; i < m.n; i++ {
		if m.v[i] == v {
			m.side[i] = side
			return
		}
	}
	m.v[m.n] = v
	m.side[m.n] = side
	m.n++
}

func (m *sideMarks) sideOf(v *Vertex) uint8 {
	for i := 0; i < m.n; i++ {
		if m.v[i] == v {
			return m.side[i]
		}
	}
	return 0
}

// sharedFace returns the vertices of c that also belong to n, in c's order.
// c's vertices are marked 0 and then n's vertices 1, so c's vertices still
// marked 1 are the shared ones. Anything other than three shared vertices
// means the cells are not face neighbors.
func sharedFace(c, n *Cell) (face [3]*Vertex, err error) {
	var marks sideMarks
	for _, v := range c.vertices {
		marks.mark(v, 0)
	}
	for _, v := range n.vertices {
		marks.mark(v, 1)
	}
	shared := 0
	for _, v := range c.vertices {
		if marks.sideOf(v) != 1 {
			continue
		}
		if shared < 3 {
			face[shared] = v
		}
		shared++
	}
	if shared != 3 {
		return face, fmt.Errorf("%w: neighbor cells share %d vertices, want 3", ErrAdjacencyAsymmetry, shared)
	}
	return face, nil
}
