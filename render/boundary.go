package render

import (
	"io"

	"github.com/soypat/tetsurf"
)

// BoundaryRenderer renders the faces read from a boundary reader as triangles.
type BoundaryRenderer struct {
	r   *tetsurf.BoundaryReader
	buf []tetsurf.Face
}

var _ Renderer = (*BoundaryRenderer)(nil)

// NewBoundaryRenderer returns a Renderer reading faces from r.
func NewBoundaryRenderer(r *tetsurf.BoundaryReader) *BoundaryRenderer {
	return &BoundaryRenderer{r: r}
}

// ReadTriangles implements Renderer.
func (b *BoundaryRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if len(t) == 0 {
		return 0, io.ErrShortBuffer
	}
	if cap(b.buf) < len(t) {
		b.buf = make([]tetsurf.Face, len(t))
	}
	n, err := b.r.ReadFaces(b.buf[:len(t)])
	for i, f := range b.buf[:n] {
		t[i] = f.Points()
	}
	return n, err
}

// Faces converts boundary faces to triangles.
func Faces(faces []tetsurf.Face) []Triangle3 {
	model := make([]Triangle3, len(faces))
	for i, f := range faces {
		model[i] = f.Points()
	}
	return model
}
