package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer produces triangles in batches, much like io.Reader produces bytes.
// ReadTriangles returns io.EOF once it has no more triangles to produce.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle following the
// right hand rule over its vertex order.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Area returns the area of the triangle.
func (t Triangle3) Area() float64 {
	return r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))) / 2
}

// Degenerate returns true if any two vertices of the triangle coincide within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return equalWithin(t[0], t[1], tol) ||
		equalWithin(t[1], t[2], tol) ||
		equalWithin(t[2], t[0], tol)
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	d := r3.Sub(a, b)
	return d.X <= tol && d.X >= -tol &&
		d.Y <= tol && d.Y >= -tol &&
		d.Z <= tol && d.Z >= -tol
}
