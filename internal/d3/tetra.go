package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tetra is a tetrahedron defined by its four corner points.
type Tetra [4]r3.Vec

// tetraFaces lists the corners of the face opposite each corner.
var tetraFaces = [4][3]int{
	{1, 2, 3},
	{0, 2, 3},
	{0, 1, 3},
	{0, 1, 2},
}

// SignedVolume returns the signed volume of the tetrahedron. It is
// positive when (t1-t0, t2-t0, t3-t0) form a right handed system.
func (t Tetra) SignedVolume() float64 {
	u := r3.Sub(t[1], t[0])
	v := r3.Sub(t[2], t[0])
	w := r3.Sub(t[3], t[0])
	return r3.Dot(u, r3.Cross(v, w)) / 6
}

// Volume returns the unsigned volume of the tetrahedron.
func (t Tetra) Volume() float64 { return math.Abs(t.SignedVolume()) }

// Centroid returns the mean of the four corners.
func (t Tetra) Centroid() r3.Vec {
	return Set(t[:]).Centroid()
}

// MaxEdge returns the length of the longest of the six edges.
func (t Tetra) MaxEdge() float64 {
	max2 := 0.0
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 4; j++ {
			max2 = math.Max(max2, r3.Norm2(r3.Sub(t[j], t[i])))
		}
	}
	return math.Sqrt(max2)
}

// Degenerate returns true if the volume of the tetrahedron is negligible
// relative to the cube of its longest edge. tol is a relative tolerance.
func (t Tetra) Degenerate(tol float64) bool {
	l := t.MaxEdge()
	if l == 0 {
		return true
	}
	return t.Volume() <= tol*l*l*l
}

// FaceArea returns the area of the face opposite corner i.
func (t Tetra) FaceArea(i int) float64 {
	f := tetraFaces[i]
	a, b, c := t[f[0]], t[f[1]], t[f[2]]
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
}

// Circumcenter returns the center of the sphere passing through all four corners.
// The result is not finite for degenerate tetrahedra.
func (t Tetra) Circumcenter() r3.Vec {
	u := r3.Sub(t[1], t[0])
	v := r3.Sub(t[2], t[0])
	w := r3.Sub(t[3], t[0])
	vw := r3.Cross(v, w)
	wu := r3.Cross(w, u)
	uv := r3.Cross(u, v)
	den := 2 * r3.Dot(u, vw)
	num := r3.Add(r3.Add(r3.Scale(r3.Norm2(u), vw), r3.Scale(r3.Norm2(v), wu)), r3.Scale(r3.Norm2(w), uv))
	return r3.Add(t[0], r3.Scale(1/den, num))
}

// Circumradius returns the radius of the circumscribed sphere.
func (t Tetra) Circumradius() float64 {
	return r3.Norm(r3.Sub(t.Circumcenter(), t[0]))
}

// Inradius returns the radius of the inscribed sphere.
func (t Tetra) Inradius() float64 {
	area := t.FaceArea(0) + t.FaceArea(1) + t.FaceArea(2) + t.FaceArea(3)
	if area == 0 {
		return 0
	}
	return 3 * t.Volume() / area
}

// AspectRatio returns the circumradius to inradius ratio. It is 3 for the
// regular tetrahedron and grows without bound as the tetrahedron flattens.
func (t Tetra) AspectRatio() float64 {
	r := t.Inradius()
	if r == 0 {
		return math.Inf(1)
	}
	return t.Circumradius() / r
}
