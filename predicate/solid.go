package predicate

import (
	"math"

	"github.com/soypat/tetsurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// box is an axis aligned 3d box.
type box struct {
	center r3.Vec
	half   r3.Vec
	round  float64
}

// Box returns an SDF3 for an axis aligned box of the given size centered at
// center. Edges are rounded with radius round when round > 0.
func Box(center, size r3.Vec, round float64) (SDF3, error) {
	switch {
	case d3.LTEZero(size):
		return nil, errMsg("size <= 0")
	case round < 0:
		return nil, errMsg("round < 0")
	case 2*round > math.Min(size.X, math.Min(size.Y, size.Z)):
		return nil, errMsg("round exceeds half the smallest side")
	}
	half := r3.Scale(0.5, size)
	return &box{center: center, half: r3.Sub(half, d3.Elem(round)), round: round}, nil
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return boxDistance(r3.Sub(p, s.center), s.half) - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	half := r3.Add(s.half, d3.Elem(s.round))
	return r3.Box{Min: r3.Sub(s.center, half), Max: r3.Add(s.center, half)}
}

// cylinder is a cylinder with its axis along Z.
type cylinder struct {
	center r3.Vec
	height float64 // half height without rounding.
	radius float64
	round  float64
}

// Cylinder returns an SDF3 for a Z aligned cylinder centered at center
// (rounded edges with round > 0).
func Cylinder(center r3.Vec, height, radius, round float64) (SDF3, error) {
	switch {
	case radius <= 0:
		return nil, errMsg("radius <= 0")
	case round < 0:
		return nil, errMsg("round < 0")
	case round > radius:
		return nil, errMsg("round > radius")
	case height < 2*round || height <= 0:
		return nil, errMsg("height < 2 * round")
	}
	return &cylinder{
		center: center,
		height: height/2 - round,
		radius: radius - round,
		round:  round,
	}, nil
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder) Evaluate(p r3.Vec) float64 {
	p = r3.Sub(p, s.center)
	// Distance to the rectangle swept around the axis.
	dr := math.Hypot(p.X, p.Y) - s.radius
	dz := math.Abs(p.Z) - s.height
	out := math.Hypot(math.Max(dr, 0), math.Max(dz, 0))
	return out + math.Min(math.Max(dr, dz), 0) - s.round
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder) Bounds() r3.Box {
	r := s.radius + s.round
	d := r3.Vec{X: r, Y: r, Z: s.height + s.round}
	return r3.Box{Min: r3.Sub(s.center, d), Max: r3.Add(s.center, d)}
}

func boxDistance(p, half r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), half)
	return r3.Norm(d3.MaxElem(d, r3.Vec{})) + math.Min(d3.Max(d), 0)
}
