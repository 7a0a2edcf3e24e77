package predicate

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/tetsurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// Inside includes cells whose centroid lies strictly inside s.
func Inside(s SDF3) (tetsurf.Predicate, error) {
	if s == nil {
		return nil, errMsg("nil SDF3")
	}
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		t, err := tetra(c)
		if err != nil {
			return false, err
		}
		ctr := t.Centroid()
		d := s.Evaluate(ctr)
		if math.IsNaN(d) {
			return false, fmt.Errorf("SDF3 evaluated to NaN at %v", ctr)
		}
		return d < 0, nil
	}), nil
}

// FromSDFX adapts an sdfx solid to the SDF3 interface.
func FromSDFX(s sdf.SDF3) SDF3 {
	return sdfxSDF3{s: s}
}

type sdfxSDF3 struct {
	s sdf.SDF3
}

func (s sdfxSDF3) Evaluate(p r3.Vec) float64 {
	return s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (s sdfxSDF3) Bounds() r3.Box {
	bb := s.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// Sphere returns an sdfx sphere of the given radius centered at center.
func Sphere(center r3.Vec, radius float64) (SDF3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, err
	}
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: center.X, Y: center.Y, Z: center.Z}))
	return FromSDFX(s), nil
}
