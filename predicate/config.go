package predicate

import (
	"fmt"
	"math"
	"strings"

	"github.com/soypat/tetsurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind names a predicate family in configuration.
type Kind string

const (
	KindNever        Kind = "never"
	KindVolume       Kind = "volume"
	KindAspectRatio  Kind = "aspect"
	KindCircumradius Kind = "circumradius"
	KindSphere       Kind = "sphere"
	KindBox          Kind = "box"
	KindCylinder     Kind = "cylinder"
)

// Config enumerates a predicate and its parameters.
//
//	kind: aspect
//	min: 3
//	max: 12
type Config struct {
	Kind Kind `koanf:"kind"`
	// Min and Max bound the measured quantity for volume and aspect predicates.
	// A zero Max means unbounded.
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
	// Alpha is the largest circumradius admitted by the circumradius predicate.
	Alpha float64 `koanf:"alpha"`
	// Center, Radius, Size, Height and Round define the solid of the
	// sphere, box and cylinder predicates.
	Center [3]float64 `koanf:"center"`
	Radius float64    `koanf:"radius"`
	Size   [3]float64 `koanf:"size"`
	Height float64    `koanf:"height"`
	Round  float64    `koanf:"round"`
	// Invert excludes the cells the predicate would include and vice versa.
	Invert bool `koanf:"invert"`
}

// FromConfig builds the predicate described by cfg.
func FromConfig(cfg Config) (tetsurf.Predicate, error) {
	max := cfg.Max
	if max == 0 {
		max = math.Inf(1)
	}
	var (
		p   tetsurf.Predicate
		err error
	)
	switch Kind(strings.ToLower(string(cfg.Kind))) {
	case KindNever, "":
		p = Never()
	case KindVolume:
		p, err = Volume(cfg.Min, max)
	case KindAspectRatio:
		p, err = AspectRatio(cfg.Min, max)
	case KindCircumradius:
		p, err = Circumradius(cfg.Alpha)
	case KindSphere, KindBox, KindCylinder:
		var s SDF3
		s, err = solidFromConfig(cfg)
		if err == nil {
			p, err = Inside(s)
		}
	default:
		return nil, fmt.Errorf("unknown predicate kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s predicate: %w", cfg.Kind, err)
	}
	if cfg.Invert {
		p = Not(p)
	}
	return p, nil
}

func solidFromConfig(cfg Config) (SDF3, error) {
	center := r3.Vec{X: cfg.Center[0], Y: cfg.Center[1], Z: cfg.Center[2]}
	switch Kind(strings.ToLower(string(cfg.Kind))) {
	case KindBox:
		return Box(center, r3.Vec{X: cfg.Size[0], Y: cfg.Size[1], Z: cfg.Size[2]}, cfg.Round)
	case KindCylinder:
		return Cylinder(center, cfg.Height, cfg.Radius, cfg.Round)
	}
	return Sphere(center, cfg.Radius)
}
