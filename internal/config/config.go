// Package config loads tetsurf command configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/tetsurf"
	"github.com/soypat/tetsurf/predicate"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config is the full configuration of an extraction run.
type Config struct {
	Lattice   Lattice          `koanf:"lattice"`
	Predicate predicate.Config `koanf:"predicate"`
	Boundary  Boundary         `koanf:"boundary"`
	Log       Log              `koanf:"log"`
}

// Lattice configures the BCC complex generated for extraction.
type Lattice struct {
	Min        [3]float64 `koanf:"min"`
	Max        [3]float64 `koanf:"max"`
	Resolution float64    `koanf:"resolution"`
	// WeldTolerance is the distance under which lattice nodes are merged.
	WeldTolerance float64 `koanf:"weld_tolerance"`
}

// Box returns the meshed region.
func (l Lattice) Box() r3.Box {
	return r3.Box{
		Min: r3.Vec{X: l.Min[0], Y: l.Min[1], Z: l.Min[2]},
		Max: r3.Vec{X: l.Max[0], Y: l.Max[1], Z: l.Max[2]},
	}
}

// Boundary configures boundary face extraction.
type Boundary struct {
	Hull  string `koanf:"hull"`
	Dedup bool   `koanf:"dedup"`
}

// HullPolicy returns the policy named by Hull.
func (b Boundary) HullPolicy() (tetsurf.HullPolicy, error) {
	switch b.Hull {
	case tetsurf.SkipHull.String():
		return tetsurf.SkipHull, nil
	case tetsurf.IncludeHull.String():
		return tetsurf.IncludeHull, nil
	}
	return 0, fmt.Errorf("unknown hull policy %q", b.Hull)
}

// Options returns the boundary options described by b.
func (b Boundary) Options() ([]tetsurf.BoundaryOption, error) {
	hull, err := b.HullPolicy()
	if err != nil {
		return nil, err
	}
	opts := []tetsurf.BoundaryOption{tetsurf.WithHullPolicy(hull)}
	if b.Dedup {
		opts = append(opts, tetsurf.Dedup())
	}
	return opts, nil
}

// Log configures the zap logger.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

const (
	defaultResolution    = 0.1
	defaultWeldTolerance = 1e-9
)

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Lattice.Min == ([3]float64{}) && cfg.Lattice.Max == ([3]float64{}) {
		cfg.Lattice.Min = [3]float64{-1, -1, -1}
		cfg.Lattice.Max = [3]float64{1, 1, 1}
	}
	if cfg.Lattice.Resolution == 0 {
		cfg.Lattice.Resolution = defaultResolution
	}
	if cfg.Lattice.WeldTolerance == 0 {
		cfg.Lattice.WeldTolerance = defaultWeldTolerance
	}
	if cfg.Predicate.Kind == "" {
		cfg.Predicate.Kind = predicate.KindNever
	}
	if cfg.Boundary.Hull == "" {
		cfg.Boundary.Hull = tetsurf.SkipHull.String()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks the configuration for values no run could succeed with.
// Predicate parameters are checked when the predicate is built.
func (c *Config) Validate() error {
	var errs []error
	l := c.Lattice
	for i := range l.Min {
		if !(l.Min[i] < l.Max[i]) {
			errs = append(errs, fmt.Errorf("lattice: min[%d]=%g not below max[%d]=%g", i, l.Min[i], i, l.Max[i]))
		}
	}
	if !(l.Resolution > 0) || math.IsInf(l.Resolution, 0) {
		errs = append(errs, fmt.Errorf("lattice: resolution must be positive and finite, got %g", l.Resolution))
	}
	if l.WeldTolerance < 0 || l.WeldTolerance >= l.Resolution {
		errs = append(errs, fmt.Errorf("lattice: weld_tolerance must be in [0, resolution), got %g", l.WeldTolerance))
	}
	if _, err := c.Boundary.HullPolicy(); err != nil {
		errs = append(errs, fmt.Errorf("boundary: %w", err))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
