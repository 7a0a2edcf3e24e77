package main

import (
	"time"

	"github.com/soypat/tetsurf"
	"github.com/soypat/tetsurf/internal/config"
	"github.com/soypat/tetsurf/lattice"
	"go.uber.org/zap"
)

// buildComplex meshes the configured box and welds coincident nodes.
func buildComplex(cfg config.Lattice, log *zap.Logger) (*tetsurf.Complex, error) {
	start := time.Now()
	nodes, tetras, err := lattice.BCC(cfg.Box(), cfg.Resolution)
	if err != nil {
		return nil, err
	}
	nodes, tetras, err = tetsurf.Weld(nodes, tetras, cfg.WeldTolerance)
	if err != nil {
		return nil, err
	}
	cx, err := tetsurf.NewComplex(nodes, tetras)
	if err != nil {
		return nil, err
	}
	log.Info("complex built",
		zap.Int("vertices", len(nodes)),
		zap.Int("cells", cx.Len()),
		zap.Int("hull_faces", cx.HullFaces()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cx, nil
}
