package main

import (
	"fmt"
	"io"
	"math"

	"github.com/soypat/tetsurf"
	"github.com/soypat/tetsurf/internal/d3"
	"github.com/soypat/tetsurf/predicate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func newStatsCmd() *cobra.Command {
	var (
		hist string
		bins int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report cell quality and classification statistics",
		Long: `Report cell quality of the configured lattice and how many cells
the configured predicate includes.

Examples:
  tetsurf stats -c tetsurf.yaml --hist quality.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			cx, err := buildComplex(cfg.Lattice, log)
			if err != nil {
				return err
			}
			p, err := predicate.FromConfig(cfg.Predicate)
			if err != nil {
				return err
			}
			st, err := computeStats(cx, p)
			if err != nil {
				return err
			}
			st.write(cmd.OutOrStdout())
			if hist == "" {
				return nil
			}
			if err := saveHistogram(hist, st.aspect, bins); err != nil {
				return err
			}
			log.Info("wrote histogram", zap.String("path", hist))
			return nil
		},
	}
	cmd.Flags().StringVar(&hist, "hist", "", "optional PNG/SVG/PDF histogram of cell aspect ratios")
	cmd.Flags().IntVar(&bins, "bins", 32, "number of histogram bins")
	return cmd
}

type stats struct {
	cells, vertices, hullFaces int
	included                   int
	minVolume                  float64
	// aspect holds the aspect ratio of every non degenerate cell.
	aspect     []float64
	degenerate int
}

func computeStats(cx *tetsurf.Complex, p tetsurf.Predicate) (stats, error) {
	st := stats{
		cells:     cx.Len(),
		vertices:  len(cx.Vertices()),
		hullFaces: cx.HullFaces(),
		minVolume: cx.MinVolume(),
		aspect:    make([]float64, 0, cx.Len()),
	}
	for _, c := range cx.Cells() {
		ar := d3.Tetra(c.Points()).AspectRatio()
		if math.IsInf(ar, 0) || math.IsNaN(ar) {
			st.degenerate++
			continue
		}
		st.aspect = append(st.aspect, ar)
	}
	cx.Tag()
	labels, err := tetsurf.Classify(cx, p)
	if err != nil {
		return stats{}, err
	}
	st.included = labels.Count()
	return st, nil
}

func (st stats) write(w io.Writer) {
	fmt.Fprintf(w, "cells:      %d (%d included)\n", st.cells, st.included)
	fmt.Fprintf(w, "vertices:   %d\n", st.vertices)
	fmt.Fprintf(w, "hull faces: %d\n", st.hullFaces)
	fmt.Fprintf(w, "min volume: %g\n", st.minVolume)
	if st.degenerate > 0 {
		fmt.Fprintf(w, "degenerate: %d\n", st.degenerate)
	}
	if len(st.aspect) > 0 {
		fmt.Fprintf(w, "aspect ratio: min %.4g mean %.4g max %.4g\n",
			floats.Min(st.aspect), stat.Mean(st.aspect, nil), floats.Max(st.aspect))
	}
}

func saveHistogram(path string, values []float64, bins int) error {
	if len(values) == 0 {
		return fmt.Errorf("no cells to plot")
	}
	if bins <= 0 {
		return fmt.Errorf("invalid bin count %d", bins)
	}
	p := plot.New()
	p.Title.Text = "Cell aspect ratio"
	p.X.Label.Text = "circumradius / inradius"
	p.Y.Label.Text = "cells"
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
