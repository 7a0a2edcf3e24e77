package tetsurf

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a full extraction pass over a complex.
type Result struct {
	// ID identifies the pass in logs.
	ID     string
	Labels Labels
	Faces  []Face
}

// Option configures Extract and ExtractBatch.
type Option func(*passConfig)

type passConfig struct {
	log      *zap.Logger
	boundary []BoundaryOption
}

// WithLogger sets the logger passes report to. The default discards all output.
func WithLogger(l *zap.Logger) Option {
	return func(c *passConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBoundary passes options through to boundary extraction.
func WithBoundary(opts ...BoundaryOption) Option {
	return func(c *passConfig) { c.boundary = append(c.boundary, opts...) }
}

func newPassConfig(opts []Option) passConfig {
	cfg := passConfig{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Extract tags the complex, classifies its cells with p and reads all boundary
// faces. The complex must not be used by anything else for the duration of the call.
func Extract(cx *Complex, p Predicate, opts ...Option) (Result, error) {
	cfg := newPassConfig(opts)
	return extract(cx, p, cfg)
}

func extract(cx *Complex, p Predicate, cfg passConfig) (Result, error) {
	id := uuid.NewString()
	log := cfg.log.With(zap.String("pass", id))
	start := time.Now()

	cx.Tag()
	labels, err := Classify(cx, p)
	if err != nil {
		log.Error("classification failed", zap.Int("cells", cx.Len()), zap.Error(err))
		return Result{}, err
	}
	log.Debug("cells classified", zap.Int("cells", labels.Len()), zap.Int("included", labels.Count()))

	faces, err := BoundaryFaces(cx, labels, cfg.boundary...)
	if err != nil {
		log.Error("boundary extraction failed", zap.Error(err))
		return Result{}, err
	}
	log.Info("boundary extracted",
		zap.Int("cells", labels.Len()),
		zap.Int("included", labels.Count()),
		zap.Int("faces", len(faces)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Result{ID: id, Labels: labels, Faces: faces}, nil
}

// Job is one complex to process with ExtractBatch.
type Job struct {
	Complex   *Complex
	Predicate Predicate
}

// ExtractBatch runs Extract over independent complexes concurrently with at
// most limit passes in flight (no limit if limit <= 0). Results are returned
// in job order. The first failure cancels passes that have not started yet
// and is returned. A complex may appear in at most one job.
func ExtractBatch(ctx context.Context, jobs []Job, limit int, opts ...Option) ([]Result, error) {
	seen := make(map[*Complex]int, len(jobs))
	for i, job := range jobs {
		if job.Complex == nil {
			return nil, fmt.Errorf("job %d: nil complex", i)
		}
		if j, ok := seen[job.Complex]; ok {
			return nil, fmt.Errorf("jobs %d and %d share a complex", j, i)
		}
		seen[job.Complex] = i
	}
	cfg := newPassConfig(opts)
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := extract(job.Complex, job.Predicate, cfg)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
