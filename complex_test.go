package tetsurf_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/tetsurf"
	"github.com/soypat/tetsurf/lattice"
	"github.com/soypat/tetsurf/predicate"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/spatial/r3"
)

func bccComplex(t testing.TB, resolution float64) *tetsurf.Complex {
	box := r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	nodes, tetras, err := lattice.BCC(box, resolution)
	if err != nil {
		t.Fatal(err)
	}
	cx, err := tetsurf.NewComplex(nodes, tetras)
	if err != nil {
		t.Fatal(err)
	}
	return cx
}

func insideSphere(t testing.TB, center r3.Vec, radius float64) tetsurf.Predicate {
	s, err := predicate.Sphere(center, radius)
	if err != nil {
		t.Fatal(err)
	}
	p, err := predicate.Inside(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestTagBijection(t *testing.T) {
	cx := bccComplex(t, 0.5)
	if cx.Tagged() {
		t.Fatal("fresh complex reported as tagged")
	}
	for i := 0; i < cx.Len(); i++ {
		if tag := cx.Cell(i).Tag(); tag != -1 {
			t.Fatalf("cell %d: untagged cell has tag %d", i, tag)
		}
	}
	cx.Tag()
	if !cx.Tagged() {
		t.Fatal("complex not tagged after Tag")
	}
	seen := make([]bool, cx.Len())
	for i := 0; i < cx.Len(); i++ {
		tag := cx.Cell(i).Tag()
		if tag != i {
			t.Fatalf("cell %d got tag %d", i, tag)
		}
		seen[tag] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("tag %d unused", i)
		}
	}
	// Tagging is idempotent.
	version := cx.Version()
	cx.Tag()
	for i := 0; i < cx.Len(); i++ {
		if tag := cx.Cell(i).Tag(); tag != i {
			t.Fatalf("retagged cell %d got tag %d", i, tag)
		}
	}
	if cx.Version() != version {
		t.Error("tagging changed complex version")
	}
}

func TestStaleTags(t *testing.T) {
	cx := twoTetras(t)
	if _, err := tetsurf.Classify(cx, byTag(true, false)); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Fatalf("classify of untagged complex: got %v, want ErrTaggingInconsistency", err)
	}
	cx.Tag()
	labels, err := tetsurf.Classify(cx, byTag(true, false))
	if err != nil {
		t.Fatal(err)
	}
	c0 := cx.Cell(0)
	if got, err := labels.Label(c0); err != nil || !got {
		t.Fatalf("Label(cell 0) = %v, %v; want true, nil", got, err)
	}

	cx.SwapCells(0, 1)
	if cx.Tagged() {
		t.Fatal("complex reports tagged after reorder")
	}
	if _, err := labels.Label(c0); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Errorf("Label after reorder: got %v, want ErrTaggingInconsistency", err)
	}
	if _, err := tetsurf.NewBoundaryReader(cx, labels); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Errorf("reader after reorder: got %v, want ErrTaggingInconsistency", err)
	}
	if _, err := tetsurf.Classify(cx, byTag(true, false)); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Errorf("classify after reorder: got %v, want ErrTaggingInconsistency", err)
	}

	// Retagging restores consistency and follows the new order.
	cx.Tag()
	if cx.Cell(0).Tag() != 0 || c0.Tag() != 1 {
		t.Fatalf("after retag got tags %d and %d", cx.Cell(0).Tag(), c0.Tag())
	}
	labels, err = tetsurf.Classify(cx, byTag(true, false))
	if err != nil {
		t.Fatal(err)
	}

	// Growing the complex also invalidates tags.
	v := cx.Vertices()
	if _, err := cx.AddCell(v[0], v[1], v[2], v[4]); err != nil {
		t.Fatal(err)
	}
	if _, err := labels.Label(c0); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Errorf("Label after AddCell: got %v, want ErrTaggingInconsistency", err)
	}
}

func TestLabelForeignCell(t *testing.T) {
	a, b := twoTetras(t), twoTetras(t)
	a.Tag()
	b.Tag()
	labels, err := tetsurf.Classify(a, byTag(true, true))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := labels.Label(b.Cell(0)); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Errorf("got %v, want ErrTaggingInconsistency", err)
	}
	if _, err := tetsurf.NewBoundaryReader(b, labels); !errors.Is(err, tetsurf.ErrTaggingInconsistency) {
		t.Errorf("reader with foreign labels: got %v, want ErrTaggingInconsistency", err)
	}
}

func TestLabelDeterminism(t *testing.T) {
	cx := bccComplex(t, 0.4)
	p := insideSphere(t, r3.Vec{X: 0.1, Y: -0.05}, 0.6)
	cx.Tag()
	first, err := tetsurf.Classify(cx, p)
	if err != nil {
		t.Fatal(err)
	}
	second, err := tetsurf.Classify(cx, p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.Values(), second.Values()); diff != "" {
		t.Errorf("labels differ between runs (-first +second):\n%s", diff)
	}
	if first.Count() == 0 || first.Count() == first.Len() {
		t.Errorf("sphere should split the lattice, got %d/%d included", first.Count(), first.Len())
	}
	a, err := tetsurf.Extract(cx, p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tetsurf.Extract(cx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Faces) != len(b.Faces) {
		t.Fatalf("face count differs between runs: %d != %d", len(a.Faces), len(b.Faces))
	}
	for i := range a.Faces {
		if a.Faces[i] != b.Faces[i] {
			t.Fatalf("face %d differs between runs", i)
		}
	}
	if a.ID == b.ID {
		t.Error("passes share an ID")
	}
}

func TestPredicateFailure(t *testing.T) {
	errBad := errors.New("bad geometry")
	cx := twoTetras(t)
	p := tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		if c.Tag() == 1 {
			return false, errBad
		}
		return true, nil
	})
	_, err := tetsurf.Extract(cx, p)
	if !errors.Is(err, tetsurf.ErrPredicateFailure) {
		t.Errorf("got %v, want ErrPredicateFailure", err)
	}
	if !errors.Is(err, errBad) {
		t.Errorf("got %v, want wrapped predicate error", err)
	}
	if _, err := tetsurf.Extract(cx, nil); !errors.Is(err, tetsurf.ErrPredicateFailure) {
		t.Errorf("nil predicate: got %v, want ErrPredicateFailure", err)
	}
}

func TestAdjacencyAsymmetry(t *testing.T) {
	cx, err := tetsurf.NewComplex(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	var v [8]*tetsurf.Vertex
	for i := range v {
		v[i] = cx.AddVertex(r3.Vec{X: float64(i), Y: float64(i * i), Z: float64(i * i * i)})
	}
	a, err := cx.AddCell(v[0], v[1], v[2], v[3])
	if err != nil {
		t.Fatal(err)
	}
	b, err := cx.AddCell(v[4], v[5], v[6], v[7])
	if err != nil {
		t.Fatal(err)
	}
	if err := cx.Validate(); err != nil {
		t.Fatalf("unconnected cells should be valid: %v", err)
	}
	// Cells share no vertices yet are declared neighbors.
	if err := cx.Connect(a, 0, b, 0); err != nil {
		t.Fatal(err)
	}
	if err := cx.Validate(); !errors.Is(err, tetsurf.ErrAdjacencyAsymmetry) {
		t.Errorf("Validate: got %v, want ErrAdjacencyAsymmetry", err)
	}
	cx.Tag()
	labels, err := tetsurf.Classify(cx, byTag(true, false))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tetsurf.BoundaryFaces(cx, labels); !errors.Is(err, tetsurf.ErrAdjacencyAsymmetry) {
		t.Errorf("BoundaryFaces: got %v, want ErrAdjacencyAsymmetry", err)
	}
	if err := cx.Connect(a, 0, b, 1); !errors.Is(err, tetsurf.ErrAdjacencyAsymmetry) {
		t.Errorf("connecting occupied slot: got %v, want ErrAdjacencyAsymmetry", err)
	}
}

func TestAdjacencyWrongSlot(t *testing.T) {
	cx, err := tetsurf.NewComplex(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	v0 := cx.AddVertex(r3.Vec{})
	v1 := cx.AddVertex(r3.Vec{X: 1})
	v2 := cx.AddVertex(r3.Vec{Y: 1})
	v3 := cx.AddVertex(r3.Vec{Z: 1})
	v4 := cx.AddVertex(r3.Vec{X: 1, Y: 1, Z: 1})
	a, _ := cx.AddCell(v0, v1, v2, v3)
	b, _ := cx.AddCell(v1, v2, v3, v4)
	// The shared face is opposite v0 in a and opposite v4 in b, not opposite v1.
	if err := cx.Connect(a, 1, b, 3); err != nil {
		t.Fatal(err)
	}
	if err := cx.Validate(); !errors.Is(err, tetsurf.ErrAdjacencyAsymmetry) {
		t.Errorf("got %v, want ErrAdjacencyAsymmetry", err)
	}
}

func TestNewComplexErrors(t *testing.T) {
	nodes := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: -1}}
	for _, tc := range []struct {
		name   string
		tetras [][4]int
		asym   bool
	}{
		{name: "index out of range", tetras: [][4]int{{0, 1, 2, 6}}},
		{name: "negative index", tetras: [][4]int{{0, 1, -1, 3}}},
		{name: "repeated vertex", tetras: [][4]int{{0, 1, 1, 3}}},
		{name: "face shared by three cells", tetras: [][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}, {1, 2, 3, 5}}, asym: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tetsurf.NewComplex(nodes, tc.tetras)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.asym && !errors.Is(err, tetsurf.ErrAdjacencyAsymmetry) {
				t.Errorf("got %v, want ErrAdjacencyAsymmetry", err)
			}
		})
	}
	_, err := tetsurf.NewComplex([]r3.Vec{{X: math.NaN()}}, nil)
	if err == nil {
		t.Error("expected error for NaN node")
	}
}

func TestNewComplexAdjacency(t *testing.T) {
	cx := twoTetras(t)
	if err := cx.Validate(); err != nil {
		t.Fatal(err)
	}
	c0, c1 := cx.Cell(0), cx.Cell(1)
	if nb := c0.Neighbor(0); nb.Kind != tetsurf.Interior || nb.Cell != c1 {
		t.Errorf("cell 0 slot 0: got %+v, want interior neighbor cell 1", nb)
	}
	if nb := c1.Neighbor(3); nb.Kind != tetsurf.Interior || nb.Cell != c0 {
		t.Errorf("cell 1 slot 3: got %+v, want interior neighbor cell 0", nb)
	}
	if got := cx.HullFaces(); got != 6 {
		t.Errorf("got %d hull faces, want 6", got)
	}
	bb := cx.Bounds()
	if bb.Min != (r3.Vec{}) || bb.Max != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("unexpected bounds %+v", bb)
	}
}

func TestWeld(t *testing.T) {
	const eps = 1e-9
	// Two tetrahedra listed with separate copies of their shared nodes.
	nodes := []r3.Vec{
		{}, {X: 1}, {Y: 1}, {Z: 1},
		{X: 1 + eps}, {Y: 1 - eps}, {Z: 1}, {X: 1, Y: 1, Z: 1},
	}
	tetras := [][4]int{{0, 1, 2, 3}, {4, 5, 6, 7}}
	// Without welding the cells are disconnected.
	cx, err := tetsurf.NewComplex(nodes, tetras)
	if err != nil {
		t.Fatal(err)
	}
	if got := cx.HullFaces(); got != 8 {
		t.Fatalf("got %d hull faces before weld, want 8", got)
	}

	welded, wtetras, err := tetsurf.Weld(nodes, tetras, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(nodes[:4], welded[:4]); diff != "" || len(welded) != 5 {
		t.Fatalf("got %d welded nodes, want 5 keeping first positions:\n%s", len(welded), diff)
	}
	if diff := cmp.Diff([][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}}, wtetras); diff != "" {
		t.Errorf("welded tetras mismatch (-want +got):\n%s", diff)
	}
	cx, err = tetsurf.NewComplex(welded, wtetras)
	if err != nil {
		t.Fatal(err)
	}
	if got := cx.HullFaces(); got != 6 {
		t.Errorf("got %d hull faces after weld, want 6", got)
	}

	// Zero tolerance only merges exact duplicates.
	welded, _, err = tetsurf.Weld(nodes, tetras, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(welded) != 7 {
		t.Errorf("zero tolerance: got %d nodes, want 7", len(welded))
	}

	if _, _, err := tetsurf.Weld(nodes, tetras, 2); err == nil {
		t.Error("expected error for tetra collapsing after weld")
	}
	if _, _, err := tetsurf.Weld(nodes, tetras, -1); err == nil {
		t.Error("expected error for negative tolerance")
	}
}

func TestExtractBatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	var jobs []tetsurf.Job
	for _, res := range []float64{0.5, 0.4, 0.25} {
		jobs = append(jobs, tetsurf.Job{Complex: bccComplex(t, res), Predicate: insideSphere(t, r3.Vec{}, 0.6)})
	}
	results, err := tetsurf.ExtractBatch(context.Background(), jobs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results for %d jobs", len(results), len(jobs))
	}
	for i, res := range results {
		want, err := tetsurf.Extract(jobs[i].Complex, jobs[i].Predicate)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want.Labels.Values(), res.Labels.Values()); diff != "" {
			t.Errorf("job %d labels mismatch (-want +got):\n%s", i, diff)
		}
		if len(res.Faces) != len(want.Faces) || len(res.Faces) == 0 {
			t.Errorf("job %d: got %d faces, want %d", i, len(res.Faces), len(want.Faces))
		}
	}
}

func TestExtractBatchErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	errBad := errors.New("bad")
	failing := tetsurf.PredicateFunc(func(*tetsurf.Cell) (bool, error) { return false, errBad })
	jobs := []tetsurf.Job{
		{Complex: bccComplex(t, 0.5), Predicate: predicate.Always()},
		{Complex: bccComplex(t, 0.5), Predicate: failing},
	}
	_, err := tetsurf.ExtractBatch(context.Background(), jobs, 0)
	if !errors.Is(err, errBad) || !errors.Is(err, tetsurf.ErrPredicateFailure) {
		t.Errorf("got %v, want wrapped predicate failure", err)
	}

	shared := bccComplex(t, 0.5)
	_, err = tetsurf.ExtractBatch(context.Background(), []tetsurf.Job{
		{Complex: shared, Predicate: predicate.Always()},
		{Complex: shared, Predicate: predicate.Never()},
	}, 1)
	if err == nil {
		t.Error("expected error for jobs sharing a complex")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tetsurf.ExtractBatch(ctx, jobs[:1], 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
