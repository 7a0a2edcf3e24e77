package predicate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/soypat/tetsurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// singleCell returns the only cell of a complex built from pts.
func singleCell(t testing.TB, pts ...r3.Vec) *tetsurf.Cell {
	cx, err := tetsurf.NewComplex(pts, [][4]int{{0, 1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	cx.Tag()
	return cx.Cell(0)
}

var (
	regular = []r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}}
	corner  = []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	flat    = []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}
)

func include(t testing.TB, p tetsurf.Predicate, c *tetsurf.Cell) bool {
	ok, err := p.Include(c)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestAspectRatio(t *testing.T) {
	reg, cor := singleCell(t, regular...), singleCell(t, corner...)
	p, err := AspectRatio(0, 3+1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if !include(t, p, reg) {
		t.Error("regular tetrahedron excluded")
	}
	if include(t, p, cor) {
		t.Error("corner tetrahedron included")
	}
	p, err = AspectRatio(3.5, math.Inf(1))
	if err != nil {
		t.Fatal(err)
	}
	if include(t, p, reg) || !include(t, p, cor) {
		t.Error("lower bound not applied")
	}
	if _, err := AspectRatio(0, 2); err == nil {
		t.Error("expected error for maximum below 3")
	}
}

func TestVolume(t *testing.T) {
	cor := singleCell(t, corner...)
	for _, tc := range []struct {
		min, max float64
		want     bool
	}{
		{min: 0, max: 1, want: true},
		{min: 1.0 / 6, max: 1.0 / 6, want: true},
		{min: 0.2, max: math.Inf(1), want: false},
		{min: 0, max: 0.1, want: false},
	} {
		p, err := Volume(tc.min, tc.max)
		if err != nil {
			t.Fatal(err)
		}
		if got := include(t, p, cor); got != tc.want {
			t.Errorf("volume in [%g, %g]: got %v, want %v", tc.min, tc.max, got, tc.want)
		}
	}
	if _, err := Volume(1, 0); err == nil {
		t.Error("expected error for inverted range")
	}
	_, err := Volume(-1, 0)
	if err == nil || !strings.Contains(err.Error(), "Volume") {
		t.Errorf("expected error naming the constructor, got %v", err)
	}
}

func TestCircumradius(t *testing.T) {
	reg := singleCell(t, regular...)
	p, err := Circumradius(2)
	if err != nil {
		t.Fatal(err)
	}
	if !include(t, p, reg) {
		t.Error("regular tetrahedron with circumradius sqrt(3) excluded at alpha 2")
	}
	p, err = Circumradius(1.5)
	if err != nil {
		t.Fatal(err)
	}
	if include(t, p, reg) {
		t.Error("regular tetrahedron with circumradius sqrt(3) included at alpha 1.5")
	}
	if _, err := Circumradius(0); err == nil {
		t.Error("expected error for zero alpha")
	}
}

func TestDegenerateCell(t *testing.T) {
	c := singleCell(t, flat...)
	vol, _ := Volume(0, 1)
	ar, _ := AspectRatio(0, 10)
	cr, _ := Circumradius(1)
	for name, p := range map[string]tetsurf.Predicate{"volume": vol, "aspect": ar, "circumradius": cr} {
		_, err := p.Include(c)
		if !errors.Is(err, ErrDegenerateCell) {
			t.Errorf("%s: got %v, want ErrDegenerateCell", name, err)
		}
	}
	// Failures propagate through classification.
	cx, err := tetsurf.NewComplex(flat, [][4]int{{0, 1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = tetsurf.Extract(cx, ar)
	if !errors.Is(err, ErrDegenerateCell) || !errors.Is(err, tetsurf.ErrPredicateFailure) {
		t.Errorf("got %v, want degenerate cell predicate failure", err)
	}
}

func TestInsideSphere(t *testing.T) {
	s, err := Sphere(r3.Vec{X: 10}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d := s.Evaluate(r3.Vec{X: 10}); math.Abs(d+1) > 1e-12 {
		t.Errorf("distance at center got %g, want -1", d)
	}
	bb := s.Bounds()
	if bb.Min.X > 9 || bb.Max.X < 11 {
		t.Errorf("bounds %+v do not contain sphere", bb)
	}
	p, err := Inside(s)
	if err != nil {
		t.Fatal(err)
	}
	near := make([]r3.Vec, len(corner))
	for i, v := range corner {
		near[i] = r3.Add(v, r3.Vec{X: 9.8})
	}
	if !include(t, p, singleCell(t, near...)) {
		t.Error("cell with centroid inside sphere excluded")
	}
	if include(t, p, singleCell(t, corner...)) {
		t.Error("cell far from sphere included")
	}
	if _, err := Inside(nil); err == nil {
		t.Error("expected error for nil SDF")
	}
	if _, err := Sphere(r3.Vec{}, -1); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestCombinators(t *testing.T) {
	c := singleCell(t, corner...)
	errBad := errors.New("bad")
	failing := tetsurf.PredicateFunc(func(*tetsurf.Cell) (bool, error) { return false, errBad })
	for _, tc := range []struct {
		name string
		p    tetsurf.Predicate
		want bool
	}{
		{name: "and", p: And(Always(), Always()), want: true},
		{name: "and short circuit", p: And(Never(), failing), want: false},
		{name: "or", p: Or(Never(), Always()), want: true},
		{name: "or short circuit", p: Or(Always(), failing), want: true},
		{name: "empty and", p: And(), want: true},
		{name: "empty or", p: Or(), want: false},
		{name: "not", p: Not(Never()), want: true},
	} {
		if got := include(t, tc.p, c); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
	for name, p := range map[string]tetsurf.Predicate{
		"and": And(Always(), failing),
		"or":  Or(Never(), failing),
		"not": Not(failing),
	} {
		if _, err := p.Include(c); !errors.Is(err, errBad) {
			t.Errorf("%s: got %v, want errBad", name, err)
		}
	}
}

func TestFromConfig(t *testing.T) {
	reg := singleCell(t, regular...)
	for _, tc := range []struct {
		cfg  Config
		want bool
	}{
		{cfg: Config{}, want: false},
		{cfg: Config{Kind: KindNever, Invert: true}, want: true},
		{cfg: Config{Kind: KindAspectRatio, Min: 0, Max: 4}, want: true},
		{cfg: Config{Kind: "Aspect", Min: 4}, want: false},
		{cfg: Config{Kind: KindVolume, Min: 1}, want: true},
		{cfg: Config{Kind: KindCircumradius, Alpha: 1}, want: false},
		{cfg: Config{Kind: KindSphere, Radius: 0.5}, want: true},
		{cfg: Config{Kind: KindSphere, Center: [3]float64{5, 0, 0}, Radius: 0.5}, want: false},
	} {
		p, err := FromConfig(tc.cfg)
		if err != nil {
			t.Fatalf("%+v: %v", tc.cfg, err)
		}
		if got := include(t, p, reg); got != tc.want {
			t.Errorf("%+v: got %v, want %v", tc.cfg, got, tc.want)
		}
	}
	for _, cfg := range []Config{
		{Kind: "cube"},
		{Kind: KindCircumradius},
		{Kind: KindVolume, Min: -1},
		{Kind: KindSphere, Radius: -1},
	} {
		if _, err := FromConfig(cfg); err == nil {
			t.Errorf("%+v: expected error", cfg)
		}
	}
}
