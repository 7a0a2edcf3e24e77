// Package predicate provides geometric inclusion predicates for tetrahedral
// cells. Constructors validate their parameters and return an error
// annotated with the calling function on bad input.
package predicate

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/soypat/tetsurf"
	"github.com/soypat/tetsurf/internal/d3"
)

// ErrDegenerateCell is returned by geometric predicates when a cell has
// negligible volume and its shape measures are not defined.
var ErrDegenerateCell = errors.New("degenerate cell")

// degenerateTol is the volume below which a cell is considered flat,
// relative to the cube of its longest edge.
const degenerateTol = 1e-12

// errMsg returns an error with a message function name and line number.
func errMsg(msg string) error {
	pc, _, line, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("?: %s", msg)
	}
	fn := runtime.FuncForPC(pc)
	return fmt.Errorf("%s line %d: %s", fn.Name(), line, msg)
}

// tetra returns the geometry of c or ErrDegenerateCell.
func tetra(c *tetsurf.Cell) (d3.Tetra, error) {
	t := d3.Tetra(c.Points())
	if t.Degenerate(degenerateTol) {
		return t, fmt.Errorf("%w: volume %g", ErrDegenerateCell, t.Volume())
	}
	return t, nil
}

func checkRange(min, max float64) error {
	switch {
	case math.IsNaN(min) || math.IsNaN(max):
		return errors.New("NaN bound")
	case min < 0:
		return errors.New("negative minimum")
	case max < min:
		return errors.New("maximum less than minimum")
	}
	return nil
}

// Never returns a predicate that excludes every cell.
func Never() tetsurf.Predicate {
	return tetsurf.PredicateFunc(func(*tetsurf.Cell) (bool, error) { return false, nil })
}

// Always returns a predicate that includes every cell.
func Always() tetsurf.Predicate {
	return tetsurf.PredicateFunc(func(*tetsurf.Cell) (bool, error) { return true, nil })
}

// Volume includes cells whose volume lies in [min, max]. Use math.Inf(1)
// for an unbounded maximum.
func Volume(min, max float64) (tetsurf.Predicate, error) {
	if err := checkRange(min, max); err != nil {
		return nil, errMsg(err.Error())
	}
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		t, err := tetra(c)
		if err != nil {
			return false, err
		}
		v := t.Volume()
		return v >= min && v <= max, nil
	}), nil
}

// AspectRatio includes cells whose circumradius to inradius ratio lies
// in [min, max]. The ratio is 3 for the regular tetrahedron and larger
// for every other shape.
func AspectRatio(min, max float64) (tetsurf.Predicate, error) {
	if err := checkRange(min, max); err != nil {
		return nil, errMsg(err.Error())
	}
	if max < 3 {
		return nil, errMsg("maximum aspect ratio below 3 excludes every cell")
	}
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		t, err := tetra(c)
		if err != nil {
			return false, err
		}
		ar := t.AspectRatio()
		return ar >= min && ar <= max, nil
	}), nil
}

// Circumradius includes cells whose circumscribed sphere has a radius of at
// most alpha. Applied to a Delaunay tetrahedralization the included cells
// form the alpha complex of the point set.
func Circumradius(alpha float64) (tetsurf.Predicate, error) {
	if alpha <= 0 || math.IsNaN(alpha) {
		return nil, errMsg("alpha must be positive")
	}
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		t, err := tetra(c)
		if err != nil {
			return false, err
		}
		return t.Circumradius() <= alpha, nil
	}), nil
}
