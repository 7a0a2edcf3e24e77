package tetsurf

import (
	"errors"
	"fmt"
)

// Predicate decides whether a cell belongs to the included region.
// Implementations must be deterministic for identical cell geometry
// and must not modify the cell. Failures such as ill-defined geometry
// are reported through the returned error.
type Predicate interface {
	Include(c *Cell) (bool, error)
}

// PredicateFunc adapts an ordinary function to the Predicate interface.
type PredicateFunc func(c *Cell) (bool, error)

// Include calls f(c).
func (f PredicateFunc) Include(c *Cell) (bool, error) { return f(c) }

// Labels holds the inclusion label of every cell of a complex indexed by tag.
// Labels are bound to the complex version they were computed at.
type Labels struct {
	values  []bool
	cx      *Complex
	version uint64
}

// Classify evaluates p for every cell of a tagged complex and records the
// result at the cell's tag. The first predicate error aborts classification
// and is returned wrapped in ErrPredicateFailure.
func Classify(cx *Complex, p Predicate) (Labels, error) {
	if p == nil {
		return Labels{}, fmt.Errorf("%w: nil predicate", ErrPredicateFailure)
	}
	if err := cx.checkTags(); err != nil {
		return Labels{}, err
	}
	values := make([]bool, len(cx.cells))
	for _, c := range cx.cells {
		include, err := p.Include(c)
		if err != nil {
			return Labels{}, fmt.Errorf("%w: cell %d: %w", ErrPredicateFailure, c.tag, err)
		}
		values[c.tag] = include
	}
	return Labels{values: values, cx: cx, version: cx.version}, nil
}

// Label returns the inclusion label of c. It fails with ErrTaggingInconsistency
// if c belongs to another complex, its tag is out of range or the complex
// changed since classification.
func (l Labels) Label(c *Cell) (bool, error) {
	if err := l.check(); err != nil {
		return false, err
	}
	if c == nil || c.owner != l.cx {
		return false, fmt.Errorf("%w: cell not in labelled complex", ErrTaggingInconsistency)
	}
	if c.tag < 0 || c.tag >= len(l.values) {
		return false, fmt.Errorf("%w: tag %d out of range [0, %d)", ErrTaggingInconsistency, c.tag, len(l.values))
	}
	return l.values[c.tag], nil
}

// check verifies the labels still describe their complex.
func (l Labels) check() error {
	if l.cx == nil {
		if len(l.values) == 0 {
			return nil
		}
		return errors.New("labels without complex")
	}
	if l.version != l.cx.version {
		return fmt.Errorf("%w: complex modified after classification", ErrTaggingInconsistency)
	}
	if len(l.values) != len(l.cx.cells) {
		return fmt.Errorf("%w: %d labels for %d cells", ErrTaggingInconsistency, len(l.values), len(l.cx.cells))
	}
	return l.cx.checkTags()
}

// Len returns the number of labels.
func (l Labels) Len() int { return len(l.values) }

// Values returns a copy of the labels indexed by tag.
func (l Labels) Values() []bool {
	return append([]bool(nil), l.values...)
}

// Count returns the number of included cells.
func (l Labels) Count() (n int) {
	for _, v := range l.values {
		if v {
			n++
		}
	}
	return n
}
