package tetsurf

import "fmt"

// Tag writes each cell's position in iteration order into its tag.
// Tags form the contiguous range [0, Len()) and stay valid until
// the complex is next modified.
func (cx *Complex) Tag() {
	for i, c := range cx.cells {
		c.tag = i
	}
	cx.tagged = cx.version
}

// Tagged reports whether cell tags reflect the current state of the complex.
func (cx *Complex) Tagged() bool { return cx.tagged == cx.version }

// Tag returns the cell's position in its complex at the time of the last
// call to Complex.Tag, or -1 if the complex was never tagged.
func (c *Cell) Tag() int { return c.tag }

// checkTags returns ErrTaggingInconsistency if cells carry tags that do not
// correspond to the current state of the complex. An empty complex is always consistent.
func (cx *Complex) checkTags() error {
	if len(cx.cells) == 0 || cx.Tagged() {
		return nil
	}
	if cx.tagged == 0 {
		return fmt.Errorf("%w: complex not tagged", ErrTaggingInconsistency)
	}
	return fmt.Errorf("%w: complex modified after tagging (version %d, tagged at %d)", ErrTaggingInconsistency, cx.version, cx.tagged)
}
