package tetsurf

import "fmt"

// Validate checks the adjacency of the complex. Every interior neighbor must
// belong to the complex, list the cell back exactly once and share with it
// exactly the three vertices of the face the slot refers to.
func (cx *Complex) Validate() error {
	for ic, c := range cx.cells {
		for slot, nb := range c.neighbors {
			switch nb.Kind {
			case HullBoundary:
				if nb.Cell != nil {
					return fmt.Errorf("%w: cell %d slot %d: hull boundary references a cell", ErrAdjacencyAsymmetry, ic, slot)
				}
				continue
			case Interior:
			default:
				return fmt.Errorf("cell %d slot %d: invalid %v", ic, slot, nb.Kind)
			}
			n := nb.Cell
			if n == nil || n.owner != cx {
				return fmt.Errorf("%w: cell %d slot %d: neighbor not in complex", ErrAdjacencyAsymmetry, ic, slot)
			}
			back := 0
			for _, nn := range n.neighbors {
				if nn.Kind == Interior && nn.Cell == c {
					back++
				}
			}
			if back != 1 {
				return fmt.Errorf("%w: cell %d slot %d: neighbor lists cell back %d times", ErrAdjacencyAsymmetry, ic, slot, back)
			}
			face, err := sharedFace(c, n)
			if err != nil {
				return fmt.Errorf("cell %d slot %d: %w", ic, slot, err)
			}
			if face != c.Face(slot) {
				return fmt.Errorf("%w: cell %d slot %d: shared face is not the face opposite vertex %d", ErrAdjacencyAsymmetry, ic, slot, slot)
			}
		}
	}
	return nil
}
