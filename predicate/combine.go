package predicate

import "github.com/soypat/tetsurf"

// And includes a cell when all predicates include it. Evaluation stops at the
// first predicate that excludes the cell or fails.
func And(preds ...tetsurf.Predicate) tetsurf.Predicate {
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		for _, p := range preds {
			ok, err := p.Include(c)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}

// Or includes a cell when any predicate includes it. Evaluation stops at the
// first predicate that includes the cell or fails.
func Or(preds ...tetsurf.Predicate) tetsurf.Predicate {
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		for _, p := range preds {
			ok, err := p.Include(c)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	})
}

// Not inverts p. Errors are passed through.
func Not(p tetsurf.Predicate) tetsurf.Predicate {
	return tetsurf.PredicateFunc(func(c *tetsurf.Cell) (bool, error) {
		ok, err := p.Include(c)
		if err != nil {
			return false, err
		}
		return !ok, nil
	})
}
