package sat

// Vivification tries to shorten learnt clauses without changing the set of
// models: the negations of a clause's literals are propagated one by one
// (with the clause itself detached) and the clause is truncated as soon as
// the propagation derives a conflict or one of the remaining literals. All
// of it happens under throwaway decision levels that are unwound before
// returning, so only the clause itself is ever modified.

const (
	// Conflicts between two vivification passes.
	vivifyInterval = 5000

	// Only clauses at least this promising are vivified.
	vivifyMaxLBD = 6

	// Clauses inspected per pass.
	vivifyMaxClauses = 100
)

// vivifyLearnts runs a vivification pass over the most promising learnt
// clauses. Must be called at the root level with propagation at fixpoint.
func (s *Solver) vivifyLearnts() {
	inspected := 0
	for _, c := range s.learnts {
		if inspected >= vivifyMaxClauses {
			break
		}
		if c.isDeleted() || c.locked(s) || c.lbd > vivifyMaxLBD {
			continue
		}
		inspected++
		s.vivifyClause(c)
		if s.unsat {
			break
		}
	}

	// Drop the clauses that vivification reduced to units (or emptied).
	j := 0
	for _, c := range s.learnts {
		if !c.isDeleted() {
			s.learnts[j] = c
			j++
		}
	}
	s.learnts = s.learnts[:j]
}

// vivifyClause rewrites c in place with an equivalent, possibly shorter,
// set of literals. The clause keeps its identity: watch lists are updated
// but activity and protection state carry over.
func (s *Solver) vivifyClause(c *Clause) {
	s.Unwatch(c, c.literals[0].Opposite())
	s.Unwatch(c, c.literals[1].Opposite())

	kept := s.tmpVivify[:0]
	shortened := false

loop:
	for i, l := range c.literals {
		switch s.LitValue(l) {
		case True:
			// The negations propagated so far imply l: the remaining
			// literals are redundant.
			kept = append(kept, l)
			shortened = shortened || i < len(c.literals)-1
			break loop
		case False:
			// The negations propagated so far imply the negation of l:
			// l itself is redundant.
			shortened = true
		default:
			kept = append(kept, l)
			s.assume(l.Opposite())
			if s.Propagate() != nil {
				// The kept prefix alone is already conflicting when fully
				// negated: it subsumes the clause.
				shortened = shortened || i < len(c.literals)-1
				break loop
			}
		}
	}

	s.cancelUntil(0)
	s.tmpVivify = kept

	if !shortened {
		s.Watch(c, c.literals[0].Opposite(), c.literals[1])
		s.Watch(c, c.literals[1].Opposite(), c.literals[0])
		return
	}

	s.TotalVivified++
	switch len(kept) {
	case 0:
		s.unsat = true
		c.statusMask |= statusDeleted
		c.literals = nil
	case 1:
		if !s.enqueue(kept[0], nil) {
			s.unsat = true
		}
		c.statusMask |= statusDeleted
		c.literals = nil
	default:
		c.literals = c.literals[:len(kept)]
		copy(c.literals, kept)
		c.prevPos = 2
		if lbd := uint32(len(kept) - 1); lbd < c.lbd {
			c.lbd = lbd
		}
		c.setProtected()
		s.Watch(c, c.literals[0].Opposite(), c.literals[1])
		s.Watch(c, c.literals[1].Opposite(), c.literals[0])
	}
}
