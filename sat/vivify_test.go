package sat

import "testing"

// addLearnt registers a clause as learnt, bypassing conflict analysis.
func addLearnt(tb testing.TB, s *Solver, lits []Literal) *Clause {
	tb.Helper()
	c, ok := NewClause(s, lits, true)
	if c == nil || !ok {
		tb.Fatalf("NewClause: got (%v, %t)", c, ok)
	}
	s.learnts = append(s.learnts, c)
	return c
}

func TestVivifyClause_shortens(t *testing.T) {
	s := mkSolver(t, DefaultOptions, 3, [][]int{{-1, 2}})

	// Assuming variable 0 propagates variable 1 through the constraint, so
	// the learnt clause's third literal is redundant.
	c := addLearnt(t, s, []Literal{
		NegativeLiteral(0),
		PositiveLiteral(1),
		PositiveLiteral(2),
	})

	s.vivifyLearnts()

	if got := c.Len(); got != 2 {
		t.Fatalf("Len(): got %d, want 2", got)
	}
	want := []Literal{NegativeLiteral(0), PositiveLiteral(1)}
	if !sameLiterals(want, c.literals) {
		t.Errorf("literals: got %v, want %v", c.literals, want)
	}
	if !c.isProtected() {
		t.Errorf("isProtected(): got false, want true for a vivified clause")
	}
	if s.TotalVivified != 1 {
		t.Errorf("TotalVivified: got %d, want 1", s.TotalVivified)
	}
	if got := s.NumAssigns(); got != 0 {
		t.Errorf("NumAssigns(): got %d, want 0 (probes must be unwound)", got)
	}

	// The shortened clause is still watched and propagating.
	if !s.assume(PositiveLiteral(0)) {
		t.Fatalf("assume: conflict")
	}
	if confl := s.Propagate(); confl != nil {
		t.Fatalf("Propagate(): unexpected conflict %s", confl)
	}
	if got := s.VarValue(1); got != True {
		t.Errorf("VarValue(1): got %s, want true", got)
	}
	s.cancelUntil(0)
}

func TestVivifyClause_keepsIrreducible(t *testing.T) {
	s := mkSolver(t, DefaultOptions, 3, nil)

	c := addLearnt(t, s, []Literal{
		PositiveLiteral(0),
		PositiveLiteral(1),
		PositiveLiteral(2),
	})

	s.vivifyLearnts()

	if got := c.Len(); got != 3 {
		t.Errorf("Len(): got %d, want 3 (nothing to remove)", got)
	}
	if s.TotalVivified != 0 {
		t.Errorf("TotalVivified: got %d, want 0", s.TotalVivified)
	}
}

func TestVivifyClause_reducedToUnit(t *testing.T) {
	s := mkSolver(t, DefaultOptions, 3, [][]int{{-1, 2}, {-1, -2}})

	// Assuming variable 0 conflicts right away, so the clause reduces to its
	// first literal which becomes a root fact.
	addLearnt(t, s, []Literal{
		NegativeLiteral(0),
		PositiveLiteral(1),
		PositiveLiteral(2),
	})

	s.vivifyLearnts()

	if got := s.NumLearnts(); got != 0 {
		t.Errorf("NumLearnts(): got %d, want 0 (unit clause is dropped)", got)
	}
	if got := s.VarValue(0); got != False {
		t.Errorf("VarValue(0): got %s, want false", got)
	}
}
