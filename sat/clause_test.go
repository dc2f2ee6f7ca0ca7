package sat

import "testing"

func TestNewClause(t *testing.T) {
	a := PositiveLiteral(0)
	b := PositiveLiteral(1)
	c := PositiveLiteral(2)

	testCases := []struct {
		desc     string
		literals []Literal
		want     []Literal // nil if no clause should be created
		wantOK   bool
	}{
		{
			desc:     "binary clause",
			literals: []Literal{a, b},
			want:     []Literal{a, b},
			wantOK:   true,
		},
		{
			desc:     "tautology is dropped",
			literals: []Literal{a, b, a.Opposite()},
			want:     nil,
			wantOK:   true,
		},
		{
			desc:     "duplicates are removed",
			literals: []Literal{a, b, a, c},
			want:     []Literal{a, b, c},
			wantOK:   true,
		},
		{
			desc:     "empty clause is a contradiction",
			literals: []Literal{},
			want:     nil,
			wantOK:   false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			s := NewSolver(DefaultOptions)
			for i := 0; i < 3; i++ {
				s.AddVariable()
			}

			clause, ok := NewClause(s, tc.literals, false)
			if ok != tc.wantOK {
				t.Errorf("NewClause: got ok = %t, want %t", ok, tc.wantOK)
			}
			if tc.want == nil {
				if clause != nil {
					t.Fatalf("NewClause: got %s, want no clause", clause)
				}
				return
			}
			if clause == nil {
				t.Fatalf("NewClause: got no clause, want %v", tc.want)
			}

			if !sameLiterals(tc.want, clause.literals) {
				t.Errorf("literals mismatch: got %v, want %v", clause.literals, tc.want)
			}
		})
	}
}

func sameLiterals(want, got []Literal) bool {
	if len(want) != len(got) {
		return false
	}
	seen := map[Literal]int{}
	for _, l := range want {
		seen[l]++
	}
	for _, l := range got {
		seen[l]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

func TestNewClause_unitIsEnqueued(t *testing.T) {
	s := NewSolver(DefaultOptions)
	s.AddVariable()

	clause, ok := NewClause(s, []Literal{PositiveLiteral(0)}, false)
	if clause != nil || !ok {
		t.Fatalf("NewClause: got (%v, %t), want (nil, true)", clause, ok)
	}
	if got := s.VarValue(0); got != True {
		t.Errorf("VarValue(0): got %s, want true", got)
	}

	// The opposite unit now contradicts the first one.
	clause, ok = NewClause(s, []Literal{NegativeLiteral(0)}, false)
	if clause != nil || ok {
		t.Fatalf("NewClause: got (%v, %t), want (nil, false)", clause, ok)
	}
}

func TestNewClause_rootFalseLiteralsRemoved(t *testing.T) {
	s := NewSolver(DefaultOptions)
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	if _, ok := NewClause(s, []Literal{NegativeLiteral(0)}, false); !ok {
		t.Fatalf("NewClause: root enqueue failed")
	}

	// Variable 0 is false at the root so the clause shrinks to a unit on
	// variable 1 and gets enqueued instead of stored.
	clause, ok := NewClause(s, []Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	if clause != nil || !ok {
		t.Fatalf("NewClause: got (%v, %t), want (nil, true)", clause, ok)
	}
	if got := s.VarValue(1); got != True {
		t.Errorf("VarValue(1): got %s, want true", got)
	}
}

func TestClauseSimplify(t *testing.T) {
	s := NewSolver(DefaultOptions)
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	clause, ok := NewClause(s, []Literal{
		PositiveLiteral(0),
		PositiveLiteral(1),
		PositiveLiteral(2),
	}, false)
	if clause == nil || !ok {
		t.Fatalf("NewClause: got (%v, %t)", clause, ok)
	}

	if !s.enqueue(NegativeLiteral(2), nil) {
		t.Fatalf("enqueue: conflict")
	}
	if clause.Simplify(s) {
		t.Fatalf("Simplify: got true, want false (clause not satisfied)")
	}
	if got := clause.Len(); got != 2 {
		t.Errorf("Len(): got %d, want 2", got)
	}

	if !s.enqueue(PositiveLiteral(0), nil) {
		t.Fatalf("enqueue: conflict")
	}
	if !clause.Simplify(s) {
		t.Errorf("Simplify: got false, want true (clause satisfied at root)")
	}
}
