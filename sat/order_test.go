package sat

import "testing"

func TestVarOrder_selectsHighestActivity(t *testing.T) {
	s := NewSolver(DefaultOptions)
	for i := 0; i < 4; i++ {
		s.AddVariable()
	}
	s.activities = []float64{1, 5, 3, 2}
	s.order = NewVarOrder(s, s.NumVariables())

	if got := s.order.Select(); got.VarID() != 1 {
		t.Errorf("Select(): got variable %d, want 1", got.VarID())
	}
}

func TestVarOrder_tiesBreakByLowestID(t *testing.T) {
	s := NewSolver(DefaultOptions)
	for i := 0; i < 5; i++ {
		s.AddVariable()
	}
	s.activities = []float64{2, 2, 7, 2, 7}
	s.order = NewVarOrder(s, s.NumVariables())

	if got := s.order.Select(); got.VarID() != 2 {
		t.Errorf("Select(): got variable %d, want 2", got.VarID())
	}
}

func TestVarOrder_allZeroActivities(t *testing.T) {
	s := NewSolver(DefaultOptions)
	for i := 0; i < 6; i++ {
		s.AddVariable()
	}
	s.order = NewVarOrder(s, s.NumVariables())

	// With no activity signal at all, decisions go in variable order.
	for want := 0; want < 6; want++ {
		l := s.order.Select()
		if l.VarID() != want {
			t.Fatalf("Select(): got variable %d, want %d", l.VarID(), want)
		}
		if !s.assume(l) {
			t.Fatalf("assume(%s): conflict on an empty problem", l)
		}
	}
}

func TestVarOrder_skipsAssigned(t *testing.T) {
	s := NewSolver(DefaultOptions)
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	s.activities = []float64{9, 8, 7}
	s.order = NewVarOrder(s, s.NumVariables())

	if !s.assume(PositiveLiteral(0)) {
		t.Fatalf("assume: conflict on an empty problem")
	}
	if got := s.order.Select(); got.VarID() != 1 {
		t.Errorf("Select(): got variable %d, want 1", got.VarID())
	}
}

func TestVarOrder_usesSavedPhase(t *testing.T) {
	s := NewSolver(DefaultOptions)
	s.AddVariable()
	s.order = NewVarOrder(s, s.NumVariables())

	// Never-assigned variables branch negative first.
	if got := s.order.Select(); got.IsPositive() {
		t.Errorf("Select(): got %s, want a negative literal", got)
	}

	// Assigning and retracting the variable saves its polarity.
	if !s.assume(PositiveLiteral(0)) {
		t.Fatalf("assume: conflict on an empty problem")
	}
	s.cancelUntil(0)

	if got := s.order.Select(); !got.IsPositive() {
		t.Errorf("Select(): got %s, want a positive literal", got)
	}
}
